//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/engrave/cmd"
	"github.com/jsphweid/engrave/engine"
	"github.com/jsphweid/engrave/layout"
	"github.com/jsphweid/engrave/midi"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/score"
	"github.com/stretchr/testify/assert"
)

func createLayoutReqBody(t *testing.T, path string, opts model.LayoutOptions) io.Reader {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// score files may be YAML; the request carries JSON
	s, err := score.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	body, err := json.Marshal(model.LayoutRequestBody{Score: raw, Name: filepath.Base(path), Options: opts})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(body)
}

func postLayout(t *testing.T, body io.Reader) engine.Result {
	req := httptest.NewRequest(http.MethodPost, "/layout", body)
	w := httptest.NewRecorder()
	cmd.NewRouter().ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, 200, resp.StatusCode)

	var res engine.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	return res
}

func TestRiffE2E(t *testing.T) {
	res := postLayout(t, createLayoutReqBody(t, "../score/testdata/riff.yml", model.LayoutOptions{}))

	assert := assert.New(t)
	assert.Len(res.Measures, 2)
	assert.Equal(0, res.Measures[1].FirstSimilar)
	assert.Len(res.Lines, 1)
	assert.Equal(layout.LineHeader, res.Lines[0].Elements[0].Type)
	assert.Len(res.Tracks, 2)
	assert.Len(res.Tracks[0].Notes, 8)
}

func TestRiffWithoutRepetitionsE2E(t *testing.T) {
	no := false
	res := postLayout(t, createLayoutReqBody(t, "../score/testdata/riff.yml", model.LayoutOptions{Repetitions: &no}))

	assert := assert.New(t)
	for _, m := range res.Measures {
		assert.Equal(-1, m.FirstSimilar)
	}
}

func TestMidiExcerptE2E(t *testing.T) {
	s, err := score.Load("../score/testdata/riff.yml")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "riff.mid")
	if err := midi.WriteExcerpt(s, 0, 1, path); err != nil {
		t.Fatal(err)
	}
	back, err := midi.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(back)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := json.Marshal(model.LayoutRequestBody{Score: raw})

	res := postLayout(t, bytes.NewReader(body))

	assert := assert.New(t)
	assert.Len(res.Measures, 2)
	assert.Len(res.Tracks, 2)
}
