package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetKeysIsSorted(t *testing.T) {
	keys := GetKeys(map[int]string{3: "c", 1: "a", 2: "b"})

	assert := assert.New(t)
	assert.Equal([]int{1, 2, 3}, keys)
}

func TestNumericHelpers(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Abs(-3))
	assert.Equal(1.5, Abs(-1.5))
	assert.Equal(6, Sum([]int{1, 2, 3}))
}

func TestGatherScorePaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yml", "a.mid", "notes.txt", "sub/c.json"} {
		path := filepath.Join(dir, name)
		os.MkdirAll(filepath.Dir(path), 0777)
		os.WriteFile(path, []byte{}, 0666)
	}

	paths, err := GatherScorePaths(dir, 0)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal([]string{
		filepath.Join(dir, "a.mid"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "sub/c.json"),
	}, paths)

	limited, err := GatherScorePaths(dir, 1)
	assert.Nil(err)
	assert.Len(limited, 1)
}

func TestAssertReturnsCondition(t *testing.T) {
	assert := assert.New(t)
	assert.True(Assert(zap.NewNop(), true, "fine"))
}
