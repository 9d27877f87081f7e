package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/db"
	"github.com/jsphweid/engrave/engine"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/score"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// max accepted request body
const maxBodySize = 8 << 20

var (
	serverLog   = zap.NewNop()
	serverStore *db.Store
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves layouts over HTTP",
	Long: `Serves layouts over HTTP. POST a score document to /layout to get
the laid out notation back as JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()
		return serve(log)
	},
}

type layoutResponse struct {
	Metadata *model.ScoreMetadata `json:"metadata,omitempty"`
	*engine.Result
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		serverLog.Warn("could not write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func applyLayoutOptions(opts render.Options, o model.LayoutOptions) (render.Options, error) {
	if o.Repetitions != nil {
		opts.CheckRepetitions = *o.Repetitions
	}
	if o.MinRepeat != nil {
		if *o.MinRepeat < 1 {
			return opts, fmt.Errorf("min_repeat must be at least 1, got %d", *o.MinRepeat)
		}
		opts.RepetitionMinimalLength = *o.MinRepeat
	}
	if o.LineWidth != nil {
		if *o.LineWidth <= 0 {
			return opts, fmt.Errorf("line_width must be positive, got %v", *o.LineWidth)
		}
		opts.LineWidth = *o.LineWidth
	}
	if o.StemPivot != nil {
		opts.StemPivot = *o.StemPivot
	}
	return opts, nil
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}

func HandleLayout(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not read request body: %w", err))
		return
	}

	var input model.LayoutRequestBody
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not unmarshal request body: %w", err))
		return
	}
	if len(input.Score) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("score is required"))
		return
	}
	s, err := score.Parse(input.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts, err := applyLayoutOptions(render.DefaultOptions(), input.Options)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	log := serverLog.With(zap.String("name", input.Name))
	res, err := renderScore(s, opts, log)
	switch {
	case errors.Is(err, engine.ErrNoTracks), errors.Is(err, engine.ErrNoMeasures):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		log.Error("layout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := layoutResponse{Result: res}
	if input.Name != "" {
		out.Metadata = lookupMetadata(serverStore, input.Name, log)
	}
	writeJSON(w, http.StatusOK, out)
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/layout", HandleLayout).Methods("POST")
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func serve(log *zap.Logger) error {
	serverLog = log
	store, err := db.NewFromEnv()
	if err != nil {
		log.Warn("metadata store disabled", zap.Error(err))
	}
	serverStore = store

	addr := constants.GetAddr()
	log.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, NewRouter())
}
