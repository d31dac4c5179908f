// Package httpapi exposes recorded runs over HTTP: listing, raw frame
// access and server-side seeks that return scene snapshots.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/algomation/marionette/internal/logging"
	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/history"
	"github.com/algomation/marionette/pkg/observability"
	"github.com/algomation/marionette/pkg/ports"
	"github.com/algomation/marionette/pkg/schema"
	"github.com/algomation/marionette/pkg/surface"
)

// Server serves recordings from a frame store. Seeks are stateless: every
// request replays on a fresh headless surface, so concurrent requests never
// share a registry.
type Server struct {
	store  ports.FrameStore
	logger *slog.Logger
	hooks  observability.Hooks
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithHooks registers lifecycle hooks (seeks fire OnSeek).
func WithHooks(h observability.Hooks) Option {
	return func(s *Server) { s.hooks = h }
}

// NewHandler builds the HTTP handler for a frame store.
func NewHandler(store ports.FrameStore, opts ...Option) http.Handler {
	s := &Server{store: store, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/runs", s.listRuns)
	r.Route("/runs/{runID}", func(r chi.Router) {
		r.Get("/frames", s.getFrames)
		r.Get("/frames/{index}", s.getFrame)
		r.Post("/seek", s.seek)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, "list runs", err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]any{"runs": runs})
}

func (s *Server) getFrames(w http.ResponseWriter, r *http.Request) {
	frames, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	data, err := schema.EncodeRecording(frames)
	if err != nil {
		s.fail(w, "encode recording", err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) getFrame(w http.ResponseWriter, r *http.Request) {
	frames, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(frames) {
		http.Error(w, fmt.Sprintf("frame index outside [0, %d)", len(frames)), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, map[string]any{"index": index, "commands": frames[index]})
}

// SeekRequest is the seek endpoint's body.
type SeekRequest struct {
	Frame int `json:"frame"`
}

// SeekResponse carries the reconstructed scene at the requested frame.
type SeekResponse struct {
	RunID  string                `json:"run_id"`
	Frame  int                   `json:"frame"`
	Frames int                   `json:"frames"`
	Nodes  []schema.NodeSnapshot `json:"nodes"`
}

func (s *Server) seek(w http.ResponseWriter, r *http.Request) {
	var req SeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	frames, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	player := history.NewPlayer(frames,
		surface.New(&surface.NopBackend{}),
		history.WithLogger(s.logger),
		history.WithHooks(s.hooks),
	)
	if err := player.Seek(r.Context(), req.Frame); err != nil {
		http.Error(w, fmt.Sprintf("seek: %v", err), http.StatusBadRequest)
		return
	}

	s.writeJSON(w, SeekResponse{
		RunID:  chi.URLParam(r, "runID"),
		Frame:  req.Frame,
		Frames: len(frames),
		Nodes:  schema.Snapshot(player.Surface().Registry()),
	})
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) ([]domain.Frame, bool) {
	runID := chi.URLParam(r, "runID")
	frames, err := s.store.Frames(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, fmt.Sprintf("run %q not found", runID), http.StatusNotFound)
		} else {
			s.fail(w, "load run", err, http.StatusInternalServerError)
		}
		return nil, false
	}
	return frames, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, what string, err error, code int) {
	s.logger.Error(what, "err", err)
	http.Error(w, fmt.Sprintf("%s: %v", what, err), code)
}
