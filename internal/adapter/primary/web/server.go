package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"time"

	"volpanel/internal/bridge"
	"volpanel/internal/domain"
	"volpanel/internal/logging"
	"volpanel/internal/usecase"
)

//go:embed static/*
var rawStatic embed.FS
var staticContent fs.FS

func init() {
	var err error
	staticContent, err = fs.Sub(rawStatic, "static")
	if err != nil {
		panic(err)
	}
}

// Server is a primary adapter that exposes the bridge endpoint, the event
// stream and the HTML panel. It depends on the use case (primary port).
type Server struct {
	usecase usecase.AudioUseCase
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.AudioUseCase, addr string) *Server {
	srv := &Server{usecase: uc}
	srv.server = &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}
	return srv
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /invoke/{command}", s.handleInvoke)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.Handle("GET /", http.FileServer(http.FS(staticContent)))
	return loggingMiddleware(mux)
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	command := r.PathValue("command")

	var args map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if command == bridge.StopObserverCommand {
		if err := s.usecase.StopObserver(); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, nil)
		return
	}

	for _, d := range bridge.Dialects() {
		switch command {
		case d.GetCommand:
			s.handleGet(w, r, d)
			return
		case d.SetVolumeCommand:
			s.handleSetVolume(w, r, d, args)
			return
		case d.SetMuteCommand:
			s.handleSetMute(w, r, d, args)
			return
		}
	}
	respondError(w, http.StatusNotFound, fmt.Sprintf("unknown command %q", command))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, d bridge.Dialect) {
	state, err := s.usecase.State(r.Context())
	if err != nil {
		logging.Errorf("%s: %v", d.GetCommand, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, d.EncodeState(state))
}

func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request, d bridge.Dialect, args map[string]json.RawMessage) {
	percent, err := d.ParseVolumeArg(args)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := s.usecase.SetVolume(r.Context(), percent)
	s.respondMutation(w, d, d.SetVolumeCommand, state, err)
}

func (s *Server) handleSetMute(w http.ResponseWriter, r *http.Request, d bridge.Dialect, args map[string]json.RawMessage) {
	muted, err := bridge.ParseMuteArg(args)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := s.usecase.SetMute(r.Context(), muted)
	s.respondMutation(w, d, d.SetMuteCommand, state, err)
}

func (s *Server) respondMutation(w http.ResponseWriter, d bridge.Dialect, cmd string, state domain.AudioState, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidVolume) {
			status = http.StatusBadRequest
		}
		logging.Errorf("%s: %v", cmd, err)
		respondError(w, status, err.Error())
		return
	}
	if !d.ReturnsState {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, d.EncodeState(state))
}

// handleEvents streams volume_changed events as Server-Sent Events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	ch, unsubscribe := s.usecase.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case state := <-ch:
			data, err := json.Marshal(bridge.CommandDialect.EncodeState(state))
			if err != nil {
				log.Printf("encode event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: volume_changed\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode JSON: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
