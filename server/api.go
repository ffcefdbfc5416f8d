package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lexcodex/swizzle/framework"
)

// APIServer exposes the bridge over HTTP so a parent page (or a test
// harness) can drive the editor without a JSON-RPC transport.
type APIServer struct {
	Bridge *Bridge
	Logger *zap.Logger
}

// MessageResponse carries the replies to one posted message.
type MessageResponse struct {
	Replies []framework.Message `json:"replies"`
}

// EventsResponse carries queued asynchronous events.
type EventsResponse struct {
	Events []framework.Message `json:"events"`
}

// Serve starts listening on the provided address.
func (s *APIServer) Serve(addr string) error {
	return s.ServeContext(context.Background(), addr)
}

// ServeContext allows the caller to control shutdown via context cancellation.
func (s *APIServer) ServeContext(ctx context.Context, addr string) error {
	server := s.newHTTPServer(addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger().Info("API listening", zap.String("addr", addr))
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *APIServer) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Handler returns the API routes.
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/message", s.handleMessage)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/document", s.handleDocument)
	return mux
}

func (s *APIServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var msg framework.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	replies := s.Bridge.Dispatch(ctx, msg)
	if replies == nil {
		replies = []framework.Message{}
	}
	writeJSON(w, MessageResponse{Replies: replies})
}

func (s *APIServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	events := s.Bridge.Drain()
	if events == nil {
		events = []framework.Message{}
	}
	writeJSON(w, EventsResponse{Events: events})
}

func (s *APIServer) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.Bridge.Document()
	if !ok {
		http.Error(w, framework.ErrNoActiveDocument.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, doc)
}

func (s *APIServer) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
