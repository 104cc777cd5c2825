package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// StateFunc returns the snapshot served at GET /state.
type StateFunc func(forUser uuid.UUID) any

// NewMux routes the websocket feed at /ws and a JSON snapshot at /state.
// /state?player=<uuid> includes that seat's hand.
func NewMux(h *Hub, state StateFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", h)
	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		forUser := uuid.Nil
		if v := r.URL.Query().Get("player"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				http.Error(w, "invalid player id", http.StatusBadRequest)
				return
			}
			forUser = id
		}
		writeJSON(w, state(forUser))
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
// ready, if not nil, receives the bound address once listening.
func Serve(ctx context.Context, addr string, handler http.Handler, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready <- ln.Addr()
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
