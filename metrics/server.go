package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Status is returned by the /status endpoint.
type Status struct {
	Mode      string    `json:"mode"`
	StartTime time.Time `json:"start_time"`
}

// NewRouter returns the handler serving /metrics and /status.
func NewRouter(status Status) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Warn("write status failed", zap.Error(err))
		}
	}).Methods("GET")
	return router
}

// StatusServer serves the router in the background until its context ends.
type StatusServer struct {
	srv  *http.Server
	done chan struct{}
}

// StartStatusServer listens on addr and serves NewRouter(status).
func StartStatusServer(ctx context.Context, addr string, status Status) *StatusServer {
	s := &StatusServer{
		srv:  &http.Server{Addr: addr, Handler: NewRouter(status)},
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		log.Info("status server listening", zap.String("addr", addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("status server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	return s
}

// Close stops the server and waits for the serving goroutine to exit.
func (s *StatusServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	<-s.done
	return errors.Trace(err)
}
