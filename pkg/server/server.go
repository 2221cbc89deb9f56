// Package server runs the rabbitary HTTP endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cbrevik/rabbitary/pkg/config"
	"github.com/cbrevik/rabbitary/pkg/dispatch"
)

// Server wraps an http.Server configured from a profile.
type Server struct {
	profile config.Profile
	log     logrus.FieldLogger
	srv     *http.Server
}

// New builds a Server for profile. Zero profile fields fall back to
// config.DefaultProfile.
func New(profile config.Profile, log logrus.FieldLogger) *Server {
	profile = profile.WithDefaults()

	s := &Server{profile: profile, log: log}

	mux := http.NewServeMux()
	mux.Handle("/", dispatch.NewHandler(s.observe))

	s.srv = &http.Server{
		Addr:              profile.Listen,
		Handler:           logRequests(log, mux),
		ReadHeaderTimeout: profile.ReadHeaderTimeout,
		IdleTimeout:       profile.IdleTimeout,
		MaxHeaderBytes:    profile.MaxHeaderBytes,
	}
	return s
}

// Handler returns the full handler chain, for use without a listener.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run listens on the profile address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	lnr, err := net.Listen("tcp", s.profile.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.profile.Listen, err)
	}
	return s.Serve(ctx, lnr)
}

// Serve serves on lnr until ctx is done, then shuts down within the
// profile's shutdown timeout. lnr is closed on return.
func (s *Server) Serve(ctx context.Context, lnr net.Listener) error {
	s.log.WithField("addr", lnr.Addr().String()).Info("listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(lnr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.profile.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.log.Info("stopped")
	return nil
}

func (s *Server) observe(r *http.Request, resp dispatch.Response, err error) {
	if err != nil {
		s.log.WithError(err).WithField("uri", r.RequestURI).Error("request failed")
		return
	}
	if resp.Status >= http.StatusBadRequest {
		s.log.WithFields(logrus.Fields{
			"status": resp.Status,
			"query":  r.URL.RawQuery,
			"reason": resp.Body,
		}).Debug("rejected request")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// logRequests writes one log entry per request.
func logRequests(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"duration": time.Since(start),
		}).Info("request")
	})
}
