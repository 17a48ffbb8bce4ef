package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"sales-dashboard/models"
	"sales-dashboard/services"
	"sales-dashboard/utils"
)

// Server renders the dashboard as HTML at / and as JSON at /api/view.
type Server struct {
	sales   []*models.Sale
	query   *services.QueryService
	logger  *utils.Logger
	limit   int
	options []string
	mux     *http.ServeMux
}

// NewServer builds the handlers over an already loaded table of sales.
func NewServer(sales []*models.Sale, query *services.QueryService, logger *utils.Logger, limit int) *Server {
	if limit <= 0 {
		limit = services.DefaultRecentLimit
	}
	s := &Server{
		sales:   sales,
		query:   query,
		logger:  logger,
		limit:   limit,
		options: services.SaleTypeOptions(sales),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/view", s.handleView)
	s.mux.HandleFunc("GET /api/options", s.handleOptions)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("[web] Serving dashboard on http://%s/", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("[web] Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	f, err := s.parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view := s.query.Generate(s.sales, f, s.limit)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, s.page(view)); err != nil {
		s.logger.Error("[web] render: %v", err)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	f, err := s.parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.query.Generate(s.sales, f, s.limit))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	def := services.DefaultFilter(s.sales)
	writeJSON(w, http.StatusOK, map[string]any{
		"sale_types": s.options,
		"defaults":   def,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sales": len(s.sales)})
}

// parseFilter reads start, end and repeated type parameters. Missing dates
// fall back to the dataset bounds. Without any type parameter the default
// selection applies, unless the form marker "filtered" is present, in which
// case an empty selection is honoured.
func (s *Server) parseFilter(r *http.Request) (models.Filter, error) {
	q := r.URL.Query()
	f := services.DefaultFilter(s.sales)

	var err error
	if f.Start, err = parseDate(q.Get("start"), f.Start); err != nil {
		return f, fmt.Errorf("start: %w", err)
	}
	if f.End, err = parseDate(q.Get("end"), f.End); err != nil {
		return f, fmt.Errorf("end: %w", err)
	}
	if f.Start.After(f.End) {
		return f, fmt.Errorf("start %s is after end %s",
			f.Start.Format(models.DateLayout), f.End.Format(models.DateLayout))
	}

	switch {
	case q.Get("all") == "1":
		f.SaleTypes = append([]string{}, s.options...)
	case q.Has("type") || q.Has("filtered"):
		f.SaleTypes = make([]string, 0, len(q["type"]))
		for _, t := range q["type"] {
			if t = strings.TrimSpace(t); t != "" {
				f.SaleTypes = append(f.SaleTypes, t)
			}
		}
	}
	return f, nil
}

func parseDate(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", value)
	}
	return t, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}
