// Package http serves the sales browser: JSON selections, PNG charts, the
// comment log and a small HTML front page.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	applog "menusales/internal/log"
	"menusales/internal/services"
	appweb "menusales/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	sales       *services.SalesService
	comments    *services.CommentService
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	logger      *applog.Logger
	events      *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer wires the routes. A nil logger falls back to the default one.
func NewServer(addr string, sales *services.SalesService, comments *services.CommentService, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		sales:       sales,
		comments:    comments,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		logger:      logger,
		events:      applog.NewStructuredLogger(logger),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("GET /api/categories/{category}/items", s.withSecurityHeaders(s.handleItems))
	mux.HandleFunc("GET /api/categories/{category}/series", s.withSecurityHeaders(s.handleSeries))
	mux.HandleFunc("GET /api/categories/{category}/compare", s.withSecurityHeaders(s.handleCompare))

	mux.HandleFunc("GET /charts/{category}/bar.png", s.withSecurityHeaders(s.handleBarChart))
	mux.HandleFunc("GET /charts/{category}/line.png", s.withSecurityHeaders(s.handleLineChart))

	mux.HandleFunc("GET /comments", s.withSecurityHeaders(s.handleListComments))
	mux.HandleFunc("POST /comments", s.withSecurityHeaders(s.handleAddComment))

	s.Handler = applog.Middleware(logger)(applog.RequestIDMiddleware(mux))
	return s
}

// Shutdown stops the rate limiter sweep and then the HTTP server. Safe to
// call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.metrics) {
			applog.FromContext(ctx).WithComponent(applog.ComponentSecurity).WarnContext(ctx, "Suspicious request",
				applog.FieldClientIP, clientIP, applog.FieldPath, r.URL.Path)
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP, applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.events.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.sales == nil || s.comments == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type indexData struct {
	Categories    []categoryView
	Category      string
	Items         []string
	Selected      map[string]bool
	ChartURL      string
	Table         *tableView
	Warning       string
	Error         string
	Comments      []string
	CommentsError string
}

// handleIndex renders the front page. A first visit (no "show" field) selects
// the first item of the category; a submitted form with nothing ticked shows
// the empty-selection warning.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.templates == nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := indexData{Categories: categoryViews(s.sales.Categories()), Selected: map[string]bool{}}
	if len(data.Categories) > 0 {
		data.Category = data.Categories[0].Name
	}
	if c := sanitizeInput(r.URL.Query().Get("category")); c != "" {
		data.Category = c
	}

	items := parseItems(r)
	if data.Category != "" {
		n, err := s.sales.Series(ctx, categoryOf(data.Category))
		if err != nil {
			data.Error = err.Error()
		} else {
			data.Items = n.Items()
		}
	}
	if !r.URL.Query().Has("show") && len(items) == 0 && len(data.Items) > 0 {
		items = data.Items[:1]
	}
	for _, it := range items {
		data.Selected[it] = true
	}

	switch {
	case data.Error != "":
	case len(items) == 0:
		data.Warning = noItemsSelected
	default:
		res, err := s.sales.Compare(ctx, categoryOf(data.Category), items)
		if err != nil {
			data.Error = err.Error()
			break
		}
		data.Table = newTableView(res.Table)
		if len(items) == 1 {
			data.ChartURL = chartURL(data.Category, "bar.png", items)
		} else {
			data.ChartURL = chartURL(data.Category, "line.png", items)
		}
	}

	entries, err := s.comments.List(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Comment log read failed", applog.FieldError, err)
		data.CommentsError = "Could not read comments: " + err.Error()
	}
	for _, e := range entries {
		data.Comments = append(data.Comments, string(e))
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Index template execution failed", applog.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
