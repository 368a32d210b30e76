package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/internal/config"
	"github.com/matzehuels/schematic/pkg/buildinfo"
	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/observability"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

const (
	maxNetlistBytes = 1 << 20
	shutdownTimeout = 5 * time.Second
	headerRequestID = "X-Request-Id"
	headerCache     = "X-Cache"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drawing pipeline over HTTP",
		Long: `Serve exposes the pipeline over HTTP:

  POST /draw     netlist in the body, drawing in the response
                 query: format, nodes, labels, args, wires, scale
  POST /layout   netlist in the body, layout JSON in the response
  GET  /healthz  liveness probe`,
		Example: `  schematic serve --addr :9000
  curl --data-binary @filter.net 'localhost:9000/draw?format=svg'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.serve(ctx, addr, newServer(runner, c.Logger, c.Config.Draw))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func (c *CLI) serve(ctx context.Context, addr string, srv *server) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	c.ui.info("Listening on %s", StyleValue.Render(addr))

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// server handles HTTP requests with a shared runner. Query parameters that a
// request leaves out take their values from defaults.
type server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults config.DrawConfig
}

func newServer(runner *pipeline.Runner, logger *log.Logger, defaults config.DrawConfig) *server {
	return &server{runner: runner, logger: logger, defaults: defaults}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestScope)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/draw", s.handleDraw)
	r.Post("/layout", s.handleLayout)
	return r
}

// requestScope assigns a request id, attaches a request logger to the
// context and reports the request to the server hooks.
func (s *server) requestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		w.Header().Set("Server", buildinfo.UserAgent())

		logger := s.logger.With("request_id", id)
		ctx := withLogger(r.Context(), logger)
		hooks := observability.Server()
		hooks.OnRequest(ctx, id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(ctx, id, status, elapsed)
		logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handleDraw(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := pipeline.FormatTikZ
	if len(s.defaults.Formats) > 0 {
		format = s.defaults.Formats[0]
	}
	if f := r.URL.Query().Get("format"); f != "" {
		format = f
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set(headerCache, cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	sch, err := s.runner.Load(ctx, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(ctx, sch, cache.Hash([]byte(sch.Netlist())), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(headerCache, cacheStatus(hit))
	writeJSON(w, http.StatusOK, l)
}

// options reads the netlist body and the drawing query parameters.
func (s *server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxNetlistBytes))
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read netlist")
	}
	q := r.URL.Query()
	opts := pipeline.Options{
		Netlist: string(body),
		Source:  "request",
		Args:    s.defaults.Args,
		Wires:   s.defaults.Wires,
		Logger:  loggerFromContext(r.Context()),
	}
	if opts.DrawNodes, err = boolParam(q, "nodes", s.defaults.Nodes); err != nil {
		return opts, err
	}
	if opts.LabelNodes, err = boolParam(q, "labels", s.defaults.Labels); err != nil {
		return opts, err
	}
	if q.Has("args") {
		opts.Args = q.Get("args")
	}
	if q.Has("wires") {
		opts.Wires = q.Get("wires")
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil || opts.Scale <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
		}
	}
	return opts, nil
}

func boolParam(q url.Values, key string, def bool) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", key, v)
	}
	return b, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatPNG:
		return "image/png"
	default:
		return "application/x-tex; charset=utf-8"
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// statusCode maps an error code to an HTTP status.
func statusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidLine, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidConfig:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code      errors.Code `json:"code,omitempty"`
	Error     string      `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	logger := loggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("rejected request", "err", err)
	}
	writeJSON(w, status, errorBody{
		Code:      errors.GetCode(err),
		Error:     err.Error(),
		RequestID: w.Header().Get(headerRequestID),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
