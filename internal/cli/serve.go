package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pathprobe/pathprobe/pkg/lsdb"
	"github.com/pathprobe/pathprobe/pkg/observability"
	"github.com/pathprobe/pathprobe/pkg/pipeline"
	"github.com/pathprobe/pathprobe/pkg/topo"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	listen   string
	title    string
	height   string
	width    string
	physics  bool
	template string
}

// serveCommand creates the serve command for live topology preview.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve <json-or-db-file>",
		Short: "Serve the rendered topology over HTTP",
		Long: `Serve the rendered topology over HTTP for live preview.

The input can be a raw link-state database dump or the JSON a previous
parse produced. The topology is re-rendered on every request, so editing
the input and refreshing the browser shows the new state.

Routes:
  GET /               interactive HTML topology
  GET /topology.json  normalized database JSON
  GET /healthz        liveness probe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listen == "" {
				opts.listen = c.Config.Server.Listen
			}
			if !cmd.Flags().Changed("physics") {
				opts.physics = c.Config.Render.Physics
			}
			if opts.height == "" {
				opts.height = c.Config.Render.Height
			}
			if opts.width == "" {
				opts.width = c.Config.Render.Width
			}
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (default 127.0.0.1:8411)")
	cmd.Flags().StringVar(&opts.title, "title", "", "HTML page title")
	cmd.Flags().StringVar(&opts.height, "height", "", "HTML canvas height (default 750px)")
	cmd.Flags().StringVar(&opts.width, "width", "", "HTML canvas width (default 100%)")
	cmd.Flags().BoolVar(&opts.physics, "physics", false, "enable the force layout")
	cmd.Flags().StringVar(&opts.template, "template", "", "custom HTML template path")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	// Render once up front so config errors surface before binding the port.
	if _, _, err := c.renderPreview(ctx, input, opts); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.listen,
		Handler:           c.serveHandler(input, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	printSuccess("Serving topology from %s", input)
	printDetail("http://%s", opts.listen)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// serveHandler builds the chi router for the preview server.
func (c *CLI) serveHandler(input string, opts serveOpts) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hookMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		html, _, err := c.renderPreview(req.Context(), input, opts)
		if err != nil {
			c.Logger.Error("render failed", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	})

	r.Get("/topology.json", func(w http.ResponseWriter, req *http.Request) {
		_, db, err := c.renderPreview(req.Context(), input, opts)
		if err != nil {
			c.Logger.Error("render failed", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		var buf bytes.Buffer
		if err := lsdb.WriteJSON(db, &buf); err != nil {
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(buf.Bytes())
	})

	return r
}

// renderPreview loads the input, builds the topology, and renders the HTML
// page. The input is re-read on every call so file edits show up on refresh.
func (c *CLI) renderPreview(ctx context.Context, input string, opts serveOpts) ([]byte, *lsdb.Database, error) {
	db, err := loadDatabase(input)
	if err != nil {
		return nil, nil, err
	}
	g := topo.Build(db)

	popts := c.pipelineOptions()
	popts.Source = input
	popts.Formats = []string{pipeline.FormatHTML}
	popts.Title = opts.title
	popts.Height = opts.height
	popts.Width = opts.width
	popts.Physics = opts.physics
	popts.TemplatePath = opts.template

	artifacts, err := pipeline.Render(ctx, g, db, popts)
	if err != nil {
		return nil, nil, err
	}
	return artifacts[pipeline.FormatHTML], db, nil
}

// loadDatabase reads input as parsed JSON when it looks like JSON, and as a
// raw dump otherwise.
func loadDatabase(input string) (*lsdb.Database, error) {
	raw, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	if looksLikeJSON(raw) {
		return lsdb.Normalize(raw)
	}
	p := &lsdb.Parser{}
	return p.Parse(bytes.NewReader(raw))
}

func looksLikeJSON(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// hookMiddleware reports requests to the registered server hooks.
func hookMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		observability.Server().OnResponse(req.Context(), req.Method, req.URL.Path,
			ww.Status(), time.Since(start))
	})
}
