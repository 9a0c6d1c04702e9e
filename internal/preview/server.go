package preview

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdcommand/internal/assets"
	"github.com/alnah/go-mdcommand/internal/logging"
	"github.com/alnah/go-mdcommand/internal/pipeline"
	"github.com/gorilla/websocket"
)

// Sentinel errors for preview setup and requests.
var (
	ErrInvalidMode = errors.New("invalid mode")
	ErrWatch       = errors.New("cannot watch file")
	ErrRootDir     = errors.New("invalid root directory")
	ErrTemplate    = errors.New("invalid editor template")
)

const (
	defaultTitle      = "mdcommand"
	defaultDebounce   = 150 * time.Millisecond
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
	filesPrefix       = "/files"
)

// reloadScript is injected into /view pages. It reloads the page when the
// server pushes a watched file update.
const reloadScript = `(function () {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + "/ws");
  ws.onmessage = function (ev) {
    if (JSON.parse(ev.data).source) { location.reload(); }
  };
})();`

// Config holds server settings.
type Config struct {
	Host string
	Port int

	// RootDir is served under /files and /view. Empty disables both.
	RootDir string

	// WatchFile, when set, is converted on every save and pushed to clients.
	WatchFile string

	// Commands is the mode used when a client sends no mode.
	Commands bool

	Debounce time.Duration
	Title    string
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Option configures a Server.
type Option func(*Server)

// WithTransformer replaces the built-in command transformer.
func WithTransformer(t pipeline.CommandTransformer) Option {
	return func(s *Server) { s.render.transformer = t }
}

// WithConverter replaces the goldmark converter.
func WithConverter(c pipeline.HTMLConverter) Option {
	return func(s *Server) { s.render.converter = c }
}

// WithStyle sets the CSS applied to the editor preview and /view pages.
func WithStyle(css string) Option {
	return func(s *Server) { s.styleCSS = css }
}

// WithAssetLoader sets where the editor template is loaded from.
func WithAssetLoader(l assets.AssetLoader) Option {
	return func(s *Server) { s.loader = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server is the live preview HTTP server.
type Server struct {
	cfg      Config
	render   *renderer
	loader   assets.AssetLoader
	styleCSS string
	log      *slog.Logger

	editor   *template.Template
	hlCSS    string
	root     *os.Root
	watchRel string
	watcher  *watcher
	hub      *hub
	upgrader websocket.Upgrader
}

// New builds a Server. Release it with Close.
func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}

	s := &Server{
		cfg: cfg,
		render: &renderer{
			transformer:  pipeline.NewTransformer(),
			preprocessor: &pipeline.CommonMarkPreprocessor{},
			converter:    pipeline.NewGoldmarkConverter(),
		},
		loader: assets.NewEmbeddedLoader(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.New("preview")
	}
	s.hub = newHub(s.log)

	if err := s.loadEditor(); err != nil {
		return nil, err
	}

	if cfg.RootDir != "" {
		root, err := os.OpenRoot(cfg.RootDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRootDir, err)
		}
		s.root = root
	}

	if cfg.WatchFile != "" {
		s.watchRel = s.relToRoot(cfg.WatchFile)
		w, err := newWatcher(cfg.WatchFile, cfg.Debounce, s.pushWatched, s.log)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.watcher = w
	}

	return s, nil
}

func (s *Server) loadEditor() error {
	src, err := s.loader.LoadTemplate(assets.EditorTemplateName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	tmpl, err := template.New(assets.EditorTemplateName).Parse(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	hl, err := pipeline.HighlightCSS(pipeline.DefaultHighlightStyle)
	if err != nil {
		return err
	}
	s.editor = tmpl
	s.hlCSS = hl
	return nil
}

// relToRoot returns the slash path of file below RootDir, or its base name
// when it lies outside.
func (s *Server) relToRoot(file string) string {
	if s.cfg.RootDir != "" {
		absRoot, err1 := filepath.Abs(s.cfg.RootDir)
		absFile, err2 := filepath.Abs(file)
		if err1 == nil && err2 == nil {
			if rel, err := filepath.Rel(absRoot, absFile); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.Base(file)
}

// resolverFor maps relative references in a document at rel (slash path
// below RootDir) to /files URLs. It returns nil when no root is served.
func (s *Server) resolverFor(rel string) pipeline.PathResolver {
	if s.root == nil {
		return nil
	}
	return pipeline.PrefixResolver(path.Join(filesPrefix, path.Dir(rel)))
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleEditor)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("POST /api/transform", s.handleTransform)
	if s.root != nil {
		mux.HandleFunc("GET /view/{path...}", s.handleView)
		mux.Handle("GET /files/", http.StripPrefix(filesPrefix, http.FileServerFS(s.root.FS())))
	}
	return mux
}

// ListenAndServe listens on the configured address and serves until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if s.watcher != nil {
		go s.watcher.run(ctx)
		s.log.Info("watching", "file", s.cfg.WatchFile)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("preview listening", "url", "http://"+ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down preview: %w", err)
	}
	s.log.Info("preview stopped")
	return nil
}

// Close stops the watcher and releases the root directory.
func (s *Server) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.close())
	}
	if s.root != nil {
		errs = append(errs, s.root.Close())
	}
	return errors.Join(errs...)
}

// watchedReply converts the current content of the watched file.
func (s *Server) watchedReply(ctx context.Context) reply {
	data, err := os.ReadFile(s.cfg.WatchFile)
	if err != nil {
		return errorReply(fmt.Errorf("reading %s: %w", s.watchRel, err))
	}
	text := string(data)
	res, err := s.render.fragment(ctx, text, s.cfg.Commands, s.resolverFor(s.watchRel))
	if err != nil {
		return errorReply(err)
	}
	r := resultReply(res)
	r.Source = s.watchRel
	r.Text = text
	return r
}

func (s *Server) pushWatched() {
	r := s.watchedReply(context.Background())
	if r.Type == msgResult {
		s.log.Info("file converted", "file", s.watchRel, "commands", len(r.Log))
	} else {
		s.log.Warn("file conversion failed", "file", s.watchRel, "error", r.Error)
	}
	s.hub.broadcast(r)
}
