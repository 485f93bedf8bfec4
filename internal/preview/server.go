package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// DefaultDebounce is the quiet period after the last filesystem event before
// a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Rebuilder runs one full build.
type Rebuilder interface {
	Run(ctx context.Context) (*build.Report, error)
}

// Options configures a preview Server.
type Options struct {
	// Addr is the listen address, for example "localhost:8080".
	Addr string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Poll, when positive, schedules a periodic full rebuild.
	Poll time.Duration
	// Registry, when set, is served on /metrics.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server serves the output tree and keeps it up to date.
type Server struct {
	cfg       *config.Config
	rebuilder Rebuilder
	opts      Options
	logger    *slog.Logger
	status    buildStatus

	rebuildReq chan struct{}
	timerMu    sync.Mutex
	timer      *time.Timer
}

// New returns a Server for cfg that rebuilds with r.
func New(cfg *config.Config, r Rebuilder, opts Options) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		rebuilder:  r,
		opts:       opts,
		logger:     logger,
		rebuildReq: make(chan struct{}, 1),
	}
}

// Run performs an initial build, then serves and watches until ctx is done.
// A failing build does not stop the server; the previous output keeps being
// served.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx)

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	s.logger.Info("Preview server listening",
		slog.String("url", "http://"+ln.Addr().String()),
		logfields.Path(s.cfg.OutputRoot()))

	watcher, err := s.setupWatcher()
	if err != nil {
		_ = srv.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		s.worker(ctx)
	}()

	scheduler, err := s.startScheduler()
	if err != nil {
		_ = srv.Close()
		return err
	}

	s.loop(ctx, watcher)

	s.logger.Info("Shutting down preview server")
	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			s.logger.Warn("Scheduler shutdown error", logfields.Error(err))
		}
	}
	s.stopTimer()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	<-workerDone
	return nil
}

// Handler serves the output tree, /metrics when a registry is configured and
// a plain-text build status on /_status.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.HandleFunc("/_status", s.handleStatus)
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.OutputRoot())))
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	builds, good, lastErr := s.status.snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if lastErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "builds: %d\nlast build failed: %v\n", builds, lastErr)
		return
	}
	if !good {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "builds: %d\nno successful build yet\n", builds)
		return
	}
	fmt.Fprintf(w, "builds: %d\nok\n", builds)
}

// trigger requests a rebuild after the debounce period. Further calls within
// the period restart it.
func (s *Server) trigger() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.opts.Debounce, s.request)
}

// request queues a rebuild without waiting. At most one request is pending.
func (s *Server) request() {
	select {
	case s.rebuildReq <- struct{}{}:
	default:
	}
}

func (s *Server) stopTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

// worker runs queued rebuilds one at a time.
func (s *Server) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.rebuildReq:
			s.rebuild(ctx)
		}
	}
}

func (s *Server) rebuild(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := s.rebuilder.Run(ctx)
	if ctx.Err() != nil {
		return
	}
	s.status.record(err)
	if err != nil {
		s.logger.Warn("Rebuild failed", logfields.Error(err))
		return
	}
	s.logger.Info("Site rebuilt", logfields.BuildID(report.BuildID), logfields.Count(report.TotalPages()))
}

func (s *Server) startScheduler() (gocron.Scheduler, error) {
	if s.opts.Poll <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.opts.Poll),
		gocron.NewTask(s.request),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	scheduler.Start()
	s.logger.Info("Periodic rebuild scheduled", slog.Duration("interval", s.opts.Poll))
	return scheduler, nil
}

func (s *Server) setupWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, root := range s.cfg.WatchRoots() {
		if st, err := os.Stat(root); err != nil || !st.IsDir() {
			s.logger.Warn("Watch root not found; changes there are not detected", logfields.Path(root))
			continue
		}
		s.addDirsRecursive(watcher, root)
	}
	return watcher, nil
}

func (s *Server) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			s.handleFileEvent(watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || isWithin(ev.Name, s.cfg.OutputRoot()) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			s.addDirsRecursive(watcher, ev.Name)
		}
	}
	s.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	s.trigger()
}

func (s *Server) addDirsRecursive(w *fsnotify.Watcher, root string) {
	out := s.cfg.OutputRoot()
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if isWithin(path, out) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			s.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// isWithin reports whether path is dir or below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp and swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
