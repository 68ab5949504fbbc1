// Package server serves the font gallery over HTTP.
//
// The page is rendered on the server from the same [gallery.Render] pipeline
// the terminal UI uses; each card's class token becomes its CSS class. Every
// visitor is identified by a cookie and gets their own favorites, stored in
// the shared [kv.Store] under a per-visitor key prefix.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/favorites"
	"github.com/matzehuels/fontshelf/pkg/fonts"
	"github.com/matzehuels/fontshelf/pkg/gallery"
	"github.com/matzehuels/fontshelf/pkg/kv"
	"github.com/matzehuels/fontshelf/pkg/observability"
)

//go:embed templates/*.html
var templateFS embed.FS

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Store       kv.Store    // Backend for visitor favorites; nil keeps them in memory
	DefaultText string      // Placeholder for blank sample text
	Logger      *log.Logger // nil means log.Default()
}

// Server is the HTTP gallery. It is safe for concurrent use.
type Server struct {
	store       kv.Store
	defaultText string
	logger      *log.Logger
	page        *template.Template

	catalog atomic.Pointer[catalog.Catalog]
	locks   visitorLocks
}

// New creates a server with an empty catalog.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		opts.Store = kv.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	page, err := template.New("gallery").
		Funcs(template.FuncMap{"favoriteAction": favoriteAction}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse templates")
	}
	s := &Server{
		store:       opts.Store,
		defaultText: gallery.SampleText("", opts.DefaultText),
		logger:      opts.Logger,
		page:        page,
	}
	s.catalog.Store(&catalog.Catalog{})
	return s, nil
}

// Catalog returns the served catalog.
func (s *Server) Catalog() catalog.Catalog {
	return *s.catalog.Load()
}

// SetCatalog swaps the served catalog. Requests in flight keep the old one.
func (s *Server) SetCatalog(c catalog.Catalog) {
	s.catalog.Store(&c)
}

// LoadCatalog loads from src and swaps the catalog on success. On failure the
// current catalog is kept.
func (s *Server) LoadCatalog(ctx context.Context, src catalog.Source) error {
	start := time.Now()
	c, err := catalog.Load(ctx, src, s.logger)
	observability.Gallery().OnCatalogLoad(ctx, src.Name(), c.Len(), time.Since(start), err)
	if err != nil {
		s.logger.Error("could not load font catalog", "source", src.Name(), "err", err)
		return err
	}
	s.SetCatalog(c)
	s.logger.Info("serving font catalog", "source", src.Name(), "fonts", c.Len())
	return nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/styles.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write(fonts.Stylesheet())
	})

	r.Group(func(r chi.Router) {
		r.Use(s.visitor)
		r.Get("/", s.handlePage)
		r.Post("/favorites/{name}", s.handlePageToggle)

		r.Route("/api", func(r chi.Router) {
			r.Get("/catalog", s.handleCatalog)
			r.Get("/grid", s.handleGrid)
			r.Get("/favorites", s.handleFavorites)
			r.Post("/favorites/{name}", s.handleToggle)
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("gallery listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// favoritesFor reads the favorites of the request's visitor. Stores are built
// per request and never cached; a visitor who just got their cookie has none
// and the backend is not read.
func (s *Server) favoritesFor(ctx context.Context) *favorites.Store {
	v := visitorFrom(ctx)
	f := favorites.New(kv.Scoped(s.store, visitorPrefix(v.id)), s.logger)
	if !v.fresh {
		f.Load(ctx)
	}
	return f
}

// view builds the render snapshot for a request.
func (s *Server) view(favs *favorites.Store, filter gallery.Filter, text string) gallery.View {
	set := make(map[string]bool, favs.Len())
	for _, n := range favs.Names() {
		set[n] = true
	}
	return gallery.View{
		Catalog:     s.Catalog(),
		Filter:      filter,
		IsFavorite:  func(name string) bool { return set[name] },
		Input:       text,
		DefaultText: s.defaultText,
	}
}

// favoriteAction is the form target toggling name from the page.
func favoriteAction(name string) template.URL {
	return template.URL("/favorites/" + url.PathEscape(name))
}

// fontParam returns the decoded {name} route parameter. chi matches on the
// raw path when the request has one, so the parameter may still be escaped.
func fontParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// toggle flips a favorite for the visitor of r.
func (s *Server) toggle(r *http.Request, name string) (favorited bool, err error) {
	if _, ok := s.Catalog().Lookup(name); !ok {
		return false, errors.New(errors.ErrCodeNotFound, "font %q is not in the catalog", name)
	}
	// Read-modify-write of one visitor's set runs under their lock.
	unlock := s.locks.lock(visitorFrom(r.Context()).id)
	defer unlock()

	favs := s.favoritesFor(r.Context())
	favorited, err = favs.Toggle(r.Context(), name)
	observability.Gallery().OnFavoriteToggle(r.Context(), name, favorited, err)
	if err != nil && errors.Is(err, errors.ErrCodeStorage) {
		s.logger.Warn("favorite toggle not saved", "font", name, "err", err)
		return favorited, nil
	}
	return favorited, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}
