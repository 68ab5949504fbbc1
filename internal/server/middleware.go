package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/fontshelf/pkg/observability"
)

// VisitorCookie names the cookie carrying the visitor id.
const VisitorCookie = "fontshelf_visitor"

const visitorMaxAge = 365 * 24 * time.Hour

type ctxKey int

const visitorKey ctxKey = 0

// visitor identifies the browser behind a request.
type visitor struct {
	id    string
	fresh bool // The cookie was issued by this request
}

// visitor assigns every request a visitor id, issuing a cookie when the
// request has none or an invalid one.
func (s *Server) visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := visitor{}
		if c, err := r.Cookie(VisitorCookie); err == nil {
			if u, err := uuid.Parse(c.Value); err == nil {
				v.id = u.String()
			}
		}
		if v.id == "" {
			v = visitor{id: uuid.NewString(), fresh: true}
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookie,
				Value:    v.id,
				Path:     "/",
				MaxAge:   int(visitorMaxAge / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorKey, v)))
	})
}

func visitorFrom(ctx context.Context) visitor {
	v, _ := ctx.Value(visitorKey).(visitor)
	return v
}

// visitorLocks hands out one mutex per visitor id. Entries live only while
// a request holds or waits for them.
type visitorLocks struct {
	mu sync.Mutex
	m  map[string]*visitorLock
}

type visitorLock struct {
	sync.Mutex
	refs int
}

// lock blocks until id's lock is held and returns its release func.
func (l *visitorLocks) lock(id string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*visitorLock)
	}
	vl, ok := l.m[id]
	if !ok {
		vl = &visitorLock{}
		l.m[id] = vl
	}
	vl.refs++
	l.mu.Unlock()

	vl.Lock()
	return func() {
		vl.Unlock()
		l.mu.Lock()
		vl.refs--
		if vl.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

// held returns the number of ids with a live lock entry.
func (l *visitorLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func visitorPrefix(id string) string {
	return "visitor:" + id + ":"
}

// instrument reports every response to the HTTP hooks and the debug log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "dur", d.Round(time.Microsecond), "id", middleware.GetReqID(r.Context()))
	})
}
