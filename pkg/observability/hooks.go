// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about catalog loads, clipboard copies, favorite toggles and
// HTTP requests.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGalleryHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Gallery().OnCopy(ctx, font, "system", true)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Gallery Hooks
// =============================================================================

// GalleryHooks receives events from the gallery core.
type GalleryHooks interface {
	// OnCatalogLoad records a catalog load attempt. fonts is 0 on failure.
	OnCatalogLoad(ctx context.Context, source string, fonts int, duration time.Duration, err error)

	// OnCopy records a clipboard copy. strategy is empty when the copy failed.
	OnCopy(ctx context.Context, font, strategy string, ok bool)

	// OnFavoriteToggle records a favorite toggle and its persistence outcome.
	OnFavoriteToggle(ctx context.Context, font string, favorited bool, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP gallery server.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGalleryHooks is a no-op implementation of GalleryHooks.
type NoopGalleryHooks struct{}

func (NoopGalleryHooks) OnCatalogLoad(context.Context, string, int, time.Duration, error) {}
func (NoopGalleryHooks) OnCopy(context.Context, string, string, bool)                     {}
func (NoopGalleryHooks) OnFavoriteToggle(context.Context, string, bool, error)            {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Logging Implementation
// =============================================================================

// LogHooks reports every event as a debug-level log line.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("events")}
}

func (h *LogHooks) OnCatalogLoad(_ context.Context, source string, fonts int, d time.Duration, err error) {
	h.logger.Debug("catalog load", "source", source, "fonts", fonts, "took", d.Round(time.Millisecond), "err", err)
}

func (h *LogHooks) OnCopy(_ context.Context, font, strategy string, ok bool) {
	h.logger.Debug("copy", "font", font, "strategy", strategy, "ok", ok)
}

func (h *LogHooks) OnFavoriteToggle(_ context.Context, font string, favorited bool, err error) {
	h.logger.Debug("favorite toggle", "font", font, "favorited", favorited, "err", err)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	galleryHooks GalleryHooks = NoopGalleryHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetGalleryHooks registers custom gallery hooks.
// This should be called once at application startup.
func SetGalleryHooks(h GalleryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		galleryHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Gallery returns the registered gallery hooks.
func Gallery() GalleryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return galleryHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	galleryHooks = NoopGalleryHooks{}
	httpHooks = NoopHTTPHooks{}
}
