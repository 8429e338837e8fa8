// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout runs, drag gestures, cache operations, and
// API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the layout core stays
// free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, policy, len(items))
//	// ... pack rows ...
//	observability.Pipeline().OnLayoutComplete(ctx, policy, len(rows), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	// Layout events
	OnLayoutStart(ctx context.Context, policy string, itemCount int)
	OnLayoutComplete(ctx context.Context, policy string, rowCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Drag Hooks
// =============================================================================

// DragHooks receives events from the reorder controller.
type DragHooks interface {
	// OnDragStart records a drag gesture that passed activation.
	OnDragStart(ctx context.Context, id string)

	// OnDragEnd records a drop. emitted is false when the drop produced no intent.
	OnDragEnd(ctx context.Context, emitted bool)

	// OnDragCancel records an aborted drag.
	OnDragCancel(ctx context.Context, reason string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler error.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopDragHooks is a no-op implementation of DragHooks.
type NoopDragHooks struct{}

func (NoopDragHooks) OnDragStart(context.Context, string)  {}
func (NoopDragHooks) OnDragEnd(context.Context, bool)      {}
func (NoopDragHooks) OnDragCancel(context.Context, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	drag     DragHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		drag:     NoopDragHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

// set swaps one slot under the write lock. Nil values leave the slot as is.
func set[T any](slot *T, h T, isNil bool) {
	if isNil {
		return
	}
	hooks.mu.Lock()
	*slot = h
	hooks.mu.Unlock()
}

// SetPipelineHooks installs pipeline hooks. Call it during startup, before
// the first layout runs.
func SetPipelineHooks(h PipelineHooks) { set(&hooks.pipeline, h, h == nil) }

// SetDragHooks installs drag hooks.
func SetDragHooks(h DragHooks) { set(&hooks.drag, h, h == nil) }

// SetCacheHooks installs cache hooks.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h, h == nil) }

// SetHTTPHooks installs HTTP hooks.
func SetHTTPHooks(h HTTPHooks) { set(&hooks.http, h, h == nil) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Drag returns the installed drag hooks.
func Drag() DragHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.drag
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset puts every slot back to its no-op implementation. Tests use it to
// undo installed hooks.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = fresh.pipeline
	hooks.drag = fresh.drag
	hooks.cache = fresh.cache
	hooks.http = fresh.http
}
