package substitute

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/internal/metrics"
	"github.com/joshuapare/metakit/meta/cache"
	"github.com/joshuapare/metakit/meta/collection"
	"github.com/joshuapare/metakit/meta/resource"
)

// HumanPbdPath is the bone deformer table substituted around deformer
// setup and creation.
const HumanPbdPath = format.HumanPbdPath

// Framework tells whether the caller runs on the host's update thread.
type Framework interface {
	IsUpdateThread() bool
}

// FrameworkFunc adapts a function to Framework.
type FrameworkFunc func() bool

func (f FrameworkFunc) IsUpdateThread() bool { return f() }

// Options configures a Point.
type Options struct {
	// Framework may be nil, in which case every caller counts as on-thread.
	Framework Framework
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Point substitutes one resource around foreign calls.
type Point struct {
	key       resource.Key
	slot      *Slot
	resolver  collection.Resolver
	loader    cache.Loader
	framework Framework
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewPoint substitutes the record at path into slot. Collections come from
// resolver; loader computes records when the collection has no cache.
func NewPoint(path string, slot *Slot, resolver collection.Resolver, loader cache.Loader, opts Options) *Point {
	return &Point{
		key:       resource.KeyFor(path),
		slot:      slot,
		resolver:  resolver,
		loader:    loader,
		framework: opts.Framework,
		metrics:   opts.Metrics,
		logger:    logging.Component(opts.Logger, "substitute").With(logging.FieldPath, path),
	}
}

// Slot returns the slot the point installs into.
func (p *Point) Slot() *Slot { return p.slot }

// Run calls op with the resolved record for obj installed in the slot.
// When no valid record resolves op runs against the default.
func (p *Point) Run(ctx context.Context, obj any, op func()) {
	Call(ctx, p, obj, func() struct{} {
		op()
		return struct{}{}
	})
}

// Call is Run for operations that produce a value.
func Call[T any](ctx context.Context, p *Point, obj any, op func() T) T {
	p.checkThread()

	p.slot.mu.Lock()
	defer p.slot.mu.Unlock()

	h := p.resolve(ctx, obj)
	defer h.Release()
	if h.IsInvalid() {
		p.metrics.Substitution(p.key.Path, metrics.OutcomeSkipped)
		return op()
	}

	p.slot.install(h.Data())
	defer p.slot.restore()
	p.metrics.Substitution(p.key.Path, metrics.OutcomeInstalled)
	return op()
}

func (p *Point) checkThread() {
	if p.framework == nil || p.framework.IsUpdateThread() {
		return
	}
	p.metrics.Substitution(p.key.Path, metrics.OutcomeOffThread)
	p.logger.Warn("substitution requested off the update thread")
}

// resolve returns the record for obj, or nil when none can be produced.
func (p *Point) resolve(ctx context.Context, obj any) *resource.Handle {
	data := p.resolver.IdentifyCollection(ctx, obj)
	var (
		h   *resource.Handle
		err error
	)
	if !data.Valid() {
		h, err = p.loader.LoadResolved(ctx, p.key, resource.Resolution{})
	} else if cc := data.Collection.Cache(); cc != nil {
		h, err = cc.Get(ctx, p.key)
		if errors.Is(err, cache.ErrClosed) {
			// Deactivated since the lookup; compute directly.
			h, err = p.loader.LoadResolved(ctx, p.key, data.Collection.Resolution())
		}
	} else {
		h, err = p.loader.LoadResolved(ctx, p.key, data.Collection.Resolution())
	}
	if err != nil {
		p.logger.Debug("resolution failed, using default", "error", err)
		return nil
	}
	return h
}
