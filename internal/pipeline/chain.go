package pipeline

// Fallback is the engine default for an event kind, run when the chain is
// exhausted without a claim. Exhaustion is the normal terminal case for
// most events, not an error.
type Fallback func(ev Event, ctx *Context) Result

// Chain is the ordered plugin sequence of one editing surface. It is
// built once at construction and never mutated afterwards.
type Chain struct {
	plugins []Plugin
}

// NewChain builds a chain with the given plugins in priority order.
func NewChain(plugins ...Plugin) *Chain {
	return &Chain{plugins: append([]Plugin(nil), plugins...)}
}

// Plugins returns the registered plugins in order.
func (c *Chain) Plugins() []Plugin {
	return c.plugins
}

// Dispatch routes the event through every plugin registered for its kind,
// in order. The first plugin that returns without calling next claims the
// event. When no plugin claims it, fallback runs (if non-nil) and its
// result is returned.
func (c *Chain) Dispatch(ev Event, ctx *Context, fallback Fallback) Result {
	var active []Handler
	for _, p := range c.plugins {
		if p.handles(ev.Kind) {
			active = append(active, p.Handler)
		}
	}

	var run func(i int) Result
	run = func(i int) Result {
		if i >= len(active) {
			if fallback != nil {
				return fallback(ev, ctx)
			}
			return Result{}
		}
		return active[i].Handle(ev, ctx, func() Result {
			return run(i + 1)
		})
	}
	return run(0)
}
