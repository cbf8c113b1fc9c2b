// Package script hosts Lua-defined editing behaviors.
//
// A script binds key combos to handler functions through the `editor`
// module:
//
//	editor.on("Mod+Shift+U", function(ctx)
//	    if ctx.style == "normal" then
//	        return { set_style = "h1" }
//	    end
//	    return { set_style = "normal" }
//	end)
//
// Each binding becomes one pipeline plugin. The handler receives the
// focused block state and returns a command table, or nil to let the
// event fall through. The host owns a single Lua state; the surface is
// single threaded, so no locking is needed.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// Host loads scripts and exposes their bindings as pipeline plugins.
type Host struct {
	state    *lua.LState
	bindings []binding
}

type binding struct {
	name  string
	combo key.Combo
	fn    *lua.LFunction
}

// NewHost creates a script host with the editor module registered.
func NewHost() *Host {
	h := &Host{state: lua.NewState()}

	mod := h.state.NewTable()
	h.state.SetField(mod, "on", h.state.NewFunction(h.luaOn))
	h.state.SetGlobal("editor", mod)

	return h
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.state.Close()
}

// LoadFile runs a script file, collecting its bindings.
func (h *Host) LoadFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrScript, path, err)
	}
	return nil
}

// LoadString runs script source, collecting its bindings. name labels
// the resulting plugins.
func (h *Host) LoadString(name, src string) error {
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrScript, name, err)
	}
	return nil
}

// luaOn implements editor.on(spec, handler).
func (h *Host) luaOn(L *lua.LState) int {
	spec := L.CheckString(1)
	fn := L.CheckFunction(2)

	combo, err := key.Parse(spec)
	if err != nil {
		L.RaiseError("editor.on: %v", err)
		return 0
	}
	h.bindings = append(h.bindings, binding{
		name:  fmt.Sprintf("script:%s", spec),
		combo: combo,
		fn:    fn,
	})
	return 0
}

// Plugins returns one pipeline plugin per binding, in binding order.
func (h *Host) Plugins() []pipeline.Plugin {
	out := make([]pipeline.Plugin, 0, len(h.bindings))
	for _, b := range h.bindings {
		b := b
		out = append(out, pipeline.Plugin{
			Name:  b.name,
			Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
			Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
				if !b.combo.Matches(ev.Key) {
					return next()
				}
				claimed, err := h.invoke(b, ctx)
				if err != nil {
					return pipeline.Fail(err)
				}
				if !claimed {
					return next()
				}
				return pipeline.Claim()
			}),
		})
	}
	return out
}

// invoke calls the Lua handler and applies its command. A nil return
// leaves the event unclaimed.
func (h *Host) invoke(b binding, ctx *pipeline.Context) (bool, error) {
	arg := h.contextTable(ctx)
	if err := h.state.CallByParam(lua.P{Fn: b.fn, NRet: 1, Protect: true}, arg); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrScript, b.name, err)
	}
	ret := h.state.Get(-1)
	h.state.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return false, nil
	}
	if err := applyCommand(tbl, ctx); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCommand, b.name, err)
	}
	return true, nil
}

// contextTable exposes the focused block state to the handler.
func (h *Host) contextTable(ctx *pipeline.Context) *lua.LTable {
	tbl := h.state.NewTable()
	n := ctx.Doc.FocusedBlock()
	if n == nil {
		return tbl
	}
	h.state.SetField(tbl, "key", lua.LString(n.Key))
	h.state.SetField(tbl, "type", lua.LString(n.Type))
	h.state.SetField(tbl, "style", lua.LString(n.Style))
	h.state.SetField(tbl, "list", lua.LString(n.ListItem))
	h.state.SetField(tbl, "level", lua.LNumber(n.Level))
	h.state.SetField(tbl, "text", lua.LString(n.BlockText()))
	return tbl
}

// applyCommand interprets a command table against the document.
func applyCommand(tbl *lua.LTable, ctx *pipeline.Context) error {
	if v := tbl.RawGetString("insert_text"); v != lua.LNil {
		return ctx.Doc.InsertText(lua.LVAsString(v))
	}
	if v := tbl.RawGetString("toggle_mark"); v != lua.LNil {
		return ctx.Doc.ToggleMark(lua.LVAsString(v))
	}
	if v := tbl.RawGetString("set_style"); v != lua.LNil {
		return ctx.Doc.SetStyle(lua.LVAsString(v))
	}
	if v := tbl.RawGetString("toggle_list"); v != lua.LNil {
		return ctx.Doc.ToggleList(lua.LVAsString(v))
	}
	if v := tbl.RawGetString("indent"); v != lua.LNil {
		return ctx.Doc.IndentList(int(lua.LVAsNumber(v)))
	}
	if v := tbl.RawGetString("soft_break"); lua.LVAsBool(v) {
		return ctx.Doc.SoftBreak()
	}
	return fmt.Errorf("no recognized command field")
}
