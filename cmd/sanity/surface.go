package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/config"
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/editor"
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/patch"
	"github.com/crazyrex/sanity/internal/path"
	"github.com/crazyrex/sanity/internal/pipeline"
	"github.com/crazyrex/sanity/internal/render"
	"github.com/crazyrex/sanity/internal/schema"
)

// surface wires the editor instance to a tcell screen.
type surface struct {
	screen tcell.Screen
	ed     *editor.Editor

	status     string
	fullscreen bool
}

func newSurface(screen tcell.Screen, value []block.Block, s *schema.Schema, cfg config.Config, extra []pipeline.Plugin, sink func([]patch.Patch)) (*surface, error) {
	sf := &surface{screen: screen}

	var err error
	sf.ed, err = editor.New(editor.Props{
		Value:   value,
		Schema:  s,
		Config:  cfg,
		Plugins: extra,
	}, editor.Callbacks{
		OnPatch: func(patches []patch.Patch) {
			sink(patches)
			sf.adopt(patches)
			sf.status = fmt.Sprintf("%d patches", len(patches))
		},
		OnToggleFullscreen: func(fs bool) {
			sf.fullscreen = fs
		},
		OnBringIntoView: func(n *doc.Node) {
			sf.status = fmt.Sprintf("scrolled to %s", n.Key)
		},
	})
	if err != nil {
		return nil, err
	}
	return sf, nil
}

// adopt folds patches the editor did not apply to its own value back
// into it. A handled paste emits an insert patch and leaves the
// document alone; the sink owns the persisted sequence, and here the
// sink is the surface itself.
func (sf *surface) adopt(patches []patch.Patch) {
	value := sf.ed.Value()
	keys := unseenInsertKeys(value, patches)
	if len(keys) == 0 {
		return
	}
	next, err := patch.Apply(value, patches...)
	if err != nil {
		sf.status = err.Error()
		return
	}
	sf.ed.SetValue(next)
	if err := sf.ed.SetFocusPath(path.Block(keys[len(keys)-1])); err != nil {
		sf.status = err.Error()
	}
}

// unseenInsertKeys lists inserted block keys absent from the value.
func unseenInsertKeys(value []block.Block, patches []patch.Patch) []string {
	var keys []string
	for _, p := range patches {
		if p.Kind != patch.KindInsert {
			continue
		}
		for _, b := range p.Items {
			if block.FindByKey(value, b.Key) < 0 {
				keys = append(keys, b.Key)
			}
		}
	}
	return keys
}

// Run drives the event loop until Ctrl+Q, returning the final value.
func (sf *surface) Run() ([]block.Block, error) {
	if err := sf.screen.Init(); err != nil {
		return nil, err
	}
	sf.screen.EnablePaste()
	defer sf.screen.Fini()

	for {
		sf.draw()

		switch ev := sf.screen.PollEvent().(type) {
		case *tcell.EventResize:
			sf.screen.Sync()

		case *tcell.EventPaste:
			// Bracketed paste arrives as start/end brackets around
			// ordinary rune events; collect them into one payload.
			if ev.Start() {
				text := sf.collectPaste()
				sf.ed.Paste(pipeline.Transfer{
					Kinds: []string{pipeline.TransferText},
					Text:  text,
					Data:  map[string]string{pipeline.TransferText: text},
				})
			}

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlQ {
				return sf.ed.Value(), nil
			}
			ke, ok := convertKey(ev)
			if !ok {
				continue
			}
			if res := sf.ed.HandleKey(ke); res.Err != nil {
				sf.status = res.Err.Error()
			}
		}
	}
}

// collectPaste reads rune events until the closing paste bracket.
func (sf *surface) collectPaste() string {
	var sb strings.Builder
	for {
		switch ev := sf.screen.PollEvent().(type) {
		case *tcell.EventPaste:
			if !ev.Start() {
				return sb.String()
			}
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyRune {
				sb.WriteRune(ev.Rune())
			} else if ev.Key() == tcell.KeyEnter {
				sb.WriteByte('\n')
			}
		case nil:
			return sb.String()
		}
	}
}

// convertKey maps a tcell key event onto the editor's key model.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := key.ModNone
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if ev.Modifiers()&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return key.RuneEvent(ev.Rune(), mods), true
	case tcell.KeyEnter:
		return key.SpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyEscape:
		return key.SpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyTab:
		return key.SpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBacktab:
		return key.SpecialEvent(key.KeyTab, mods.With(key.ModShift)), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.SpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.SpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyUp:
		return key.SpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.SpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.SpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.SpecialEvent(key.KeyRight, mods), true
	case tcell.KeyHome:
		return key.SpecialEvent(key.KeyHome, mods), true
	case tcell.KeyEnd:
		return key.SpecialEvent(key.KeyEnd, mods), true
	}

	// Ctrl+letter arrives as a dedicated key code.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := rune('a' + (ev.Key() - tcell.KeyCtrlA))
		return key.RuneEvent(r, mods.With(key.ModCtrl)), true
	}
	return key.Event{}, false
}

// stylePrefix returns the drawn lead-in for a block view.
func stylePrefix(v render.View) string {
	n := v.Node
	if n.ListItem != "" {
		indent := strings.Repeat("  ", n.Level-1)
		if n.ListItem == "number" {
			return indent + "1. "
		}
		return indent + "- "
	}
	switch {
	case strings.HasPrefix(n.Style, "h") && len(n.Style) == 2:
		return strings.Repeat("#", int(n.Style[1]-'0')) + " "
	case n.Style == "blockquote":
		return "> "
	default:
		return ""
	}
}

func (sf *surface) draw() {
	sf.screen.Clear()
	width, height := sf.screen.Size()

	d := sf.ed.Document()
	sel := d.Selection()
	row := 0

	for _, v := range sf.ed.Render() {
		if row >= height-1 {
			break
		}
		switch v.Kind {
		case render.ViewContentBlock:
			row = sf.drawContentBlock(v, sel, row, width)
		default:
			label := fmt.Sprintf("[%s]", v.Node.Type)
			if v.ObjectType != nil && v.ObjectType.Title != "" {
				label = fmt.Sprintf("[%s]", v.ObjectType.Title)
			}
			style := tcell.StyleDefault.Dim(true)
			if v.Selected {
				style = style.Reverse(true)
			}
			sf.drawText(0, row, label, style)
			row++
		}
	}

	if !sf.fullscreen {
		sf.drawStatus(height-1, width)
	}
	sf.screen.Show()
}

// drawContentBlock draws one text block and places the cursor when the
// selection focus is inside it. Returns the next free row.
func (sf *surface) drawContentBlock(v render.View, sel doc.Selection, row, width int) int {
	x := 0
	prefix := stylePrefix(v)
	sf.drawText(x, row, prefix, tcell.StyleDefault.Dim(true))
	x += runewidth.StringWidth(prefix)

	for _, child := range v.Node.Children {
		cv := sf.ed.Renderer().Child(sf.ed.Document(), v.Node, child)
		switch cv.Kind {
		case render.ViewSpan:
			style := spanStyle(cv)
			if sel.Active && sel.Focus.BlockKey == v.Node.Key && sel.Focus.ChildKey == child.Key {
				head := string([]rune(child.Text)[:min(sel.Focus.Offset, len([]rune(child.Text)))])
				sf.screen.ShowCursor(x+runewidth.StringWidth(head), row)
			}
			sf.drawText(x, row, child.Text, style)
			x += runewidth.StringWidth(child.Text)
		default:
			label := fmt.Sprintf("⟦%s⟧", child.Type)
			sf.drawText(x, row, label, tcell.StyleDefault.Dim(true))
			x += runewidth.StringWidth(label)
		}
		if x >= width {
			break
		}
	}
	return row + 1
}

// spanStyle maps resolved decorators onto terminal attributes.
func spanStyle(v render.View) tcell.Style {
	style := tcell.StyleDefault
	for _, d := range v.Decorators {
		switch d.Name {
		case "strong":
			style = style.Bold(true)
		case "em":
			style = style.Italic(true)
		case "underline":
			style = style.Underline(true)
		case "strike-through":
			style = style.StrikeThrough(true)
		case "code":
			style = style.Reverse(true)
		}
	}
	if len(v.Markers) > 0 {
		style = style.Foreground(tcell.ColorRed)
	}
	return style
}

func (sf *surface) drawStatus(row, width int) {
	style := tcell.StyleDefault.Reverse(true)
	line := " Ctrl+Q quit | Mod+Enter fullscreen | " + sf.status
	line = runewidth.Truncate(line, width, "…")
	line += strings.Repeat(" ", max(0, width-runewidth.StringWidth(line)))
	sf.drawText(0, row, line, style)
}

// drawText writes a string, advancing by display width per rune.
func (sf *surface) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		sf.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
