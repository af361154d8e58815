package widget

import (
	"strings"
	"unicode"

	"github.com/1broseidon/framewm/internal/event"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/render"
	"github.com/1broseidon/framewm/internal/theme"
)

const separators = ".,;:!?'\"()[]{}<>/\\|+-*=&^%$#@~`"

// IsSeparator reports whether r ends a word for caret navigation.
func IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(separators, r)
}

// TextEditor is an editable text field. A single-line editor emits Action on
// Enter; a multi-line editor keeps one rune buffer per line.
type TextEditor struct {
	Base
	Multiline bool
	Font      render.Font
	Padding   int
	// Action is emitted when Enter is pressed in a single-line editor.
	Action string
	// OnChange is called after every edit.
	OnChange func(text string)

	lines   [][]rune
	line    int
	col     int
	focused bool
	moved   bool
}

// NewTextEditor creates an empty editor.
func NewTextEditor(multiline bool) *TextEditor {
	return &TextEditor{
		Multiline: multiline,
		Font:      render.FontMono,
		Padding:   2,
		lines:     [][]rune{nil},
	}
}

// SetText replaces the buffer and moves the caret to the end.
func (t *TextEditor) SetText(s string) {
	t.lines = t.split(s)
	t.line = len(t.lines) - 1
	t.col = len(t.lines[t.line])
	t.moved = true
}

func (t *TextEditor) split(s string) [][]rune {
	if !t.Multiline {
		s = strings.ReplaceAll(s, "\n", " ")
		return [][]rune{[]rune(s)}
	}
	parts := strings.Split(s, "\n")
	out := make([][]rune, len(parts))
	for i, p := range parts {
		out[i] = []rune(p)
	}
	return out
}

// Text returns the buffer contents with lines joined by newlines.
func (t *TextEditor) Text() string {
	parts := make([]string, len(t.lines))
	for i, l := range t.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// Lines returns the number of lines in the buffer.
func (t *TextEditor) Lines() int { return len(t.lines) }

// Caret returns the caret line and rune column.
func (t *TextEditor) Caret() (line, col int) { return t.line, t.col }

// SetCaret moves the caret, clamping it into the buffer.
func (t *TextEditor) SetCaret(line, col int) {
	line = min(max(line, 0), len(t.lines)-1)
	col = min(max(col, 0), len(t.lines[line]))
	if line != t.line || col != t.col {
		t.moved = true
	}
	t.line, t.col = line, col
}

func (t *TextEditor) SetFocused(focused bool) { t.focused = focused }
func (t *TextEditor) Focused() bool           { return t.focused }

// TakeCaretMoved reports and clears the caret-moved flag.
func (t *TextEditor) TakeCaretMoved() bool {
	m := t.moved
	t.moved = false
	return m
}

// CaretX is the pixel offset of the caret from the start of its line.
func (t *TextEditor) CaretX(f render.Fonts) int {
	return f.StringWidth(t.Font, string(t.lines[t.line][:t.col]))
}

// CaretRect is the caret rectangle in local coordinates.
func (t *TextEditor) CaretRect(f render.Fonts) geom.Rect {
	lh := f.LineHeight(t.Font)
	return geom.R(t.Padding+t.CaretX(f), t.Padding+t.line*lh, 1, lh)
}

// ColumnAt returns the column nearest to pixel offset x on line.
func (t *TextEditor) ColumnAt(f render.Fonts, line, x int) int {
	l := t.lines[line]
	prev := 0
	for i := range l {
		w := f.StringWidth(t.Font, string(l[:i+1]))
		if x < (prev+w)/2 {
			return i
		}
		prev = w
	}
	return len(l)
}

// Insert inserts s at the caret.
func (t *TextEditor) Insert(s string) {
	for i, part := range t.split(s) {
		if i > 0 {
			t.newline()
		}
		cur := t.lines[t.line]
		next := make([]rune, 0, len(cur)+len(part))
		next = append(next, cur[:t.col]...)
		next = append(next, part...)
		next = append(next, cur[t.col:]...)
		t.lines[t.line] = next
		t.col += len(part)
	}
	t.changed()
}

func (t *TextEditor) newline() {
	cur := t.lines[t.line]
	head := append([]rune(nil), cur[:t.col]...)
	tail := append([]rune(nil), cur[t.col:]...)
	t.lines[t.line] = head
	t.lines = append(t.lines[:t.line+1], append([][]rune{tail}, t.lines[t.line+1:]...)...)
	t.line++
	t.col = 0
}

func (t *TextEditor) changed() {
	t.moved = true
	if t.OnChange != nil {
		t.OnChange(t.Text())
	}
}

// Backspace deletes the rune before the caret, joining lines at column 0.
func (t *TextEditor) Backspace() {
	switch {
	case t.col > 0:
		cur := t.lines[t.line]
		t.lines[t.line] = append(cur[:t.col-1], cur[t.col:]...)
		t.col--
	case t.line > 0:
		prev := t.lines[t.line-1]
		t.col = len(prev)
		t.lines[t.line-1] = append(prev, t.lines[t.line]...)
		t.lines = append(t.lines[:t.line], t.lines[t.line+1:]...)
		t.line--
	default:
		return
	}
	t.changed()
}

// Delete deletes the rune after the caret, joining lines at line end.
func (t *TextEditor) Delete() {
	cur := t.lines[t.line]
	switch {
	case t.col < len(cur):
		t.lines[t.line] = append(cur[:t.col], cur[t.col+1:]...)
	case t.line < len(t.lines)-1:
		t.lines[t.line] = append(cur, t.lines[t.line+1]...)
		t.lines = append(t.lines[:t.line+1], t.lines[t.line+2:]...)
	default:
		return
	}
	t.changed()
}

// WordLeft moves the caret to the start of the previous word.
func (t *TextEditor) WordLeft() {
	if t.col == 0 {
		if t.line > 0 {
			t.SetCaret(t.line-1, len(t.lines[t.line-1]))
		}
		return
	}
	l, c := t.lines[t.line], t.col
	for c > 0 && IsSeparator(l[c-1]) {
		c--
	}
	for c > 0 && !IsSeparator(l[c-1]) {
		c--
	}
	t.SetCaret(t.line, c)
}

// WordRight moves the caret to the end of the next word.
func (t *TextEditor) WordRight() {
	l, c := t.lines[t.line], t.col
	if c == len(l) {
		if t.line < len(t.lines)-1 {
			t.SetCaret(t.line+1, 0)
		}
		return
	}
	for c < len(l) && IsSeparator(l[c]) {
		c++
	}
	for c < len(l) && !IsSeparator(l[c]) {
		c++
	}
	t.SetCaret(t.line, c)
}

func (t *TextEditor) left() {
	if t.col > 0 {
		t.SetCaret(t.line, t.col-1)
	} else if t.line > 0 {
		t.SetCaret(t.line-1, len(t.lines[t.line-1]))
	}
}

func (t *TextEditor) right() {
	if t.col < len(t.lines[t.line]) {
		t.SetCaret(t.line, t.col+1)
	} else if t.line < len(t.lines)-1 {
		t.SetCaret(t.line+1, 0)
	}
}

func (t *TextEditor) HandleKey(env *Env, e event.KeyEvent) bool {
	if !e.Down {
		return false
	}
	word := e.Mods&event.ModCtrl != 0
	switch e.Key {
	case event.KeyLeft:
		if word {
			t.WordLeft()
		} else {
			t.left()
		}
	case event.KeyRight:
		if word {
			t.WordRight()
		} else {
			t.right()
		}
	case event.KeyUp:
		if !t.Multiline {
			return false
		}
		t.SetCaret(t.line-1, t.col)
	case event.KeyDown:
		if !t.Multiline {
			return false
		}
		t.SetCaret(t.line+1, t.col)
	case event.KeyHome:
		t.SetCaret(t.line, 0)
	case event.KeyEnd:
		t.SetCaret(t.line, len(t.lines[t.line]))
	case event.KeyBackspace:
		t.Backspace()
	case event.KeyDelete:
		t.Delete()
	case event.KeyEnter:
		if !t.Multiline {
			env.Emit(t.Action, t)
			return t.Action != ""
		}
		t.newline()
		t.changed()
	case event.KeyRune:
		if !e.Printable() {
			return false
		}
		t.Insert(string(e.Rune))
	default:
		return false
	}
	return true
}

func (t *TextEditor) HandlePointer(env *Env, p event.Pointer) bool {
	if p.Button != event.ButtonLeft {
		return false
	}
	switch p.Action {
	case event.PointerPress, event.PointerDrag:
		lh := env.Fonts.LineHeight(t.Font)
		line := 0
		if lh > 0 {
			line = (p.Y - t.Padding) / lh
		}
		line = min(max(line, 0), len(t.lines)-1)
		t.SetCaret(line, t.ColumnAt(env.Fonts, line, p.X-t.Padding))
		return true
	case event.PointerRelease, event.PointerClick:
		return true
	}
	return false
}

func (t *TextEditor) PreferredSize(f render.Fonts) geom.Size {
	w := 0
	for _, l := range t.lines {
		w = max(w, f.StringWidth(t.Font, string(l)))
	}
	lines := len(t.lines)
	return t.hinted(geom.Size{
		Width:  w + 2*t.Padding + 1,
		Height: lines*f.LineHeight(t.Font) + 2*t.Padding,
	})
}

func (t *TextEditor) Render(ctx *render.Context) {
	b := t.Bounds()
	ctx.Fill(geom.R(0, 0, b.Width, b.Height), theme.EditorBackground)
	lh := ctx.Fonts.LineHeight(t.Font)
	for i, l := range t.lines {
		if len(l) == 0 {
			continue
		}
		ctx.Text(t.Padding, t.Padding+i*lh, string(l), t.Font, theme.EditorText)
	}
	if t.focused {
		ctx.Fill(t.CaretRect(ctx.Fonts), theme.EditorCaret)
		ctx.Stroke(geom.R(0, 0, b.Width, b.Height), theme.Focus)
	}
}
