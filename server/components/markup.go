package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// markup writes html for a component and keeps the first error so the
// component bodies read top to bottom like the page they produce
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newMarkup(ctx context.Context, w io.Writer) *markup {
	return &markup{ctx: ctx, w: w}
}

func (m *markup) raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped
func (m *markup) attr(name, value string) {
	m.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (m *markup) intAttr(name string, value int) {
	m.attr(name, strconv.Itoa(value))
}

// url is attr for links, unsafe schemes are replaced by templ
func (m *markup) url(name, u string) {
	m.attr(name, string(templ.URL(u)))
}

func (m *markup) child(c templ.Component) {
	if m.err != nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

func component(body func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m := newMarkup(ctx, w)
		body(m)
		return m.err
	})
}
