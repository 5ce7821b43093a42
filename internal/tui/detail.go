package tui

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/bubbles/viewport"
    "github.com/charmbracelet/glamour"

    "tabtodo/internal/hooks"
    "tabtodo/internal/todo"
)

// renderDetailMarkdown builds the markdown shown on a task's detail page.
func renderDetailMarkdown(t todo.Task, env *hooks.HookEnv) string {
    b := &strings.Builder{}
    title, _, _ := todo.CleanOneLine(t.Text, 80)
    if title == "" { title = t.ID }
    fmt.Fprintf(b, "# %s\n\n", title)
    status := "to do"
    if t.Completed { status = "completed" }
    fmt.Fprintf(b, "- Status: **%s**\n", status)
    fmt.Fprintf(b, "- ID: `%s`\n", t.ID)
    if when := humanTime(t.CreatedAt); when != "" { fmt.Fprintf(b, "- Created: %s\n", when) }

    fmt.Fprintf(b, "\n## Text\n\n%s\n", t.Text)

    if d, ok := env.RenderDetail(t); ok {
        if d.Title != "" { fmt.Fprintf(b, "\n## %s\n\n", d.Title) }
        for _, sec := range d.Sections {
            if sec.Heading != "" { fmt.Fprintf(b, "\n### %s\n\n", sec.Heading) }
            if sec.Body != "" { fmt.Fprintf(b, "%s\n\n", sec.Body) }
        }
    }
    return b.String()
}

func (m *model) renderDetailViewport() {
    if m.detail == nil { return }
    if cur, ok := m.store.Get(m.detail.ID); ok { *m.detail = cur }
    content := renderDetailMarkdown(*m.detail, m.hooks)
    style := m.detailStyle
    if style == nil { style = glamour.WithAutoStyle() }
    opts := []glamour.TermRendererOption{style}
    if m.width > 20 { opts = append(opts, glamour.WithWordWrap(m.width-4)) }
    if r, err := glamour.NewTermRenderer(opts...); err == nil {
        if s, err2 := r.Render(content); err2 == nil { content = s }
    }
    m.vp = viewport.New(m.width, max(3, m.height-4))
    m.vp.SetContent(content)
}
