package todo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tabtodo/internal/config"
)

// ErrNoTasks is returned by the report writers when there is nothing to write.
var ErrNoTasks = errors.New("no tasks to write")

const maxLine = 120

// WriteMarkdown renders the collection as a checklist grouped by tab.
// Entries that had to be folded or cut keep their full text in a
// <details> block.
func WriteMarkdown(w io.Writer, list []Task, now time.Time) error {
    st := StatsOf(list)
    fmt.Fprintf(w, "# Todos\n\n")
    fmt.Fprintf(w, "- Exported: %s\n", now.Local().Format(time.RFC3339))
    fmt.Fprintf(w, "- Open: %d / Completed: %d / Total: %d\n\n", st.Open, st.Completed, st.Total)

    for _, tab := range []Tab{TabTodo, TabCompleted} {
        section := Filter{Tab: tab}.Apply(list)
        fmt.Fprintf(w, "## %s\n\n", tab.Label())
        if len(section) == 0 {
            fmt.Fprintf(w, "_No items_\n\n")
            continue
        }
        for _, t := range section {
            mark := " "
            if t.Completed { mark = "x" }
            line, changed, truncated := CleanOneLine(t.Text, maxLine)
            fmt.Fprintf(w, "- [%s] %s\n", mark, line)
            if changed || truncated {
                fmt.Fprintf(w, "\n  <details><summary>%s</summary>\n\n", escapeHTML(line))
                fmt.Fprintf(w, "  ```\n  %s\n  ```\n\n  </details>\n\n", t.Text)
            }
        }
        fmt.Fprintln(w)
    }
    return nil
}

// DumpMarkdown writes WriteMarkdown output to filename.
func DumpMarkdown(filename string, list []Task) error {
    if err := config.EnsureDir(filepath.Dir(filename)); err != nil { return err }
    f, err := os.Create(filename)
    if err != nil { return err }
    defer f.Close()
    return WriteMarkdown(f, list, time.Now())
}

// WritePDF renders an A4 report of the collection, grouped by tab.
func WritePDF(w io.Writer, list []Task, now time.Time) error {
    if len(list) == 0 { return ErrNoTasks }
    st := StatsOf(list)
    pdf := gofpdf.New("P", "mm", "A4", "")
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.AddPage()
    pdf.SetFont("Arial", "B", 14)
    pdf.Cell(40, 10, "Todos")
    pdf.Ln(12)
    pdf.SetFont("Arial", "", 9)
    pdf.Cell(0, 6, fmt.Sprintf("Exported %s - open %d, completed %d", now.Local().Format("2006-01-02 15:04"), st.Open, st.Completed))
    pdf.Ln(10)
    for _, tab := range []Tab{TabTodo, TabCompleted} {
        section := Filter{Tab: tab}.Apply(list)
        pdf.SetFont("Arial", "B", 12)
        pdf.Cell(0, 8, tab.Label())
        pdf.Ln(9)
        pdf.SetFont("Arial", "", 10)
        if len(section) == 0 {
            pdf.MultiCell(0, 6, "No items", "0", "L", false)
        }
        for _, t := range section {
            mark := "[ ]"
            if t.Completed { mark = "[x]" }
            text, _, _ := CleanOneLine(t.Text, 0)
            line := fmt.Sprintf("%s %s  (%s)", mark, text, t.CreatedAt.Local().Format("2006-01-02"))
            pdf.MultiCell(0, 6, tr(line), "0", "L", false)
        }
        pdf.Ln(4)
    }
    return pdf.Output(w)
}

// DumpPDF writes WritePDF output to filename.
func DumpPDF(filename string, list []Task) error {
    if len(list) == 0 { return ErrNoTasks }
    if err := config.EnsureDir(filepath.Dir(filename)); err != nil { return err }
    f, err := os.Create(filename)
    if err != nil { return err }
    if err := WritePDF(f, list, time.Now()); err != nil {
        f.Close()
        return err
    }
    return f.Close()
}
