package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"tabtodo/internal/config"
	"tabtodo/internal/storage"
	"tabtodo/internal/todo"
	"tabtodo/internal/zipper"
)

// batch holds the one-shot operations requested on the command line.
type batch struct {
    add     string
    toggle  string
    del     string
    edit    string // format: <task-id>=<text>
    list    bool
    tab     string
    search  string
    export  string
    imp     string
    replace bool
    dumpMD  string
    pdf     string
}

func (b batch) any() bool {
    return b.add != "" || b.toggle != "" || b.del != "" || b.edit != "" || b.list ||
        b.export != "" || b.imp != "" || b.dumpMD != "" || b.pdf != ""
}

// runBatch applies b to st in a fixed order: mutations, import, then the
// read-only outputs.
func runBatch(st *todo.Store, slot storage.Slot, cfg config.Config, b batch, w io.Writer) error {
    if b.add != "" {
        t, ok := st.Add(b.add)
        if !ok { return errors.New("add: text is empty") }
        if err := st.LastWriteErr(); err != nil { return fmt.Errorf("add: %w", err) }
        fmt.Fprintf(w, "added %s\n", t.ID)
    }
    if b.toggle != "" {
        if !st.ToggleComplete(b.toggle) { return fmt.Errorf("task not found: %s", b.toggle) }
        if err := st.LastWriteErr(); err != nil { return fmt.Errorf("toggle: %w", err) }
        t, _ := st.Get(b.toggle)
        fmt.Fprintf(w, "%s %s\n", statusWord(t), t.ID)
    }
    if b.edit != "" {
        id, text, err := parseEditArg(b.edit)
        if err != nil { return fmt.Errorf("invalid -edit arg: %w", err) }
        cur, ok := st.Get(id)
        if !ok { return fmt.Errorf("task not found: %s", id) }
        st.StartEdit(id, cur.Text)
        st.SetEditText(text)
        if !st.SaveEdit(id) {
            st.CancelEdit()
            return errors.New("edit: text is empty")
        }
        if err := st.LastWriteErr(); err != nil { return fmt.Errorf("edit: %w", err) }
        fmt.Fprintf(w, "edited %s\n", id)
    }
    if b.del != "" {
        if !st.Delete(b.del) { return fmt.Errorf("task not found: %s", b.del) }
        if err := st.LastWriteErr(); err != nil { return fmt.Errorf("delete: %w", err) }
        fmt.Fprintf(w, "deleted %s\n", b.del)
    }
    if b.imp != "" {
        man, list, err := zipper.Import(b.imp)
        if err != nil { return fmt.Errorf("import failed: %w", err) }
        if p, ok := slot.(storage.Pather); ok {
            suffix := storage.BackupSuffix(time.Now())
            if err := storage.BackupFile(p.Path(), suffix); err != nil {
                log.Printf("[cli] backup before import skipped: %v", err)
            } else if cfg.Debug {
                log.Printf("[cli] backup written: %s.bak-%s", p.Path(), suffix)
            }
        }
        // Merge writes only when it adds something; Replace always writes.
        var n int
        wrote := b.replace
        if b.replace {
            n = st.Replace(list)
        } else {
            n = st.Merge(list)
            wrote = n > 0
        }
        if err := st.LastWriteErr(); wrote && err != nil { return fmt.Errorf("import: %w", err) }
        fmt.Fprintf(w, "imported %d of %d tasks from %s (export %s)\n", n, man.Count, b.imp, man.ExportID)
    }
    if b.export != "" {
        man, err := zipper.Export(st.Tasks(), b.export, cfg.StorageKey)
        if err != nil { return fmt.Errorf("export failed: %w", err) }
        fmt.Fprintf(w, "exported %d tasks -> %s\n", man.Count, b.export)
    }
    if b.dumpMD != "" {
        if err := todo.DumpMarkdown(b.dumpMD, st.Tasks()); err != nil { return fmt.Errorf("markdown: %w", err) }
        fmt.Fprintf(w, "wrote %s\n", b.dumpMD)
    }
    if b.pdf != "" {
        if err := todo.DumpPDF(b.pdf, st.Tasks()); err != nil { return fmt.Errorf("pdf: %w", err) }
        fmt.Fprintf(w, "wrote %s\n", b.pdf)
    }
    if b.list {
        tab := todo.TabTodo
        if b.tab != "" {
            var err error
            if tab, err = todo.ParseTab(b.tab); err != nil { return err }
        }
        printView(w, st.View(todo.Filter{Tab: tab, Search: b.search}))
    }
    return nil
}

// printView writes one id<TAB>[ ]<TAB>text line per task.
func printView(w io.Writer, list []todo.Task) {
    for _, t := range list {
        mark := "[ ]"
        if t.Completed { mark = "[x]" }
        text, _, _ := todo.CleanOneLine(t.Text, 0)
        fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, mark, text)
    }
}

func statusWord(t todo.Task) string {
    if t.Completed { return "completed" }
    return "reopened"
}

func parseEditArg(s string) (id, text string, err error) {
    i := strings.IndexByte(s, '=')
    if i <= 0 { return "", "", fmt.Errorf("expected <task-id>=<text>") }
    return s[:i], s[i+1:], nil
}
