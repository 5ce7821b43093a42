// Package hooks runs user JavaScript that can restyle how tasks are shown.
package hooks

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dop251/goja"

	"tabtodo/internal/todo"
)

// Hook function names looked up in the loaded scripts.
const (
    FnRenderListItem = "renderTaskListItem"
    FnRenderDetail   = "renderTaskDetail"
)

var debug bool

// EnableDebug turns on per-call logging.
func EnableDebug(on bool) { debug = on }

type HookEnv struct {
    rt     *goja.Runtime
    loaded []string
}

// LoadDir evaluates every .js file in dir, in name order. A missing dir
// yields an env with no hooks; a script that fails to evaluate is logged
// and skipped.
func LoadDir(dir string) (*HookEnv, error) {
    env := &HookEnv{rt: goja.New()}
    env.rt.Set("readText", func(call goja.FunctionCall) goja.Value {
        if len(call.Arguments) < 1 { return goja.Undefined() }
        b, err := os.ReadFile(call.Arguments[0].String())
        if err != nil { return goja.Null() }
        return env.rt.ToValue(string(b))
    })
    if dir == "" { return env, nil }
    entries, err := os.ReadDir(dir)
    if err != nil { return env, nil }
    names := make([]string, 0, len(entries))
    for _, e := range entries {
        if e.IsDir() || filepath.Ext(e.Name()) != ".js" { continue }
        names = append(names, e.Name())
    }
    sort.Strings(names)
    for _, name := range names {
        b, err := os.ReadFile(filepath.Join(dir, name))
        if err != nil { continue }
        if _, err := env.rt.RunScript(name, stripExports(string(b))); err != nil {
            log.Printf("[hooks] error evaluating %s: %v", name, err)
            continue
        }
        env.loaded = append(env.loaded, name)
        if debug { log.Printf("[hooks] loaded %s", name) }
    }
    return env, nil
}

// stripExports turns simple ESM exports into plain declarations.
func stripExports(code string) string {
    r := strings.NewReplacer(
        "export function ", "function ",
        "export const ", "const ",
        "export let ", "let ",
        "export var ", "var ",
    )
    return r.Replace(code)
}

// Loaded lists the script files that evaluated cleanly.
func (h *HookEnv) Loaded() []string {
    if h == nil { return nil }
    return h.loaded
}

// Has reports whether fn is defined as a function.
func (h *HookEnv) Has(fn string) bool {
    if h == nil || h.rt == nil { return false }
    _, ok := goja.AssertFunction(h.rt.Get(fn))
    return ok
}

// Active reports whether any rendering hook is defined.
func (h *HookEnv) Active() bool { return h.Has(FnRenderListItem) || h.Has(FnRenderDetail) }

func (h *HookEnv) Call(fn string, arg any) (goja.Value, bool) {
    if h == nil || h.rt == nil { return goja.Undefined(), false }
    f, ok := goja.AssertFunction(h.rt.Get(fn))
    if !ok {
        if debug { log.Printf("[hooks] function not found: %s", fn) }
        return goja.Undefined(), false
    }
    rv, err := f(goja.Undefined(), h.rt.ToValue(arg))
    if err != nil {
        log.Printf("[hooks] error calling %s: %v", fn, err)
        return goja.Undefined(), false
    }
    if debug { log.Printf("[hooks] %s returned: %#v", fn, rv.Export()) }
    return rv, true
}

func (h *HookEnv) CallExported(fn string, arg any) (any, bool) {
    if rv, ok := h.Call(fn, arg); ok { return rv.Export(), true }
    return nil, false
}

// TaskValue is the shape scripts receive for a task.
func TaskValue(t todo.Task) map[string]any {
    created := ""
    if !t.CreatedAt.IsZero() { created = t.CreatedAt.Format(time.RFC3339) }
    return map[string]any{
        "id":        t.ID,
        "text":      t.Text,
        "completed": t.Completed,
        "createdAt": created,
    }
}

// RenderListItem asks renderTaskListItem for a row override. Either of the
// returned strings may be empty.
func (h *HookEnv) RenderListItem(t todo.Task) (title, desc string, ok bool) {
    out, ok := h.CallExported(FnRenderListItem, TaskValue(t))
    if !ok { return "", "", false }
    m, isMap := out.(map[string]any)
    if !isMap { return "", "", false }
    title, _ = m["title"].(string)
    desc, _ = m["desc"].(string)
    if desc == "" { desc, _ = m["description"].(string) }
    return title, desc, title != "" || desc != ""
}

type Section struct {
    Heading string
    Body    string
}

// Detail is what renderTaskDetail may contribute to the detail page.
type Detail struct {
    Title    string
    Sections []Section
}

func (h *HookEnv) RenderDetail(t todo.Task) (Detail, bool) {
    out, ok := h.CallExported(FnRenderDetail, TaskValue(t))
    if !ok { return Detail{}, false }
    m, isMap := out.(map[string]any)
    if !isMap { return Detail{}, false }
    var d Detail
    d.Title, _ = m["title"].(string)
    if secs, ok := m["sections"].([]any); ok {
        for _, sec := range secs {
            mm, ok := sec.(map[string]any)
            if !ok { continue }
            head, _ := mm["heading"].(string)
            body, _ := mm["body"].(string)
            if head == "" && body == "" { continue }
            d.Sections = append(d.Sections, Section{Heading: head, Body: body})
        }
    }
    return d, d.Title != "" || len(d.Sections) > 0
}
