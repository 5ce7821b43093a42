package tui

import (
    "fmt"
    "log"
    "path/filepath"
    "strings"
    "time"

    "github.com/atotto/clipboard"
    "github.com/charmbracelet/bubbles/help"
    "github.com/charmbracelet/bubbles/key"
    "github.com/charmbracelet/bubbles/list"
    "github.com/charmbracelet/bubbles/spinner"
    "github.com/charmbracelet/bubbles/textinput"
    "github.com/charmbracelet/bubbles/viewport"
    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/glamour"
    "github.com/charmbracelet/lipgloss"

    "tabtodo/internal/config"
    "tabtodo/internal/hooks"
    "tabtodo/internal/storage"
    "tabtodo/internal/todo"
    "tabtodo/internal/zipper"
)

type mode int

const (
    modeList mode = iota
    modeAdd
    modeSearch
    modeEdit
    modeConfirmDelete
    modeDetail
)

// headerLines is the space View reserves above the list.
const headerLines = 4

type model struct {
    cfg     config.Config
    store   *todo.Store
    closeFn func() error
    hooks   *hooks.HookEnv

    list   list.Model
    help   help.Model
    vp     viewport.Model
    spin   spinner.Model
    input  textinput.Model // add and edit
    search textinput.Model

    filter    todo.Filter
    mode      mode
    detail    *todo.Task
    pendingID string // task awaiting delete confirmation

    width     int
    height    int
    statusMsg string
    loading   bool
    showHelp  bool

    // copyText is swapped in tests.
    copyText func(string) error
    // detailStyle picks the glamour theme for the detail page.
    detailStyle glamour.TermRendererOption
}

type item struct {
    t       todo.Task
    title   string
    desc    string
    editing bool
}

func (i item) Title() string {
    if i.editing { return editingStyle.Render("✎ ") + i.title }
    return i.title
}
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.t.Text }

var (
    activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#111827")).Padding(0, 1)
    inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"}).Padding(0, 1)
    editingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
    doneStyle        = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
    hookBadge        = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("[H] ")
)

// New returns a model that opens storage itself once the program starts.
func New(cfg config.Config) model {
    m := newModel(cfg)
    m.loading = true
    return m
}

// NewWithStore returns a ready model over an already loaded store.
func NewWithStore(cfg config.Config, st *todo.Store, env *hooks.HookEnv) model {
    m := newModel(cfg)
    m.store = st
    m.hooks = env
    m.refresh()
    return m
}

func newModel(cfg config.Config) model {
    lm := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
    lm.SetShowStatusBar(false)
    lm.SetFilteringEnabled(false)
    lm.SetShowTitle(false)
    lm.SetShowHelp(false)
    lm.KeyMap.Quit.SetEnabled(false)
    lm.AdditionalShortHelpKeys = keys.listKeys
    lm.AdditionalFullHelpKeys = keys.listKeys
    hs := lm.Styles.HelpStyle
    hs = hs.Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"}).Bold(true)
    lm.Styles.HelpStyle = hs

    sp := spinner.New()
    sp.Spinner = spinner.MiniDot
    ti := textinput.New()
    ti.CharLimit = 500
    si := textinput.New()
    si.Placeholder = "search..."
    si.Prompt = "/ "
    si.CharLimit = 200
    return model{
        cfg: cfg, list: lm, help: help.New(), spin: sp, input: ti, search: si,
        filter: todo.Filter{Tab: todo.TabTodo},
        copyText: clipboard.WriteAll,
        detailStyle: glamour.WithAutoStyle(),
    }
}

func (m model) Init() tea.Cmd {
    if !m.loading { return nil }
    return tea.Batch(loadStoreCmd(m.cfg), loadHooksCmd(m.cfg), m.spin.Tick)
}

// Close releases the storage opened by the model, if any.
func (m model) Close() error {
    if m.closeFn == nil { return nil }
    return m.closeFn()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
    switch msg := msg.(type) {
    case tea.WindowSizeMsg:
        m.width, m.height = msg.Width, msg.Height
        m.list.SetSize(m.width, max(3, m.height-headerLines-2))
        m.input.Width = max(10, m.width-12)
        m.search.Width = max(10, m.width-12)
        if m.mode == modeDetail { m.renderDetailViewport() }
        return m, nil
    case storeLoadedMsg:
        m.loading = false
        m.store = msg.store
        m.closeFn = msg.closeFn
        m.refresh()
        st := m.store.Stats()
        m.statusMsg = fmt.Sprintf("%d tasks (%d open)", st.Total, st.Open)
        return m, nil
    case hooksLoadedMsg:
        m.hooks = msg.env
        if m.store != nil { m.refresh() }
        return m, nil
    case exportDoneMsg:
        if msg.err != nil {
            m.statusMsg = "export failed: " + msg.err.Error()
        } else {
            if ap, _ := filepath.Abs(msg.path); ap != "" { msg.path = ap }
            m.statusMsg = fmt.Sprintf("exported %d tasks to %s", msg.count, msg.path)
        }
        return m, nil
    case spinner.TickMsg:
        if !m.loading { return m, nil }
        var cmd tea.Cmd
        m.spin, cmd = m.spin.Update(msg)
        return m, cmd
    case errMsg:
        m.loading = false
        m.statusMsg = "error: " + msg.Error()
        return m, nil
    case tea.KeyMsg:
        if msg.Type == tea.KeyCtrlC { return m, tea.Quit }
        if m.store == nil {
            if key.Matches(msg, keys.quit) { return m, tea.Quit }
            return m, nil
        }
        switch m.mode {
        case modeAdd:
            return m.updateAdd(msg)
        case modeEdit:
            return m.updateEdit(msg)
        case modeSearch:
            return m.updateSearch(msg)
        case modeConfirmDelete:
            return m.updateConfirm(msg)
        case modeDetail:
            return m.updateDetail(msg)
        }
        return m.updateList(msg)
    }

    var cmd tea.Cmd
    m.list, cmd = m.list.Update(msg)
    return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    switch {
    case key.Matches(msg, keys.quit):
        return m, tea.Quit
    case key.Matches(msg, keys.add):
        m.mode = modeAdd
        m.input.Placeholder = "Add a new task..."
        m.input.Prompt = "add: "
        m.input.SetValue("")
        cmd := m.input.Focus()
        return m, cmd
    case key.Matches(msg, keys.search):
        m.mode = modeSearch
        m.search.SetValue(m.filter.Search)
        m.search.CursorEnd()
        cmd := m.search.Focus()
        return m, cmd
    case key.Matches(msg, keys.nextTab):
        m.setTab(m.filter.Tab.Other())
        return m, nil
    case key.Matches(msg, keys.todoTab):
        m.setTab(todo.TabTodo)
        return m, nil
    case key.Matches(msg, keys.doneTab):
        m.setTab(todo.TabCompleted)
        return m, nil
    case key.Matches(msg, keys.toggle):
        if t, ok := m.selected(); ok {
            m.store.ToggleComplete(t.ID)
            if t.Completed {
                m.statusMsg = "reopened: " + oneLine(t.Text)
            } else {
                m.statusMsg = "completed: " + oneLine(t.Text)
            }
            m.refresh()
        }
        return m, nil
    case key.Matches(msg, keys.edit):
        if t, ok := m.selected(); ok {
            m.store.StartEdit(t.ID, t.Text)
            m.mode = modeEdit
            m.input.Placeholder = ""
            m.input.Prompt = "edit: "
            m.input.SetValue(t.Text)
            m.input.CursorEnd()
            m.refresh()
            cmd := m.input.Focus()
        return m, cmd
        }
        return m, nil
    case key.Matches(msg, keys.del):
        if t, ok := m.selected(); ok {
            m.mode = modeConfirmDelete
            m.pendingID = t.ID
            m.statusMsg = "Delete selected task? y/N"
        }
        return m, nil
    case key.Matches(msg, keys.open):
        if t, ok := m.selected(); ok {
            m.detail = &t
            m.mode = modeDetail
            m.renderDetailViewport()
        }
        return m, nil
    case key.Matches(msg, keys.copyText):
        if t, ok := m.selected(); ok {
            if err := m.copyText(t.Text); err != nil {
                m.statusMsg = "copy failed: " + err.Error()
            } else {
                m.statusMsg = "copied to clipboard"
            }
        }
        return m, nil
    case key.Matches(msg, keys.reload):
        m.store.Reload()
        m.refresh()
        m.statusMsg = fmt.Sprintf("reloaded %d tasks", m.store.Len())
        return m, nil
    case key.Matches(msg, keys.export):
        path := filepath.Join(m.exportDir(), zipper.DefaultName(m.cfg.StorageKey, time.Now()))
        m.statusMsg = "exporting..."
        return m, exportZipCmd(m.store.Tasks(), path, m.cfg.StorageKey)
    case key.Matches(msg, keys.dumpMD):
        path := filepath.Join(m.exportDir(), strings.TrimSuffix(zipper.DefaultName(m.cfg.StorageKey, time.Now()), ".zip")+".md")
        m.statusMsg = "writing markdown..."
        return m, dumpMarkdownCmd(m.store.Tasks(), path)
    case key.Matches(msg, keys.help):
        m.showHelp = !m.showHelp
        m.list.SetShowHelp(m.showHelp)
        return m, nil
    }
    var cmd tea.Cmd
    m.list, cmd = m.list.Update(msg)
    return m, cmd
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    switch msg.Type {
    case tea.KeyEnter:
        t, ok := m.store.Add(m.input.Value())
        if !ok { return m, nil }
        m.input.SetValue("")
        m.statusMsg = "added: " + oneLine(t.Text)
        m.refresh()
        return m, nil
    case tea.KeyEsc:
        m.mode = modeList
        m.input.Blur()
        m.input.SetValue("")
        return m, nil
    }
    var cmd tea.Cmd
    m.input, cmd = m.input.Update(msg)
    return m, cmd
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    id, _, editing := m.store.EditCursor()
    if !editing {
        m.mode = modeList
        m.input.Blur()
        return m, nil
    }
    switch msg.Type {
    case tea.KeyEnter:
        if m.store.SaveEdit(id) {
            m.statusMsg = "saved"
        } else if _, _, still := m.store.EditCursor(); still {
            m.statusMsg = "text cannot be empty"
            return m, nil
        }
        m.mode = modeList
        m.input.Blur()
        m.refresh()
        return m, nil
    case tea.KeyEsc:
        m.store.CancelEdit()
        m.mode = modeList
        m.input.Blur()
        m.statusMsg = "edit canceled"
        m.refresh()
        return m, nil
    }
    var cmd tea.Cmd
    m.input, cmd = m.input.Update(msg)
    m.store.SetEditText(m.input.Value())
    return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    switch msg.Type {
    case tea.KeyEnter:
        m.mode = modeList
        m.search.Blur()
        return m, nil
    case tea.KeyEsc:
        m.mode = modeList
        m.search.Blur()
        m.search.SetValue("")
        m.filter.Search = ""
        m.refresh()
        return m, nil
    }
    var cmd tea.Cmd
    m.search, cmd = m.search.Update(msg)
    if v := m.search.Value(); v != m.filter.Search {
        m.filter.Search = v
        m.refresh()
    }
    return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    id := m.pendingID
    m.mode = modeList
    m.pendingID = ""
    if msg.String() != "y" && msg.String() != "Y" {
        m.statusMsg = "canceled"
        return m, nil
    }
    if t, ok := m.store.Get(id); ok && m.store.Delete(id) {
        m.statusMsg = "deleted: " + oneLine(t.Text)
    }
    m.refresh()
    return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    if key.Matches(msg, keys.back) {
        m.detail = nil
        m.mode = modeList
        m.statusMsg = ""
        return m, nil
    }
    switch msg.String() {
    case "j", "down":
        m.vp.LineDown(1)
    case "k", "up":
        m.vp.LineUp(1)
    case "pgdown", "ctrl+f":
        m.vp.ViewDown()
    case "pgup", "ctrl+b":
        m.vp.ViewUp()
    case "g":
        m.vp.GotoTop()
    case "G":
        m.vp.GotoBottom()
    case "c":
        if m.detail != nil {
            if err := m.copyText(m.detail.Text); err != nil {
                m.statusMsg = "copy failed: " + err.Error()
            } else {
                m.statusMsg = "copied to clipboard"
            }
        }
    }
    return m, nil
}

func (m model) View() string {
    if m.loading || m.store == nil {
        if m.statusMsg != "" { return m.statusMsg + "\n" }
        return fmt.Sprintf("%s Loading tasks...", m.spin.View())
    }
    if m.mode == modeDetail {
        header := "(h) back  (j/k) scroll  (c) copy text"
        if m.statusMsg != "" { header += "\n" + m.statusMsg }
        return header + "\n\n" + m.vp.View()
    }
    var b strings.Builder
    b.WriteString(m.tabsView())
    b.WriteString("\n")
    switch m.mode {
    case modeSearch:
        b.WriteString(m.search.View())
    case modeAdd, modeEdit:
        b.WriteString(m.input.View())
    default:
        if m.filter.Search != "" {
            b.WriteString(inactiveTabStyle.Render("search: " + m.filter.Search))
        }
    }
    b.WriteString("\n\n")
    b.WriteString(m.list.View())
    if !m.showHelp {
        b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{keys.add, keys.search, keys.nextTab, keys.toggle, keys.edit, keys.del, keys.open, keys.help, keys.quit}))
    }
    return b.String() + footer(m.statusMsg)
}

func (m model) tabsView() string {
    st := m.store.Stats()
    tabs := []struct {
        tab   todo.Tab
        count int
    }{{todo.TabTodo, st.Open}, {todo.TabCompleted, st.Completed}}
    parts := make([]string, 0, len(tabs)+1)
    for _, t := range tabs {
        label := fmt.Sprintf("%s (%d)", t.tab.Label(), t.count)
        if t.tab == m.filter.Tab {
            parts = append(parts, activeTabStyle.Render(label))
        } else {
            parts = append(parts, inactiveTabStyle.Render(label))
        }
    }
    if m.hooks.Active() { parts = append(parts, inactiveTabStyle.Render("[hooks]")) }
    return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func footer(msg string) string {
    if msg == "" { return "" }
    return "\n" + msg + "\n"
}

func (m *model) setTab(tab todo.Tab) {
    if m.filter.Tab == tab { return }
    m.filter.Tab = tab
    m.refresh()
    m.list.Select(0)
}

func (m *model) exportDir() string {
    if m.cfg.ExportDir == "" { return "." }
    return m.cfg.ExportDir
}

func (m model) selected() (todo.Task, bool) {
    it, ok := m.list.SelectedItem().(item)
    if !ok { return todo.Task{}, false }
    return it.t, true
}

// refresh rebuilds the list from the store's current view, keeping the
// cursor on the same task when it is still visible.
func (m *model) refresh() {
    if m.store == nil { return }
    keep := ""
    if t, ok := m.selected(); ok { keep = t.ID }
    keepIdx := m.list.Index()

    view := m.store.View(m.filter)
    items := make([]list.Item, 0, len(view))
    sel := -1
    for i, t := range view {
        if t.ID == keep { sel = i }
        items = append(items, m.buildItem(t))
    }
    m.list.SetItems(items)
    switch {
    case sel >= 0:
        m.list.Select(sel)
    case len(items) == 0:
    case keepIdx >= len(items):
        m.list.Select(len(items) - 1)
    default:
        m.list.Select(keepIdx)
    }
}

func (m *model) buildItem(t todo.Task) item {
    mark := "[ ] "
    text := oneLine(t.Text)
    if t.Completed {
        mark = "[x] "
        text = doneStyle.Render(text)
    }
    it := item{
        t:       t,
        title:   mark + text,
        desc:    fmt.Sprintf("%s • %s", humanTime(t.CreatedAt), t.ID),
        editing: m.store.Editing(t.ID),
    }
    if m.hooks != nil {
        if title, desc, ok := m.hooks.RenderListItem(t); ok {
            if m.cfg.Debug { log.Printf("[tui] renderTaskListItem override for %s", t.ID) }
            if title != "" { it.title = hookBadge + mark + oneLine(title) }
            if desc != "" { it.desc = oneLine(desc) }
        }
    }
    return it
}

func oneLine(s string) string {
    out, _, _ := todo.CleanOneLine(s, 0)
    return out
}

func humanTime(t time.Time) string {
    if t.IsZero() { return "" }
    return t.Local().Format("2006-01-02 15:04")
}

type storeLoadedMsg struct {
    store   *todo.Store
    closeFn func() error
}

type hooksLoadedMsg struct{ env *hooks.HookEnv }

type exportDoneMsg struct {
    path  string
    count int
    err   error
}

type errMsg struct{ error }

func (e errMsg) Error() string { return e.error.Error() }

func loadStoreCmd(cfg config.Config) tea.Cmd {
    return func() tea.Msg {
        slot, closeFn, err := storage.Open(cfg)
        if err != nil { return errMsg{fmt.Errorf("open storage: %w", err)} }
        st := todo.NewStore(slot, todo.Options{IDs: todo.NewIDGenerator(cfg.IDScheme), Debug: cfg.Debug})
        if cfg.Debug {
            if p, ok := slot.(storage.Pather); ok { log.Printf("[tui] storage: %s %s", cfg.Driver, p.Path()) }
        }
        return storeLoadedMsg{store: st, closeFn: closeFn}
    }
}

func loadHooksCmd(cfg config.Config) tea.Cmd {
    return func() tea.Msg {
        hooks.EnableDebug(cfg.Debug)
        env, _ := hooks.LoadDir(cfg.HooksDir)
        return hooksLoadedMsg{env}
    }
}

func exportZipCmd(list []todo.Task, path, storageKey string) tea.Cmd {
    return func() tea.Msg {
        man, err := zipper.Export(list, path, storageKey)
        return exportDoneMsg{path: path, count: man.Count, err: err}
    }
}

func dumpMarkdownCmd(list []todo.Task, path string) tea.Cmd {
    return func() tea.Msg {
        err := todo.DumpMarkdown(path, list)
        return exportDoneMsg{path: path, count: len(list), err: err}
    }
}
