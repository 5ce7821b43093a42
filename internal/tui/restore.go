package tui

import (
    "fmt"
    "os/exec"
    "path/filepath"
    "runtime"
    "strings"
    "time"

    "github.com/charmbracelet/bubbles/help"
    "github.com/charmbracelet/bubbles/key"
    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/lipgloss"

    "tabtodo/internal/storage"
)

type restoreKeys struct {
    up, down, pick, open, quit key.Binding
}

func (k restoreKeys) ShortHelp() []key.Binding { return []key.Binding{k.up, k.down, k.pick, k.open, k.quit} }
func (k restoreKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var restoreKeyMap = restoreKeys{
    up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
    down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
    pick: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "restore")),
    open: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open folder")),
    quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var selectedBackupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

// RestoreModel lets the user pick one storage backup and confirm rolling
// the storage file back to it.
type RestoreModel struct {
    backups    []storage.BackupInfo
    path       string
    cursor     int
    confirming bool
    chosen     string
    done       bool
    note       string
    help       help.Model
    now        func() time.Time
}

func NewRestore(infos []storage.BackupInfo, path string) RestoreModel {
    return RestoreModel{backups: infos, path: path, help: help.New(), now: time.Now}
}

func (m RestoreModel) Init() tea.Cmd { return nil }

func (m RestoreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
    km, ok := msg.(tea.KeyMsg)
    if !ok { return m, nil }
    if m.confirming {
        m.confirming = false
        if s := km.String(); s == "y" || s == "Y" {
            m.chosen = m.backups[m.cursor].Suffix
            m.done = true
            return m, tea.Quit
        }
        m.note = "restore canceled"
        return m, nil
    }
    switch {
    case key.Matches(km, restoreKeyMap.quit):
        m.done = true
        return m, tea.Quit
    case key.Matches(km, restoreKeyMap.up):
        if m.cursor > 0 { m.cursor-- }
    case key.Matches(km, restoreKeyMap.down):
        if m.cursor < len(m.backups)-1 { m.cursor++ }
    case key.Matches(km, restoreKeyMap.pick):
        if len(m.backups) > 0 {
            m.confirming = true
            m.note = ""
        }
    case key.Matches(km, restoreKeyMap.open):
        dir := filepath.Dir(m.path)
        if err := openDir(dir); err != nil {
            m.note = "open failed: " + err.Error()
        } else {
            m.note = "opened " + dir
        }
    }
    return m, nil
}

func (m RestoreModel) View() string {
    if m.done { return "" }
    var b strings.Builder
    fmt.Fprintf(&b, "Restore %s\n", m.path)
    b.WriteString("Close any running tabtodo first; it would overwrite the restored list.\n\n")
    if len(m.backups) == 0 {
        b.WriteString("  no backups found\n")
    }
    for i, bk := range m.backups {
        row := fmt.Sprintf("%s  %-8s %6d B  %s", bk.Suffix, ago(m.now().Sub(bk.ModTime)), bk.Size, bk.ModTime.Local().Format("2006-01-02 15:04"))
        if i == m.cursor {
            b.WriteString(selectedBackupStyle.Render("> " + row))
        } else {
            b.WriteString("  " + row)
        }
        b.WriteString("\n")
    }
    b.WriteString("\n")
    switch {
    case m.confirming:
        fmt.Fprintf(&b, "Replace storage with backup %s? y/N\n", m.backups[m.cursor].Suffix)
    case m.note != "":
        b.WriteString(m.note + "\n")
    }
    b.WriteString(m.help.View(restoreKeyMap))
    return b.String()
}

// Selected is the confirmed backup suffix, empty when the user quit.
func (m RestoreModel) Selected() string { return m.chosen }

func ago(d time.Duration) string {
    switch {
    case d < time.Minute:
        return "now"
    case d < time.Hour:
        return fmt.Sprintf("%dm ago", int(d.Minutes()))
    case d < 48*time.Hour:
        return fmt.Sprintf("%dh ago", int(d.Hours()))
    }
    return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

func openDir(dir string) error {
    name := "xdg-open"
    switch runtime.GOOS {
    case "darwin":
        name = "open"
    case "windows":
        name = "explorer"
    }
    return exec.Command(name, dir).Start()
}
