package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
    add      key.Binding
    search   key.Binding
    nextTab  key.Binding
    todoTab  key.Binding
    doneTab  key.Binding
    toggle   key.Binding
    edit     key.Binding
    del      key.Binding
    open     key.Binding
    back     key.Binding
    copyText key.Binding
    reload   key.Binding
    export   key.Binding
    dumpMD   key.Binding
    help     key.Binding
    quit     key.Binding
}

func newKeymap() keymap {
    return keymap{
        add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
        search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
        nextTab:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch tab")),
        todoTab:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "to do")),
        doneTab:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "completed")),
        toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle done")),
        edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
        del:      key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
        open:     key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter/l", "open")),
        back:     key.NewBinding(key.WithKeys("h", "esc", "q"), key.WithHelp("h", "back")),
        copyText: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy text")),
        reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
        export:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export zip")),
        dumpMD:   key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "markdown")),
        help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
        quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
    }
}

var keys = newKeymap()

func (k keymap) listKeys() []key.Binding {
    return []key.Binding{k.add, k.search, k.nextTab, k.toggle, k.edit, k.del, k.open, k.copyText, k.reload, k.export, k.dumpMD, k.quit}
}
