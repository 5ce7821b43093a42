package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"tabtodo/internal/config"
	"tabtodo/internal/storage"
	"tabtodo/internal/todo"
	"tabtodo/internal/tui"
	"tabtodo/internal/version"
)

func main() {
    // Flags
    var (
        cfgPath     string
        driver      string
        dbPath      string
        dsn         string
        storageKey  string
        hooksDir    string
        exportDir   string
        idScheme    string
        logFile     string
        debug       bool
        showVersion bool
        restore     bool
        listKeys    bool
        b           batch
    )

    flag.StringVar(&cfgPath, "config", config.DefaultPath(), "config file path (.json, .yaml or .yml)")
    flag.StringVar(&driver, "driver", "", "storage driver: sqlite | mysql | file | memory")
    flag.StringVar(&dbPath, "db", "", "sqlite database file, or directory for the file driver")
    flag.StringVar(&dsn, "dsn", "", "mysql DSN, e.g. user:pass@tcp(localhost:3306)/tabtodo")
    flag.StringVar(&storageKey, "key", "", "storage key holding the task list")
    flag.StringVar(&hooksDir, "hooks-dir", "", "directory containing JS hook files")
    flag.StringVar(&exportDir, "export-dir", "", "default export directory for TUI exports")
    flag.StringVar(&idScheme, "id-scheme", "", "id scheme for new tasks: timestamp | uuid")
    flag.StringVar(&logFile, "log-file", "", "write logs here while the TUI runs")
    flag.BoolVar(&debug, "debug", false, "print debug info (paths, counts)")
    flag.BoolVar(&showVersion, "version", false, "print version and exit")
    flag.BoolVar(&restore, "restore", false, "pick a storage backup to restore")
    flag.BoolVar(&listKeys, "keys", false, "list storage keys present in the database")

    flag.StringVar(&b.add, "add", "", "batch: add a task with this text")
    flag.StringVar(&b.toggle, "toggle", "", "batch: toggle completion of a task id")
    flag.StringVar(&b.del, "delete", "", "batch: delete a task id")
    flag.StringVar(&b.edit, "edit", "", "batch: replace a task's text: <task-id>=<text>")
    flag.BoolVar(&b.list, "list", false, "batch: print tasks (see -tab, -search)")
    flag.StringVar(&b.tab, "tab", "", "tab for -list: todo | completed")
    flag.StringVar(&b.search, "search", "", "case-insensitive text filter for -list")
    flag.StringVar(&b.export, "export", "", "batch export: <zip-path>")
    flag.StringVar(&b.imp, "import", "", "batch import: <zip-path> (merged unless -replace)")
    flag.BoolVar(&b.replace, "replace", false, "with -import, replace the whole list")
    flag.StringVar(&b.dumpMD, "dump-md", "", "write a markdown report to this file")
    flag.StringVar(&b.pdf, "pdf", "", "write a PDF report to this file")
    flag.Parse()

    if showVersion {
        fmt.Println(version.String())
        return
    }

    // Load config
    cfg := config.Default()
    if err := config.Load(cfgPath, &cfg); err != nil && !os.IsNotExist(err) {
        log.Printf("warning: failed to load config: %v", err)
    }
    // Merge overrides
    if driver != "" {
        cfg.Driver = driver
    }
    if dbPath != "" {
        cfg.StoragePath = dbPath
    }
    if dsn != "" {
        cfg.DSN = dsn
    }
    if storageKey != "" {
        cfg.StorageKey = storageKey
    }
    if hooksDir != "" {
        cfg.HooksDir = hooksDir
    }
    if exportDir != "" {
        cfg.ExportDir = exportDir
    }
    if idScheme != "" {
        cfg.IDScheme = idScheme
    }
    if logFile != "" {
        cfg.LogFile = logFile
    }
    if debug {
        cfg.Debug = true
    }

    if restore {
        runRestore(cfg)
        return
    }

    interactive := term.IsTerminal(int(os.Stdin.Fd())) || term.IsTerminal(int(os.Stdout.Fd()))
    if listKeys || b.any() || !interactive {
        slot, closeFn, err := storage.Open(cfg)
        if err != nil {
            log.Fatalf("open storage: %v", err)
        }
        defer closeFn()
        if listKeys {
            printKeys(slot)
            return
        }
        st := todo.NewStore(slot, todo.Options{IDs: todo.NewIDGenerator(cfg.IDScheme), Debug: cfg.Debug})
        if !b.any() {
            b.list = true
        }
        if err := runBatch(st, slot, cfg, b, os.Stdout); err != nil {
            closeFn()
            log.Fatal(err)
        }
        return
    }

    if cfg.LogFile != "" {
        f, err := tea.LogToFile(cfg.LogFile, "tabtodo")
        if err != nil {
            log.Fatalf("log file: %v", err)
        }
        defer f.Close()
    } else if !cfg.Debug {
        log.SetOutput(io.Discard)
    }
    p := tea.NewProgram(tui.New(cfg), tea.WithAltScreen())
    final, err := p.Run()
    if m, ok := final.(interface{ Close() error }); ok {
        if cerr := m.Close(); cerr != nil {
            log.Printf("close storage: %v", cerr)
        }
    }
    if err != nil {
        log.Fatalf("tui error: %v", err)
    }
}

func printKeys(slot storage.Slot) {
    sq, ok := slot.(*storage.SQL)
    if !ok {
        log.Fatalf("-keys needs the sqlite or mysql driver")
    }
    keys, err := sq.Keys()
    if err != nil {
        log.Fatalf("list keys: %v", err)
    }
    for _, k := range keys {
        fmt.Println(k)
    }
}

func runRestore(cfg config.Config) {
    path := cfg.StoragePath
    if cfg.Driver == config.DriverFile {
        slot, _, err := storage.Open(cfg)
        if err != nil {
            log.Fatalf("open storage: %v", err)
        }
        path = slot.(storage.Pather).Path()
    } else if cfg.Driver != "" && cfg.Driver != config.DriverSQLite {
        log.Fatalf("-restore works with the sqlite and file drivers only")
    }
    infos, err := storage.ListBackups(path)
    if err != nil {
        log.Fatalf("list backups: %v", err)
    }
    final, err := tea.NewProgram(tui.NewRestore(infos, path)).Run()
    if err != nil {
        log.Fatalf("restore ui: %v", err)
    }
    rm, ok := final.(tui.RestoreModel)
    if !ok || rm.Selected() == "" {
        fmt.Println("No restore performed.")
        return
    }
    if err := storage.RestoreFromBackup(path, rm.Selected()); err != nil {
        log.Fatalf("restore failed: %v", err)
    }
    fmt.Printf("Restored %s from backup %s\n", path, rm.Selected())
}
