package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
    DriverSQLite = "sqlite"
    DriverMySQL  = "mysql"
    DriverFile   = "file"
    DriverMemory = "memory"

    IDSchemeTimestamp = "timestamp"
    IDSchemeUUID      = "uuid"

    // DefaultStorageKey names the slot holding the serialized task list.
    DefaultStorageKey = "adv_todos_v1"
)

type Config struct {
    Driver      string `json:"driver" yaml:"driver"`           // sqlite | mysql | file | memory
    StoragePath string `json:"storagePath" yaml:"storagePath"` // sqlite db file, or directory for the file driver
    DSN         string `json:"dsn" yaml:"dsn"`                 // mysql only
    StorageKey  string `json:"storageKey" yaml:"storageKey"`
    HooksDir    string `json:"hooksDir" yaml:"hooksDir"`
    ExportDir   string `json:"exportDir" yaml:"exportDir"`     // default export destination directory
    IDScheme    string `json:"idScheme" yaml:"idScheme"`       // timestamp | uuid
    LogFile     string `json:"logFile" yaml:"logFile"`
    Debug       bool   `json:"debug" yaml:"debug"`
}

func Default() Config {
    return Config{
        Driver:      DriverSQLite,
        StoragePath: filepath.Join(AppDir(), "state.db"),
        StorageKey:  DefaultStorageKey,
        HooksDir:    filepath.Join(AppDir(), "hooks"),
        // CWD by default; app will fallback to "." when empty
        ExportDir:   "",
        IDScheme:    IDSchemeTimestamp,
        Debug:       false,
    }
}

// DefaultPath is where the config file lives unless -config says otherwise.
func DefaultPath() string {
    return filepath.Join(UserHome(), ".config", "tabtodo.json")
}

// AppDir is the per-user data directory.
func AppDir() string {
    return filepath.Join(UserHome(), ".config", "tabtodo")
}

// Load reads a JSON or YAML config file into out. Fields left empty in the
// file keep the values already present in out.
func Load(path string, out *Config) error {
    b, err := os.ReadFile(path)
    if err != nil {
        return err
    }
    var c Config
    if isYAML(path) {
        if err := yaml.Unmarshal(b, &c); err != nil {
            return err
        }
    } else if err := json.Unmarshal(b, &c); err != nil {
        return err
    }
    if c.Driver == "" {
        c.Driver = out.Driver
    }
    if c.StoragePath == "" {
        c.StoragePath = out.StoragePath
    }
    if c.DSN == "" {
        c.DSN = out.DSN
    }
    if c.StorageKey == "" {
        c.StorageKey = out.StorageKey
    }
    if c.HooksDir == "" {
        c.HooksDir = out.HooksDir
    }
    if c.ExportDir == "" {
        c.ExportDir = out.ExportDir
    }
    if c.IDScheme == "" {
        c.IDScheme = out.IDScheme
    }
    if c.LogFile == "" {
        c.LogFile = out.LogFile
    }
    *out = c
    return nil
}

func Save(path string, c Config) error {
    if err := EnsureDir(filepath.Dir(path)); err != nil {
        return err
    }
    var (
        b   []byte
        err error
    )
    if isYAML(path) {
        b, err = yaml.Marshal(c)
    } else {
        b, err = json.MarshalIndent(c, "", "  ")
    }
    if err != nil {
        return err
    }
    return os.WriteFile(path, b, 0o644)
}

func isYAML(path string) bool {
    ext := strings.ToLower(filepath.Ext(path))
    return ext == ".yaml" || ext == ".yml"
}

func UserHome() string {
    if h, err := os.UserHomeDir(); err == nil {
        return h
    }
    if runtime.GOOS == "windows" {
        if h := os.Getenv("USERPROFILE"); h != "" {
            return h
        }
    }
    return "."
}

// EnsureDir creates path and its parents. An empty path is an error so a
// missing setting never turns into the current directory.
func EnsureDir(path string) error {
    if path == "" {
        return errors.New("empty path")
    }
    return os.MkdirAll(path, 0o755)
}
