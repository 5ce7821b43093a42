package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"tabtodo/internal/config"
)

// File stores the slot as <dir>/<key>.json.
type File struct {
    path string
}

func OpenFile(dir, key string) (*File, error) {
    if dir == "" { return nil, errors.New("file storage requires a directory") }
    if err := config.EnsureDir(dir); err != nil { return nil, err }
    return &File{path: filepath.Join(dir, key+".json")}, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Read() (string, bool, error) {
    b, err := os.ReadFile(f.path)
    if errors.Is(err, fs.ErrNotExist) { return "", false, nil }
    if err != nil { return "", false, err }
    return string(b), true, nil
}

func (f *File) Write(value string) error {
    return writeAtomic(f.path, []byte(value))
}

func writeAtomic(dst string, b []byte) error {
    tmp := dst + ".tmp-" + time.Now().Format("20060102-150405")
    if err := os.WriteFile(tmp, b, 0o600); err != nil { return err }
    if err := os.Rename(tmp, dst); err != nil {
        _ = os.Remove(tmp)
        return err
    }
    return nil
}
