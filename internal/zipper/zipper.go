// Package zipper moves task lists in and out of zip archives.
package zipper

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tabtodo/internal/config"
	"tabtodo/internal/todo"
)

const (
    ManifestName = "tabtodo-manifest.json"
    TodosName    = "todos.json"
    // ManifestVersion is bumped when the archive layout changes.
    ManifestVersion = 1
)

var ErrManifestMissing = errors.New("manifest missing")

type Manifest struct {
    Version    int       `json:"version"`
    ExportID   string    `json:"exportId"`
    ExportedAt time.Time `json:"exportedAt"`
    Count      int       `json:"count"`
    StorageKey string    `json:"storageKey,omitempty"`
}

// Export writes list to zipPath next to a manifest describing it.
func Export(list []todo.Task, zipPath, storageKey string) (Manifest, error) {
    m := Manifest{
        Version:    ManifestVersion,
        ExportID:   uuid.NewString(),
        ExportedAt: time.Now().UTC().Truncate(time.Second),
        Count:      len(list),
        StorageKey: storageKey,
    }
    if err := config.EnsureDir(filepath.Dir(zipPath)); err != nil { return m, err }
    f, err := os.Create(zipPath)
    if err != nil { return m, err }
    defer f.Close()

    zw := zip.NewWriter(f)
    if err := writeJSON(zw, ManifestName, m); err != nil { zw.Close(); return m, err }
    raw, err := todo.Encode(list)
    if err != nil { zw.Close(); return m, err }
    w, err := zw.Create(TodosName)
    if err != nil { zw.Close(); return m, err }
    if _, err := io.WriteString(w, raw); err != nil { zw.Close(); return m, err }
    if err := zw.Close(); err != nil { return m, err }
    return m, f.Close()
}

// Import reads an archive written by Export.
func Import(zipPath string) (Manifest, []todo.Task, error) {
    var m Manifest
    r, err := zip.OpenReader(zipPath)
    if err != nil { return m, nil, err }
    defer r.Close()

    var manifest, todos *zip.File
    for _, f := range r.File {
        switch strings.ToLower(filepath.Base(f.Name)) {
        case ManifestName:
            manifest = f
        case TodosName:
            todos = f
        }
    }
    if manifest == nil { return m, nil, fmt.Errorf("%w in %s", ErrManifestMissing, zipPath) }
    if todos == nil { return m, nil, fmt.Errorf("%s missing in %s", TodosName, zipPath) }

    b, err := readAll(manifest)
    if err != nil { return m, nil, err }
    if err := json.Unmarshal(b, &m); err != nil { return m, nil, fmt.Errorf("invalid manifest in %s: %w", zipPath, err) }
    if m.Version > ManifestVersion {
        return m, nil, fmt.Errorf("archive version %d is newer than supported %d", m.Version, ManifestVersion)
    }
    b, err = readAll(todos)
    if err != nil { return m, nil, err }
    list, err := todo.Decode(string(b))
    if err != nil { return m, nil, fmt.Errorf("read %s: %w", TodosName, err) }
    return m, list, nil
}

func writeJSON(zw *zip.Writer, name string, v any) error {
    w, err := zw.Create(name)
    if err != nil { return err }
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil { return err }
    _, err = w.Write(b)
    return err
}

func readAll(f *zip.File) ([]byte, error) {
    rc, err := f.Open()
    if err != nil { return nil, err }
    defer rc.Close()
    return io.ReadAll(rc)
}

// DefaultName builds an export file name for the given key.
func DefaultName(storageKey string, now time.Time) string {
    return fmt.Sprintf("%s-%s.zip", slug(storageKey), now.Format("20060102-150405"))
}

func slug(s string) string {
    s = strings.ToLower(strings.TrimSpace(s))
    r := make([]rune, 0, len(s))
    for _, ch := range s {
        switch {
        case (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_':
            r = append(r, ch)
        case ch == ' ' || ch == '/' || ch == '\\':
            r = append(r, '-')
        }
    }
    out := strings.Trim(strings.ReplaceAll(string(r), "--", "-"), "-")
    if out == "" { out = "todos" }
    return out
}
