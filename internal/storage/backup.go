package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupInfo describes a found backup file for a storage file.
type BackupInfo struct {
    Path    string
    Suffix  string
    ModTime time.Time
    Size    int64
}

// BackupSuffix is the timestamp suffix used for new backups.
func BackupSuffix(now time.Time) string { return now.Format("20060102-150405") }

// BackupFile copies path to <path>.bak-<suffix>.
func BackupFile(path, suffix string) error {
    if _, err := os.Stat(path); err != nil { return err }
    src, err := os.ReadFile(path)
    if err != nil { return err }
    return os.WriteFile(path+".bak-"+suffix, src, 0o600)
}

// ListBackups returns all <path>.bak-* files sorted by ModTime desc.
func ListBackups(path string) ([]BackupInfo, error) {
    dir := filepath.Dir(path)
    prefix := filepath.Base(path) + ".bak-"
    entries, err := os.ReadDir(dir)
    if err != nil { return nil, err }
    var out []BackupInfo
    for _, e := range entries {
        name := e.Name()
        if !e.Type().IsRegular() { continue }
        if !strings.HasPrefix(name, prefix) { continue }
        info, err := e.Info(); if err != nil { continue }
        out = append(out, BackupInfo{
            Path: filepath.Join(dir, name),
            Suffix: strings.TrimPrefix(name, prefix),
            ModTime: info.ModTime(),
            Size: info.Size(),
        })
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].ModTime.Equal(out[j].ModTime) { return out[i].Suffix > out[j].Suffix }
        return out[i].ModTime.After(out[j].ModTime)
    })
    return out, nil
}

// RestoreFromBackup replaces path with <path>.bak-<suffix>.
func RestoreFromBackup(path, suffix string) error {
    src := path + ".bak-" + suffix
    if _, err := os.Stat(src); err != nil { return fmt.Errorf("backup not found: %s", src) }
    b, err := os.ReadFile(src)
    if err != nil { return err }
    if err := writeAtomic(path, b); err != nil { return fmt.Errorf("restore %s: %w", path, err) }
    return nil
}
