// Package storage provides the single keyed slot the task list is persisted to.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"tabtodo/internal/config"
)

// ErrUnknownDriver is returned by Open for a driver name it does not know.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Slot is one string value under a fixed key. Read reports ok=false when
// nothing has been written yet.
type Slot interface {
    Read() (value string, ok bool, err error)
    Write(value string) error
}

// Pather is implemented by slots backed by a single file on disk.
type Pather interface {
    Path() string
}

// Open builds the slot selected by cfg.Driver. The returned close func is
// never nil.
func Open(cfg config.Config) (Slot, func() error, error) {
    key := cfg.StorageKey
    if key == "" { key = config.DefaultStorageKey }
    nop := func() error { return nil }
    switch cfg.Driver {
    case "", config.DriverSQLite:
        s, err := OpenSQLite(cfg.StoragePath, key)
        if err != nil { return nil, nop, err }
        return s, s.Close, nil
    case config.DriverMySQL:
        s, err := OpenMySQL(cfg.DSN, key)
        if err != nil { return nil, nop, err }
        return s, s.Close, nil
    case config.DriverFile:
        dir := cfg.StoragePath
        if filepath.Ext(dir) != "" { dir = filepath.Dir(dir) }
        s, err := OpenFile(dir, key)
        if err != nil { return nil, nop, err }
        return s, nop, nil
    case config.DriverMemory:
        return NewMemory(), nop, nil
    default:
        return nil, nop, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
    }
}
