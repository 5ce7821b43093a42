package config

import (
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadJSONKeepsDefaults(t *testing.T) {
    dir := t.TempDir()
    p := filepath.Join(dir, "tabtodo.json")
    require.NoError(t, os.WriteFile(p, []byte(`{"driver":"file","debug":true}`), 0o644))

    cfg := Default()
    require.NoError(t, Load(p, &cfg))
    assert.Equal(t, DriverFile, cfg.Driver)
    assert.True(t, cfg.Debug)
    assert.Equal(t, DefaultStorageKey, cfg.StorageKey)
    assert.Equal(t, IDSchemeTimestamp, cfg.IDScheme)
    assert.NotEmpty(t, cfg.StoragePath)
}

func TestLoadYAML(t *testing.T) {
    dir := t.TempDir()
    p := filepath.Join(dir, "tabtodo.yaml")
    body := "driver: mysql\ndsn: user:pw@tcp(127.0.0.1:3306)/todos\nstorageKey: work\nidScheme: uuid\n"
    require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

    cfg := Default()
    require.NoError(t, Load(p, &cfg))
    assert.Equal(t, DriverMySQL, cfg.Driver)
    assert.Equal(t, "user:pw@tcp(127.0.0.1:3306)/todos", cfg.DSN)
    assert.Equal(t, "work", cfg.StorageKey)
    assert.Equal(t, IDSchemeUUID, cfg.IDScheme)
}

func TestLoadMissing(t *testing.T) {
    cfg := Default()
    err := Load(filepath.Join(t.TempDir(), "nope.json"), &cfg)
    require.Error(t, err)
    assert.True(t, os.IsNotExist(err))
    assert.Equal(t, Default(), cfg)
}

func TestSaveRoundTrip(t *testing.T) {
    for _, name := range []string{"c.json", "c.yml"} {
        p := filepath.Join(t.TempDir(), "nested", name)
        in := Default()
        in.Driver = DriverFile
        in.ExportDir = "/tmp/exports"
        require.NoError(t, Save(p, in))

        out := Default()
        require.NoError(t, Load(p, &out))
        assert.Equal(t, in, out, name)
    }
}

func TestEnsureDir(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "a", "b")
    require.NoError(t, EnsureDir(dir))
    info, err := os.Stat(dir)
    require.NoError(t, err)
    assert.True(t, info.IsDir())
    // existing dirs are fine
    require.NoError(t, EnsureDir(dir))
    assert.Error(t, EnsureDir(""))
}
