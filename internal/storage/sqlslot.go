package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"tabtodo/internal/config"
)

type dialect struct {
    name   string
    create string
    upsert string
}

var (
    sqliteDialect = dialect{
        name:   "sqlite",
        create: "CREATE TABLE IF NOT EXISTS ItemTable (`key` TEXT PRIMARY KEY, `value` BLOB)",
        upsert: "INSERT INTO ItemTable(`key`, `value`) VALUES(?, ?) ON CONFLICT(`key`) DO UPDATE SET `value`=excluded.`value`",
    }
    mysqlDialect = dialect{
        name:   "mysql",
        create: "CREATE TABLE IF NOT EXISTS ItemTable (`key` VARCHAR(191) NOT NULL PRIMARY KEY, `value` LONGBLOB)",
        upsert: "INSERT INTO ItemTable(`key`, `value`) VALUES(?, ?) ON DUPLICATE KEY UPDATE `value`=VALUES(`value`)",
    }
)

const selectValue = "SELECT `value` FROM ItemTable WHERE `key` = ?"

// SQL keeps the slot as one row of an ItemTable(key, value) table, the same
// layout editors use for their global state databases.
type SQL struct {
    db   *sql.DB
    key  string
    path string
    d    dialect
}

// OpenSQLite opens (creating if needed) the sqlite database at path.
func OpenSQLite(path, key string) (*SQL, error) {
    if path == "" { return nil, errors.New("sqlite storage requires a path") }
    if err := config.EnsureDir(filepath.Dir(path)); err != nil { return nil, err }
    db, err := sql.Open("sqlite", path)
    if err != nil { return nil, err }
    _, _ = db.Exec("PRAGMA busy_timeout=5000")
    s := &SQL{db: db, key: key, path: path, d: sqliteDialect}
    if err := s.migrate(); err != nil {
        db.Close()
        return nil, err
    }
    return s, nil
}

// OpenMySQL connects to dsn and makes sure ItemTable exists.
func OpenMySQL(dsn, key string) (*SQL, error) {
    if dsn == "" { return nil, errors.New("mysql storage requires a dsn") }
    db, err := sql.Open("mysql", dsn)
    if err != nil { return nil, err }
    if err := db.Ping(); err != nil {
        db.Close()
        return nil, fmt.Errorf("ping mysql: %w", err)
    }
    s := &SQL{db: db, key: key, d: mysqlDialect}
    if err := s.migrate(); err != nil {
        db.Close()
        return nil, err
    }
    return s, nil
}

func (s *SQL) migrate() error {
    if _, err := s.db.Exec(s.d.create); err != nil {
        return fmt.Errorf("create ItemTable (%s): %w", s.d.name, err)
    }
    return nil
}

// Path is empty for mysql.
func (s *SQL) Path() string { return s.path }

func (s *SQL) Close() error { return s.db.Close() }

func (s *SQL) Read() (string, bool, error) {
    var raw []byte
    err := s.db.QueryRow(selectValue, s.key).Scan(&raw)
    if errors.Is(err, sql.ErrNoRows) { return "", false, nil }
    if err != nil { return "", false, err }
    return string(raw), true, nil
}

func (s *SQL) Write(value string) error {
    if _, err := s.db.Exec(s.d.upsert, s.key, []byte(value)); err != nil {
        return fmt.Errorf("write %s: %w", s.key, err)
    }
    return nil
}

// Keys lists every key stored in the table, e.g. other task lists.
func (s *SQL) Keys() ([]string, error) {
    rows, err := s.db.Query("SELECT `key` FROM ItemTable ORDER BY `key`")
    if err != nil { return nil, err }
    defer rows.Close()
    var out []string
    for rows.Next() {
        var k string
        if err := rows.Scan(&k); err != nil { return nil, err }
        out = append(out, k)
    }
    if err := rows.Err(); err != nil {
        log.Printf("[storage] list keys: %v", err)
        return out, err
    }
    return out, nil
}
