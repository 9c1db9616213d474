// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store persists aggregate tables in a SQL database, so that
// charts can be redrawn without the raw benchmark logs.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/trialstat"
)

// ErrNotFound is returned by LoadTable for an unknown snapshot name.
var ErrNotFound = errors.New("snapshot not found")

// DB is a database of named table snapshots. It's safe for concurrent
// use by multiple goroutines.
type DB struct {
	sql *sql.DB
}

// OpenSQL opens a DB backed by a SQL database. The parameters are the
// same as the parameters for sql.Open. Only mysql and sqlite3 are
// supported.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	switch driverName {
	case "mysql":
		if _, err := mysql.ParseDSN(dataSourceName); err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
	case "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if driverName == "sqlite3" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database connections.
func (db *DB) Close() error {
	return db.sql.Close()
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Snapshots (
	Name VARCHAR(255) PRIMARY KEY,
	Created BIGINT
);
CREATE TABLE IF NOT EXISTS Stats (
	Name VARCHAR(255),
	KeyText VARCHAR(512),
	Family VARCHAR(16),
	Algorithm VARCHAR(255),
	Threads INTEGER,
	MaxKey BIGINT,
	Ratio VARCHAR(32),
	RQSize BIGINT,
	Query VARCHAR(32),
	Op VARCHAR(16),
	Mean DOUBLE,
	StdDev DOUBLE,
	N INTEGER,
	PRIMARY KEY (Name, KeyText),
{{if not .sqlite3}}
	Index (Algorithm(100)),
{{end}}
	FOREIGN KEY (Name) REFERENCES Snapshots(Name) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS StatsAlgorithm ON Stats(Algorithm);
{{end}}
`))

// createTables creates any missing tables. driverName selects the
// syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// now is overridden by tests.
var now = time.Now

// SaveTable stores tab under name, replacing any snapshot of the same
// name. The snapshot is written in a single transaction.
func (db *DB) SaveTable(ctx context.Context, name string, tab *trialstat.Table) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM Stats WHERE Name = ?", name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM Snapshots WHERE Name = ?", name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "INSERT INTO Snapshots(Name, Created) VALUES (?, ?)", name, now().Unix()); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO Stats(Name, KeyText, Family, Algorithm, Threads, MaxKey, Ratio, RQSize, Query, Op, Mean, StdDev, N) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, k := range tab.Keys() {
		st, _ := tab.Lookup(k)
		if _, err = stmt.ExecContext(ctx, name, k.String(), k.Family.String(), k.Algorithm,
			k.Threads, k.MaxKey, k.Ratio.String(), k.RQSize, k.Query.String(), k.Op.String(),
			st.Mean, st.StdDev, st.N); err != nil {
			return fmt.Errorf("insert %s: %w", k, err)
		}
	}
	return nil
}

// LoadTable reads the snapshot stored under name.
func (db *DB) LoadTable(ctx context.Context, name string) (*trialstat.Table, error) {
	var created int64
	err := db.sql.QueryRowContext(ctx, "SELECT Created FROM Snapshots WHERE Name = ?", name).Scan(&created)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	rows, err := db.sql.QueryContext(ctx, "SELECT KeyText, Family, Algorithm, Threads, MaxKey, Ratio, RQSize, Query, Op, Mean, StdDev, N FROM Stats WHERE Name = ?", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := make(map[expkey.Key]trialstat.Stat)
	for rows.Next() {
		var (
			text, family, ratio, query, op string
			k                              expkey.Key
			st                             trialstat.Stat
		)
		if err := rows.Scan(&text, &family, &k.Algorithm, &k.Threads, &k.MaxKey, &ratio, &k.RQSize, &query, &op, &st.Mean, &st.StdDev, &st.N); err != nil {
			return nil, err
		}
		if err := decodeKey(&k, family, ratio, query, op); err != nil {
			return nil, fmt.Errorf("%s: row %s: %w", name, text, err)
		}
		if k.String() != text {
			return nil, fmt.Errorf("%s: row %s decodes as %s", name, text, k)
		}
		stats[k] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trialstat.NewTable(stats), nil
}

func decodeKey(k *expkey.Key, family, ratio, query, op string) error {
	if err := k.Family.UnmarshalText([]byte(family)); err != nil {
		return err
	}
	if err := k.Ratio.UnmarshalText([]byte(ratio)); err != nil {
		return err
	}
	if err := k.Query.UnmarshalText([]byte(query)); err != nil {
		return err
	}
	return k.Op.UnmarshalText([]byte(op))
}

// Snapshots returns the names of the stored snapshots, newest first.
func (db *DB) Snapshots(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Name FROM Snapshots ORDER BY Created DESC, Name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
