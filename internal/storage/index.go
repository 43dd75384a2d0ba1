/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"visualdoc/internal/domain"
	applog "visualdoc/internal/log"
	"visualdoc/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores ephemeral index data under the workspace root.
	IndexDirName  = ".vdoc"
	IndexFileName = "index.sqlite"

	// indexSchemaVersion tracks the local SQLite schema. Bump on
	// breaking changes and add a migration step below.
	indexSchemaVersion = 1
)

// IndexPath returns the full path to the workspace's index database.
func IndexPath(root string) string {
	return filepath.Join(root, IndexDirName, IndexFileName)
}

// OpenIndex opens (creating if needed) the workspace search index:
// WAL-mode SQLite with an FTS5 table over card and text content.
func OpenIndex(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_open").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, IndexDirName), 0o755); err != nil {
		l.Error("create index dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(IndexPath(root)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	l.Debug("index ready", slog.String("path", IndexPath(root)))
	return db, nil
}

func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			updated_at TEXT NOT NULL
		);`,
		// one row per searchable item: card titles/details, checklist
		// names, text block content
		`CREATE TABLE IF NOT EXISTS items (
			doc_id  INTEGER PRIMARY KEY,
			project TEXT NOT NULL,
			kind    TEXT NOT NULL,
			item_id TEXT NOT NULL,
			text    TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_project ON items(project);`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_items USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,
		// autosave-time document snapshots for crash recovery
		`CREATE TABLE IF NOT EXISTS snapshots (
			id        INTEGER PRIMARY KEY,
			project   TEXT NOT NULL,
			ts        TEXT NOT NULL,
			doc_blob  BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_project_ts ON snapshots(project, ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create index schema: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx,
			`INSERT INTO version (id, schema, app, updated_at) VALUES(1, ?, ?, ?)`,
			indexSchemaVersion, version.String(), now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx,
			`UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ReindexDocument replaces a project's rows in the search index with
// the document's current contents.
func ReindexDocument(ctx context.Context, db *sql.DB, doc *domain.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reindex: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT doc_id FROM items WHERE project=?`, doc.ProjectName)
	if err != nil {
		return fmt.Errorf("list stale rows: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan stale row: %w", err)
		}
		stale = append(stale, id)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close stale rows: %w", err)
	}
	for _, id := range stale {
		// contentless FTS needs an explicit delete record
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fts_items(fts_items, rowid, text) VALUES('delete', ?, '')`, id); err != nil {
			return fmt.Errorf("fts delete: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE project=?`, doc.ProjectName); err != nil {
		return fmt.Errorf("delete stale rows: %w", err)
	}

	insert := func(kind, itemID, text string) error {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO items (project, kind, item_id, text) VALUES(?, ?, ?, ?)`,
			doc.ProjectName, kind, itemID, text)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("item rowid: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fts_items(rowid, text) VALUES(?, ?)`, id, text); err != nil {
			return fmt.Errorf("fts insert: %w", err)
		}
		return nil
	}

	for i := range doc.Cards {
		c := &doc.Cards[i]
		if err := insert("card", c.ID, strings.TrimSpace(c.Title+" "+c.Details)); err != nil {
			return err
		}
		for j := range c.Checklist {
			k := &c.Checklist[j]
			if err := insert("checklist", k.ID, strings.TrimSpace(k.Name+" "+k.Details)); err != nil {
				return err
			}
		}
	}
	for i := range doc.Texts {
		if err := insert("text", doc.Texts[i].ID, doc.Texts[i].Content); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SearchResult is a single match from the workspace index.
type SearchResult struct {
	Project string
	Kind    string
	ItemID  string
	Snippet string
}

// Search runs an FTS5 query over the index. project narrows the scope
// when non-empty.
func Search(ctx context.Context, db *sql.DB, project, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	var sb strings.Builder
	sb.WriteString(`SELECT i.project, i.kind, i.item_id, snippet(fts_items, 0, '[', ']', '…', 10)
FROM fts_items JOIN items i ON fts_items.rowid = i.doc_id
WHERE fts_items MATCH ?`)
	args := []any{query}
	if strings.TrimSpace(project) != "" {
		sb.WriteString(` AND i.project = ?`)
		args = append(args, project)
	}
	sb.WriteString(` ORDER BY i.doc_id LIMIT 100`)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Project, &r.Kind, &r.ItemID, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveSnapshot stores a compressed-enough JSON blob of the document
// for crash recovery, keeping at most keep rows per project.
func SaveSnapshot(ctx context.Context, db *sql.DB, doc *domain.Document, keep int) error {
	if doc == nil {
		return errors.New("nil document")
	}
	if keep <= 0 {
		keep = 20
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO snapshots (project, ts, doc_blob) VALUES(?, ?, ?)`,
		doc.ProjectName, ts, blob); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	_, err = db.ExecContext(ctx, `DELETE FROM snapshots WHERE project=? AND id NOT IN (
		SELECT id FROM snapshots WHERE project=? ORDER BY ts DESC LIMIT ?
	)`, doc.ProjectName, doc.ProjectName, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent stored snapshot for a
// project, or nil when none exists.
func LatestSnapshot(ctx context.Context, db *sql.DB, project string) (*domain.Document, error) {
	var blob []byte
	err := db.QueryRowContext(ctx,
		`SELECT doc_blob FROM snapshots WHERE project=? ORDER BY ts DESC LIMIT 1`, project).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseDocument(blob)
}
