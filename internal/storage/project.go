/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists documents as .vdoc JSON project files with
// transactional writes and timestamped backups, migrates legacy
// document shapes on load, and maintains a per-workspace SQLite search
// index.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"visualdoc/internal/domain"
)

const (
	// ProjectExt is the project file extension.
	ProjectExt = ".vdoc"
	// BackupsDirName holds timestamped copies of overwritten projects.
	BackupsDirName = "backups"
)

// Workspace is a directory holding project files side by side.
type Workspace struct {
	Root string
}

// DefaultRoot returns the per-user workspace directory, honoring the
// VDOC_WORKSPACE override.
func DefaultRoot() string {
	if root := os.Getenv("VDOC_WORKSPACE"); root != "" {
		return root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "VisualDoc")
	}
	return filepath.Join(home, "Documents", "VisualDoc")
}

// OpenWorkspace ensures the workspace directory exists.
func OpenWorkspace(root string) (*Workspace, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, BackupsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create backups dir: %w", err)
	}
	return &Workspace{Root: root}, nil
}

// ProjectPath returns the file path for a project name.
func (w *Workspace) ProjectPath(name string) string {
	return filepath.Join(w.Root, sanitizeName(name)+ProjectExt)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	repl := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return repl.Replace(name)
}

// Save writes the document to its project file with transactional
// semantics: a timestamped backup of the previous file, a synced temp
// write, then a rename over the target.
func (w *Workspace) Save(doc *domain.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	if strings.TrimSpace(doc.ProjectName) == "" {
		return errors.New("document has no project name")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	path := w.ProjectPath(doc.ProjectName)
	if _, statErr := os.Stat(path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp)
		if cerr := copyFile(path, filepath.Join(w.Root, BackupsDirName, bname)); cerr != nil {
			return fmt.Errorf("backup project: %w", cerr)
		}
	}

	temp := filepath.Join(w.Root, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp project: %w", werr)
	}
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path) // Windows cannot rename over an existing file
	}
	if rerr := os.Rename(temp, path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace project: %w", rerr)
	}
	return nil
}

// Load reads and migrates a project by name. A corrupt or unreadable
// file falls back to the latest backup.
func (w *Workspace) Load(name string) (*domain.Document, error) {
	path := w.ProjectPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		doc, berr := w.loadFromLatestBackup(name)
		if berr != nil {
			return nil, fmt.Errorf("open project: %w; backup attempt: %v", err, berr)
		}
		return doc, nil
	}
	doc, perr := ParseDocument(data)
	if perr != nil {
		doc, berr := w.loadFromLatestBackup(name)
		if berr != nil {
			return nil, fmt.Errorf("parse project: %w; backup attempt: %v", perr, berr)
		}
		return doc, nil
	}
	if doc.ProjectName == "" {
		doc.ProjectName = name
	}
	return doc, nil
}

// ListProjects returns the project names in the workspace, sorted.
func (w *Workspace) ListProjects() ([]string, error) {
	ents, err := os.ReadDir(w.Root)
	if err != nil {
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ProjectExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ProjectExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a project file; a missing file is not an error.
func (w *Workspace) Delete(name string) error {
	err := os.Remove(w.ProjectPath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (w *Workspace) loadFromLatestBackup(name string) (*domain.Document, error) {
	bdir := filepath.Join(w.Root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := sanitizeName(name) + ProjectExt + "."
	var candidates []string
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".bak") {
			candidates = append(candidates, filepath.Join(bdir, e.Name()))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamped names sort chronologically
	data, err := os.ReadFile(candidates[len(candidates)-1])
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	return ParseDocument(data)
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies src to dst, overwriting dst if it exists.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
