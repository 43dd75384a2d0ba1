/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"visualdoc/internal/domain"
)

func sampleDoc(name string) *domain.Document {
	doc := domain.NewDocument(name)
	doc.Cards = append(doc.Cards, domain.Card{
		ID:          "c1",
		Title:       "first card",
		CategoryIDs: []string{doc.Categories[0].ID},
		X:           100, Y: 100,
		Checklist: []domain.ChecklistItem{{ID: "k1", Name: "step one"}},
	})
	doc.Cards = append(doc.Cards, domain.Card{
		ID: "c2", Title: "second card",
		CategoryIDs: []string{doc.Categories[0].ID}, X: 500, Y: 100,
	})
	doc.Connections = append(doc.Connections, domain.Connection{
		ID:        "conn1",
		From:      domain.Endpoint{CardID: "c1"},
		To:        domain.Endpoint{CardID: "c2", FixedSide: domain.SideLeft},
		Waypoints: []domain.Point{{X: 300, Y: 50}},
	})
	return doc
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ws, err := OpenWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("OpenWorkspace: %v", err)
	}
	doc := sampleDoc("demo")
	if err := ws.Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := ws.Load("demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ProjectName != "demo" || len(got.Cards) != 2 || len(got.Connections) != 1 {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if got.Connections[0].To.FixedSide != domain.SideLeft {
		t.Fatalf("endpoint fields lost: %+v", got.Connections[0].To)
	}
	if got.Cards[0].Checklist[0].Name != "step one" {
		t.Fatal("checklist lost")
	}
}

func TestSaveCreatesBackupOnOverwrite(t *testing.T) {
	ws, _ := OpenWorkspace(t.TempDir())
	doc := sampleDoc("demo")
	if err := ws.Save(doc); err != nil {
		t.Fatalf("first save: %v", err)
	}
	doc.Cards[0].Title = "edited"
	if err := ws.Save(doc); err != nil {
		t.Fatalf("second save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(ws.Root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("backups = %d, want 1", len(ents))
	}
}

func TestLoadFallsBackToBackup(t *testing.T) {
	ws, _ := OpenWorkspace(t.TempDir())
	doc := sampleDoc("demo")
	if err := ws.Save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ws.Save(doc); err != nil { // second save creates the backup
		t.Fatalf("save: %v", err)
	}
	// corrupt the live file
	if err := os.WriteFile(ws.ProjectPath("demo"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	got, err := ws.Load("demo")
	if err != nil {
		t.Fatalf("Load should recover from backup: %v", err)
	}
	if len(got.Cards) != 2 {
		t.Fatalf("backup content wrong: %d cards", len(got.Cards))
	}
}

func TestListProjects(t *testing.T) {
	ws, _ := OpenWorkspace(t.TempDir())
	for _, n := range []string{"beta", "alpha"} {
		if err := ws.Save(sampleDoc(n)); err != nil {
			t.Fatalf("save %s: %v", n, err)
		}
	}
	names, err := ws.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("names = %v", names)
	}
}

func TestDeleteMissingProjectIsNoError(t *testing.T) {
	ws, _ := OpenWorkspace(t.TempDir())
	if err := ws.Delete("ghost"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	ws, _ := OpenWorkspace(t.TempDir())
	doc := sampleDoc("a/b:c")
	if err := ws.Save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := ws.Load("a/b:c"); err != nil {
		t.Fatalf("load with unsanitized name: %v", err)
	}
}

func TestSavedFileConformsToSchema(t *testing.T) {
	ws, _ := OpenWorkspace(t.TempDir())
	if err := ws.Save(sampleDoc("demo")); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(ws.ProjectPath("demo"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := ValidateProjectBytes(data); err != nil {
		t.Fatalf("saved file fails schema: %v", err)
	}
}
