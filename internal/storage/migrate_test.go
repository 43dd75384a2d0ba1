/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"testing"

	"visualdoc/internal/domain"
)

func TestParseDocumentCanonical(t *testing.T) {
	data := []byte(`{
		"projectName": "p",
		"cards": [{"id": "c1", "title": "a", "categoryIds": ["cat1"], "x": 1, "y": 2}],
		"connections": [{
			"id": "n1",
			"from": {"cardId": "c1", "fixedSide": "right"},
			"to": {"cardId": "c1", "checklistId": "k1"},
			"waypoints": [{"x": 10, "y": 20}]
		}],
		"categories": [{"id": "cat1", "name": "General", "color": "#fff"}]
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	conn := doc.Connections[0]
	if conn.From.CardID != "c1" || conn.From.FixedSide != domain.SideRight {
		t.Fatalf("from = %+v", conn.From)
	}
	if conn.To.ChecklistID != "k1" {
		t.Fatalf("to = %+v", conn.To)
	}
	if len(conn.Waypoints) != 1 || conn.Waypoints[0].X != 10 {
		t.Fatalf("waypoints = %v", conn.Waypoints)
	}
}

func TestParseDocumentCompositeStringEndpoints(t *testing.T) {
	data := []byte(`{
		"projectName": "p",
		"cards": [{"id": "c1"}, {"id": "c2"}],
		"connections": [{"from": "c1:k1", "to": "c2"}]
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	conn := doc.Connections[0]
	if conn.From.CardID != "c1" || conn.From.ChecklistID != "k1" {
		t.Fatalf("composite from = %+v", conn.From)
	}
	if conn.To.CardID != "c2" || conn.To.ChecklistID != "" {
		t.Fatalf("composite to = %+v", conn.To)
	}
	if conn.ID == "" {
		t.Fatal("missing connection id not backfilled")
	}
	if conn.Waypoints == nil {
		t.Fatal("waypoints should be non-nil")
	}
}

func TestParseDocumentSplitLegacyFields(t *testing.T) {
	data := []byte(`{
		"projectName": "p",
		"cards": [{"id": "c1"}, {"id": "c2"}],
		"connections": [{
			"fromCardId": "c1",
			"toCardId": "c2",
			"toChecklistId": "k7",
			"fixedFromPoint": {"x": 5, "y": 6},
			"fixedToSide": "bottom"
		}]
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	conn := doc.Connections[0]
	if conn.From.CardID != "c1" || conn.From.FixedPoint == nil || conn.From.FixedPoint.X != 5 {
		t.Fatalf("from = %+v", conn.From)
	}
	if conn.To.ChecklistID != "k7" || conn.To.FixedSide != domain.SideBottom {
		t.Fatalf("to = %+v", conn.To)
	}
}

func TestParseDocumentRejectsBadSide(t *testing.T) {
	data := []byte(`{
		"cards": [{"id": "c1"}, {"id": "c2"}],
		"connections": [{"fromCardId": "c1", "toCardId": "c2", "fixedFromSide": "diagonal"}]
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Connections[0].From.FixedSide != "" {
		t.Fatalf("invalid side kept: %q", doc.Connections[0].From.FixedSide)
	}
}

func TestParseDocumentDropsUnanchoredConnections(t *testing.T) {
	data := []byte(`{
		"cards": [{"id": "c1"}],
		"connections": [{"fromCardId": "c1"}, {"from": "c1", "to": "c1"}]
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(doc.Connections))
	}
}

func TestParseDocumentBackfillsCardDefaults(t *testing.T) {
	data := []byte(`{
		"cards": [{"title": "no id", "checklist": [{"name": "step"}]}],
		"connections": []
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	c := doc.Cards[0]
	if c.ID == "" {
		t.Fatal("card id not backfilled")
	}
	if c.Checklist[0].ID == "" {
		t.Fatal("checklist id not backfilled")
	}
	if len(doc.Categories) == 0 {
		t.Fatal("default categories missing")
	}
	if len(c.CategoryIDs) != 1 || c.CategoryIDs[0] != doc.Categories[0].ID {
		t.Fatalf("category fallback = %v", c.CategoryIDs)
	}
	if doc.Texts == nil || doc.Columns == nil {
		t.Fatal("texts/columns should be non-nil")
	}
}

func TestParseDocumentLegacyCategoryID(t *testing.T) {
	data := []byte(`{
		"cards": [{"id": "c1", "categoryId": "old-cat"}],
		"connections": []
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if got := doc.Cards[0].CategoryIDs; len(got) != 1 || got[0] != "old-cat" {
		t.Fatalf("legacy categoryId not migrated: %v", got)
	}
}
