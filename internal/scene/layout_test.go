/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"testing"

	"visualdoc/internal/domain"
	"visualdoc/internal/vector"
)

func TestCardRectAutoHeightGrowsWithChecklist(t *testing.T) {
	c := domain.Card{X: 10, Y: 20}
	r := CardRect(&c)
	if r.W != CardDefaultWidth || r.H != CardBaseHeight {
		t.Fatalf("empty card rect = %v", r)
	}
	c.Checklist = []domain.ChecklistItem{{ID: "1"}, {ID: "2"}}
	r2 := CardRect(&c)
	if r2.H != CardBaseHeight+2*ChecklistRowH {
		t.Fatalf("auto height = %v, want %v", r2.H, CardBaseHeight+2*ChecklistRowH)
	}
}

func TestCardRectExplicitSizeWins(t *testing.T) {
	c := domain.Card{Width: 400, Height: 300, Checklist: []domain.ChecklistItem{{ID: "1"}}}
	r := CardRect(&c)
	if r.W != 400 || r.H != 300 {
		t.Fatalf("explicit size ignored: %v", r)
	}
}

func TestChecklistConnectorPoint(t *testing.T) {
	c := domain.Card{X: 0, Y: 0, Checklist: []domain.ChecklistItem{{ID: "k1"}, {ID: "k2"}}}
	pt, ok := ChecklistConnectorPoint(&c, "k2")
	if !ok {
		t.Fatal("connector not found")
	}
	wantY := CardBaseHeight + 1*ChecklistRowH + ChecklistRowH/2
	if pt.X != CardDefaultWidth || pt.Y != wantY {
		t.Fatalf("connector = %v, want (%v, %v)", pt, CardDefaultWidth, wantY)
	}
	if _, ok := ChecklistConnectorPoint(&c, "missing"); ok {
		t.Fatal("missing item must report not-found")
	}
}

func TestHitTestTopmostFirst(t *testing.T) {
	doc := domain.NewDocument("t")
	doc.Cards = append(doc.Cards,
		domain.Card{ID: "under", X: 0, Y: 0, Width: 300, Height: 200},
		domain.Card{ID: "over", X: 50, Y: 50, Width: 300, Height: 200},
	)
	hit := HitTest(doc, vector.Pt{X: 150, Y: 150})
	if hit.Kind != HitCard || hit.ID != "over" {
		t.Fatalf("expected topmost card, got %+v", hit)
	}
}

func TestHitTestChecklistConnectorBeatsCardBody(t *testing.T) {
	doc := domain.NewDocument("t")
	doc.Cards = append(doc.Cards, domain.Card{
		ID: "c1", X: 0, Y: 0,
		Checklist: []domain.ChecklistItem{{ID: "k1"}},
	})
	pt, _ := ChecklistConnectorPoint(&doc.Cards[0], "k1")
	hit := HitTest(doc, pt)
	if hit.Kind != HitChecklistConnector || hit.ChecklistID != "k1" {
		t.Fatalf("expected checklist connector hit, got %+v", hit)
	}
}

func TestHitTestCardSide(t *testing.T) {
	doc := domain.NewDocument("t")
	doc.Cards = append(doc.Cards, domain.Card{ID: "c1", X: 100, Y: 100, Width: 200, Height: 100})
	hit := HitTest(doc, vector.Pt{X: 300, Y: 150}) // right-side midpoint
	if hit.Kind != HitCardSide || hit.Side != domain.SideRight {
		t.Fatalf("expected right side hit, got %+v", hit)
	}
}

func TestHitTestColumnIsBackdrop(t *testing.T) {
	doc := domain.NewDocument("t")
	doc.Columns = append(doc.Columns, domain.Column{ID: "col", X: 0, Y: 0, Width: 500, Height: 500})
	doc.Cards = append(doc.Cards, domain.Card{ID: "c1", X: 100, Y: 100, Width: 200, Height: 100})
	hit := HitTest(doc, vector.Pt{X: 150, Y: 150})
	if hit.Kind != HitCard {
		t.Fatalf("card must win over the column backdrop, got %+v", hit)
	}
	hit = HitTest(doc, vector.Pt{X: 450, Y: 450})
	if hit.Kind != HitColumn || hit.ID != "col" {
		t.Fatalf("expected column hit, got %+v", hit)
	}
}

func TestHitTestEmptyCanvas(t *testing.T) {
	doc := domain.NewDocument("t")
	if hit := HitTest(doc, vector.Pt{X: 9999, Y: 9999}); hit.Kind != HitNone {
		t.Fatalf("expected no hit, got %+v", hit)
	}
}
