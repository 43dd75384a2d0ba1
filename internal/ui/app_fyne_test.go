//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based canvas widget. They are gated
// behind the "fyne" build tag so CI (which is headless) does not need
// Fyne or a display. To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	"visualdoc/internal/category"
	"visualdoc/internal/domain"
	"visualdoc/internal/history"
	"visualdoc/internal/router"
	"visualdoc/internal/scene"
	"visualdoc/internal/vector"
)

func newTestCanvas() (*DocCanvas, *scene.Store) {
	doc := domain.NewDocument("ui test")
	doc.Cards = append(doc.Cards, domain.Card{
		ID: "c1", Title: "a", CategoryIDs: []string{doc.Categories[0].ID},
		X: 100, Y: 100, Width: 200, Height: 100,
	})
	store := scene.NewStore(doc)
	sel := scene.NewSelection(store)
	vp := vector.NewViewport(0.1, 3)
	hist := history.New(history.DefaultLimit)
	hist.Reset(doc)
	engine := scene.NewEngine(store, sel, vp, func() { hist.Save(store.Doc()) })
	rt := router.New(store)
	cats := category.NewIndex(doc)
	return NewDocCanvas(store, sel, engine, rt, vp, cats), store
}

// tapAt taps the widget at a position; with the default viewport the
// screen and canvas coordinates coincide.
func tapAt(dc *DocCanvas, x, y float32) {
	dc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(x, y)})
}

func TestDocCanvas_TapSelectsCard(t *testing.T) {
	dc, _ := newTestCanvas()
	dc.Resize(fyne.NewSize(800, 600))
	tapAt(dc, 150, 150)
	if !dc.selection.Contains("c1", domain.KindCard) {
		t.Fatal("card not selected after tap")
	}
	tapAt(dc, 700, 500)
	if len(dc.selection.Items()) != 0 {
		t.Fatal("selection should clear on empty canvas tap")
	}
}

func TestDocCanvas_ConnectionHitTolerance(t *testing.T) {
	dc, store := newTestCanvas()
	store.AddCard(domain.Card{ID: "c2", Title: "b", X: 500, Y: 100, Width: 200, Height: 100})
	store.AddConnection(domain.Connection{
		ID:   "n1",
		From: domain.Endpoint{CardID: "c1"},
		To:   domain.Endpoint{CardID: "c2"},
	})
	// the direct curve between side midpoints passes through (400,150)
	if idx := dc.connectionAt(vector.Pt{X: 400, Y: 150}); idx != 0 {
		t.Fatalf("connectionAt on curve = %d, want 0", idx)
	}
	if idx := dc.connectionAt(vector.Pt{X: 400, Y: 400}); idx != -1 {
		t.Fatalf("connectionAt far away = %d, want -1", idx)
	}
}

func TestDocCanvas_ResizeGrip(t *testing.T) {
	dc, store := newTestCanvas()
	c := store.Doc().CardByID("c1")
	hit := scene.Hit{Kind: scene.HitCard, ID: "c1"}
	r := scene.CardRect(c)
	if !dc.onResizeGrip(hit, vector.Pt{X: r.X + r.W - 2, Y: r.Y + r.H - 2}) {
		t.Fatal("bottom-right corner should be a resize grip")
	}
	if dc.onResizeGrip(hit, vector.Pt{X: r.X + 5, Y: r.Y + 5}) {
		t.Fatal("top-left corner is not a resize grip")
	}
}
