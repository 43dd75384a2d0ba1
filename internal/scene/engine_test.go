/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"math"
	"testing"

	"visualdoc/internal/domain"
	"visualdoc/internal/vector"
)

func newTestEngine(t *testing.T) (*Engine, *Store, *Selection, *int) {
	t.Helper()
	st := newTestStore()
	sel := NewSelection(st)
	vp := vector.NewViewport(0.1, 3)
	commits := 0
	e := NewEngine(st, sel, vp, func() { commits++ })
	return e, st, sel, &commits
}

func TestGestureExclusivity(t *testing.T) {
	e, st, sel, _ := newTestEngine(t)
	id := st.AddCard(domain.Card{X: 0, Y: 0})
	sel.Select(id, domain.KindCard)

	if !e.StartDrag(vector.Pt{X: 10, Y: 10}) {
		t.Fatal("drag should start from Idle")
	}
	if e.StartPan() {
		t.Fatal("pan must be rejected during drag")
	}
	if e.StartResize(id, domain.KindCard, vector.Pt{}) {
		t.Fatal("resize must be rejected during drag")
	}
	e.EndDrag()
	if e.State() != Idle {
		t.Fatal("not back to Idle")
	}
}

func TestDragMultiSelectionStaysRigid(t *testing.T) {
	e, st, sel, commits := newTestEngine(t)
	a := st.AddCard(domain.Card{X: 0, Y: 0})
	b := st.AddCard(domain.Card{X: 100, Y: 50})
	sel.Toggle(a, domain.KindCard)
	sel.Toggle(b, domain.KindCard)

	e.StartDrag(vector.Pt{X: 10, Y: 10})
	e.MoveDrag(vector.Pt{X: 40, Y: 25})
	e.MoveDrag(vector.Pt{X: 60, Y: 30})
	e.EndDrag()

	ca := st.Doc().CardByID(a)
	cb := st.Doc().CardByID(b)
	if ca.X != 50 || ca.Y != 20 {
		t.Fatalf("card a at (%v,%v), want (50,20)", ca.X, ca.Y)
	}
	// relative offset between a and b must be preserved exactly
	if cb.X-ca.X != 100 || cb.Y-ca.Y != 50 {
		t.Fatalf("selection not rigid: a=(%v,%v) b=(%v,%v)", ca.X, ca.Y, cb.X, cb.Y)
	}
	if *commits != 1 {
		t.Fatalf("expected exactly one commit per gesture, got %d", *commits)
	}
}

func TestDragUnderZoom(t *testing.T) {
	e, st, sel, _ := newTestEngine(t)
	id := st.AddCard(domain.Card{X: 0, Y: 0})
	sel.Select(id, domain.KindCard)
	e.viewport.SetZoom(2)

	e.StartDrag(vector.Pt{X: 0, Y: 0})
	e.MoveDrag(vector.Pt{X: 100, Y: 0}) // 100 screen px = 50 canvas units at zoom 2
	e.EndDrag()
	if c := st.Doc().CardByID(id); c.X != 50 {
		t.Fatalf("drag not zoom-divided: X = %v", c.X)
	}
}

func TestResizeClampsMinimums(t *testing.T) {
	e, st, _, commits := newTestEngine(t)
	id := st.AddCard(domain.Card{X: 0, Y: 0, Width: 300, Height: 200})

	e.StartResize(id, domain.KindCard, vector.Pt{X: 0, Y: 0})
	e.MoveResize(vector.Pt{X: -1000, Y: -1000})
	e.EndResize()

	c := st.Doc().CardByID(id)
	if c.Width != CardMinWidth || c.Height != CardMinHeight {
		t.Fatalf("minimums not enforced: %vx%v", c.Width, c.Height)
	}
	if *commits != 1 {
		t.Fatalf("commits = %d", *commits)
	}
}

func TestResizeZoomCompensated(t *testing.T) {
	e, st, _, _ := newTestEngine(t)
	id := st.AddCard(domain.Card{Width: 300, Height: 200})
	e.viewport.SetZoom(2)

	e.StartResize(id, domain.KindCard, vector.Pt{X: 0, Y: 0})
	e.MoveResize(vector.Pt{X: 100, Y: 40})
	e.EndResize()

	c := st.Doc().CardByID(id)
	if c.Width != 350 || c.Height != 220 {
		t.Fatalf("resize not zoom-compensated: %vx%v", c.Width, c.Height)
	}
}

func TestTextResizeScalesFontGeometrically(t *testing.T) {
	e, st, _, _ := newTestEngine(t)
	id := st.AddText(domain.TextBlock{Content: "x", Width: 100, Height: 50, FontSize: 20})

	e.StartResize(id, domain.KindText, vector.Pt{X: 0, Y: 0})
	e.MoveResize(vector.Pt{X: 100, Y: 50}) // doubles both dimensions
	e.EndResize()

	tb := st.Doc().TextByID(id)
	if tb.Width != 200 || tb.Height != 100 {
		t.Fatalf("size = %vx%v", tb.Width, tb.Height)
	}
	// geometric mean of (2, 2) = 2 -> font 40
	if math.Abs(tb.FontSize-40) > 1e-9 {
		t.Fatalf("font = %v, want 40", tb.FontSize)
	}
}

func TestTextResizeFontClamped(t *testing.T) {
	e, st, _, _ := newTestEngine(t)
	id := st.AddText(domain.TextBlock{Content: "x", Width: 100, Height: 50, FontSize: 150})

	e.StartResize(id, domain.KindText, vector.Pt{X: 0, Y: 0})
	e.MoveResize(vector.Pt{X: 300, Y: 150})
	e.EndResize()

	if tb := st.Doc().TextByID(id); tb.FontSize != FontSizeMax {
		t.Fatalf("font = %v, want clamp at %v", tb.FontSize, FontSizeMax)
	}
}

func TestEscapeCancelsOnlyConnectingDrag(t *testing.T) {
	e, st, sel, _ := newTestEngine(t)
	id := st.AddCard(domain.Card{})
	sel.Select(id, domain.KindCard)

	e.StartDrag(vector.Pt{})
	e.Cancel()
	if e.State() != DraggingSelection {
		t.Fatal("Escape must not cancel a drag")
	}
	e.EndDrag()

	e.StartConnect(domain.Endpoint{CardID: id}, vector.Pt{})
	if e.State() != ConnectingDrag {
		t.Fatal("connect did not start")
	}
	e.Cancel()
	if e.State() != Idle {
		t.Fatal("Escape must cancel a connecting drag")
	}
	if _, _, ok := e.ConnectSource(); ok {
		t.Fatal("connect source must be cleared on cancel")
	}
}

func TestEndConnectReturnsDropPoint(t *testing.T) {
	e, st, _, _ := newTestEngine(t)
	id := st.AddCard(domain.Card{})
	e.viewport.Pan = vector.Pt{X: 100, Y: 0}

	e.StartConnect(domain.Endpoint{CardID: id}, vector.Pt{X: 0, Y: 0})
	from, drop, ok := e.EndConnect(vector.Pt{X: 300, Y: 50})
	if !ok || from.CardID != id {
		t.Fatalf("EndConnect: %v %v %v", from, drop, ok)
	}
	if drop.X != 200 || drop.Y != 50 {
		t.Fatalf("drop = %v, want canvas (200,50)", drop)
	}
	if e.State() != Idle {
		t.Fatal("not back to Idle")
	}
}

func TestStartConnectMissingCardRejected(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	if e.StartConnect(domain.Endpoint{CardID: "ghost"}, vector.Pt{}) {
		t.Fatal("connect from a missing card must be rejected")
	}
}

func TestMoveDragSkipsDeletedItems(t *testing.T) {
	e, st, sel, _ := newTestEngine(t)
	id := st.AddCard(domain.Card{})
	sel.Select(id, domain.KindCard)
	e.StartDrag(vector.Pt{})
	st.RemoveByID(id, domain.KindCard)
	e.MoveDrag(vector.Pt{X: 50, Y: 50}) // must not panic
	e.EndDrag()
}
