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

	"visualdoc/internal/domain"
	"visualdoc/internal/vector"
)

// GestureState enumerates the interaction machine's states. Exactly
// one is active at a time; entering a new gesture while another is in
// progress is rejected.
type GestureState int

const (
	Idle GestureState = iota
	Panning
	DraggingSelection
	ResizingItem
	ConnectingDrag
)

// CommitFunc is invoked exactly once at the end of a mutating gesture
// so history and persistence see one entry per gesture, not one per
// pointer move.
type CommitFunc func()

// Engine converts pointer events into scene mutations. It owns no
// document data itself; it reaches the document through the store and
// the viewport for coordinate conversion.
type Engine struct {
	store     *Store
	selection *Selection
	viewport  *vector.Viewport
	commit    CommitFunc

	state GestureState

	// DraggingSelection: per-item offset from the pointer's canvas
	// position to the item position at gesture start. Recomputing each
	// position from pointer minus its own offset keeps a heterogeneous
	// multi-selection rigid relative to the grab point.
	dragOffsets map[Ref]vector.Pt

	// ResizingItem
	resizeTarget   Ref
	resizeStart    vector.Pt // pointer screen position at gesture start
	resizeBase     vector.Size
	resizeBaseFont float64
	resizeMutated  bool

	// ConnectingDrag
	connectFrom  domain.Endpoint
	connectPos   vector.Pt // live pointer canvas position
	connectAlive bool
}

// NewEngine wires the gesture machine. commit may be nil.
func NewEngine(store *Store, selection *Selection, viewport *vector.Viewport, commit CommitFunc) *Engine {
	return &Engine{
		store:     store,
		selection: selection,
		viewport:  viewport,
		commit:    commit,
		state:     Idle,
	}
}

// State returns the machine's current state.
func (e *Engine) State() GestureState { return e.state }

func (e *Engine) doCommit() {
	if e.commit != nil {
		e.commit()
	}
}

// StartPan enters the Panning state. Returns false when another
// gesture is in progress.
func (e *Engine) StartPan() bool {
	if e.state != Idle {
		return false
	}
	e.state = Panning
	return true
}

// MovePan translates the viewport by a raw screen delta.
func (e *Engine) MovePan(dx, dy float64) {
	if e.state != Panning {
		return
	}
	e.viewport.PanBy(dx, dy)
}

// EndPan returns to Idle. Panning changes no document data, so no
// commit is issued.
func (e *Engine) EndPan() {
	if e.state == Panning {
		e.state = Idle
	}
}

// StartDrag enters DraggingSelection, capturing each selected item's
// offset from the pointer canvas position.
func (e *Engine) StartDrag(screen vector.Pt) bool {
	if e.state != Idle || len(e.selection.Items()) == 0 {
		return false
	}
	p := e.viewport.ToCanvas(screen)
	doc := e.store.Doc()
	e.dragOffsets = make(map[Ref]vector.Pt)
	for _, r := range e.selection.Items() {
		switch r.Kind {
		case domain.KindCard:
			if c := doc.CardByID(r.ID); c != nil {
				e.dragOffsets[r] = vector.Pt{X: p.X - c.X, Y: p.Y - c.Y}
			}
		case domain.KindText:
			if t := doc.TextByID(r.ID); t != nil {
				e.dragOffsets[r] = vector.Pt{X: p.X - t.X, Y: p.Y - t.Y}
			}
		case domain.KindColumn:
			if c := doc.ColumnByID(r.ID); c != nil {
				e.dragOffsets[r] = vector.Pt{X: p.X - c.X, Y: p.Y - c.Y}
			}
		}
	}
	e.state = DraggingSelection
	return true
}

// MoveDrag recomputes every dragged item's position from the current
// pointer canvas position minus its captured offset. Items deleted
// mid-gesture are skipped silently.
func (e *Engine) MoveDrag(screen vector.Pt) {
	if e.state != DraggingSelection {
		return
	}
	p := e.viewport.ToCanvas(screen)
	doc := e.store.Doc()
	for r, off := range e.dragOffsets {
		switch r.Kind {
		case domain.KindCard:
			if c := doc.CardByID(r.ID); c != nil {
				c.X, c.Y = p.X-off.X, p.Y-off.Y
			}
		case domain.KindText:
			if t := doc.TextByID(r.ID); t != nil {
				t.X, t.Y = p.X-off.X, p.Y-off.Y
			}
		case domain.KindColumn:
			if c := doc.ColumnByID(r.ID); c != nil {
				c.X, c.Y = p.X-off.X, p.Y-off.Y
			}
		}
	}
}

// EndDrag commits the gesture and returns to Idle.
func (e *Engine) EndDrag() {
	if e.state != DraggingSelection {
		return
	}
	e.dragOffsets = nil
	e.state = Idle
	e.store.Doc().Touch()
	e.doCommit()
}

// StartResize enters ResizingItem for one item. The base size is taken
// from the layout model so auto-sized items resize from their rendered
// dimensions.
func (e *Engine) StartResize(id string, kind domain.Kind, screen vector.Pt) bool {
	if e.state != Idle {
		return false
	}
	doc := e.store.Doc()
	switch kind {
	case domain.KindCard:
		c := doc.CardByID(id)
		if c == nil {
			return false
		}
		r := CardRect(c)
		e.resizeBase = vector.Size{W: r.W, H: r.H}
	case domain.KindText:
		t := doc.TextByID(id)
		if t == nil {
			return false
		}
		r := TextRect(t)
		e.resizeBase = vector.Size{W: r.W, H: r.H}
		e.resizeBaseFont = t.FontSize
		if e.resizeBaseFont <= 0 {
			e.resizeBaseFont = DefaultFontSize
		}
	case domain.KindColumn:
		c := doc.ColumnByID(id)
		if c == nil {
			return false
		}
		e.resizeBase = vector.Size{W: c.Width, H: c.Height}
	default:
		return false
	}
	e.resizeTarget = Ref{ID: id, Kind: kind}
	e.resizeStart = screen
	e.resizeMutated = false
	e.state = ResizingItem
	return true
}

// MoveResize applies the zoom-compensated pointer delta since gesture
// start to the base size, clamped to the per-kind minimums. Text
// resize additionally scales the font by the geometric mean of the
// width and height scale factors, clamped to [FontSizeMin, FontSizeMax].
func (e *Engine) MoveResize(screen vector.Pt) {
	if e.state != ResizingItem {
		return
	}
	z := e.viewport.Zoom()
	dw := (screen.X - e.resizeStart.X) / z
	dh := (screen.Y - e.resizeStart.Y) / z
	w := e.resizeBase.W + dw
	h := e.resizeBase.H + dh

	doc := e.store.Doc()
	switch e.resizeTarget.Kind {
	case domain.KindCard:
		c := doc.CardByID(e.resizeTarget.ID)
		if c == nil {
			return
		}
		c.Width = math.Max(w, CardMinWidth)
		c.Height = math.Max(h, CardMinHeight)
	case domain.KindColumn:
		c := doc.ColumnByID(e.resizeTarget.ID)
		if c == nil {
			return
		}
		c.Width = math.Max(w, ColumnMinWidth)
		c.Height = math.Max(h, ColumnMinHeight)
	case domain.KindText:
		t := doc.TextByID(e.resizeTarget.ID)
		if t == nil {
			return
		}
		t.Width = math.Max(w, TextMinWidth)
		t.Height = math.Max(h, TextMinHeight)
		if e.resizeBase.W > 0 && e.resizeBase.H > 0 {
			scale := math.Sqrt((t.Width / e.resizeBase.W) * (t.Height / e.resizeBase.H))
			t.FontSize = clampFont(e.resizeBaseFont * scale)
		}
	}
	e.resizeMutated = true
}

// EndResize commits the gesture (if any move happened) and returns to
// Idle.
func (e *Engine) EndResize() {
	if e.state != ResizingItem {
		return
	}
	mutated := e.resizeMutated
	e.resizeTarget = Ref{}
	e.resizeMutated = false
	e.state = Idle
	if mutated {
		e.store.Doc().Touch()
		e.doCommit()
	}
}

// StartConnect enters ConnectingDrag from a card or checklist
// connector. The actual connection is created by the caller on
// EndConnect via the router, which validates the target.
func (e *Engine) StartConnect(from domain.Endpoint, screen vector.Pt) bool {
	if e.state != Idle {
		return false
	}
	if e.store.Doc().CardByID(from.CardID) == nil {
		return false
	}
	e.connectFrom = from
	e.connectPos = e.viewport.ToCanvas(screen)
	e.connectAlive = true
	e.state = ConnectingDrag
	return true
}

// MoveConnect tracks the live pointer position for the transient
// rubber-band line.
func (e *Engine) MoveConnect(screen vector.Pt) {
	if e.state != ConnectingDrag {
		return
	}
	e.connectPos = e.viewport.ToCanvas(screen)
}

// ConnectSource returns the gesture's source endpoint and live pointer
// canvas position while a connecting drag is active.
func (e *Engine) ConnectSource() (domain.Endpoint, vector.Pt, bool) {
	return e.connectFrom, e.connectPos, e.connectAlive && e.state == ConnectingDrag
}

// EndConnect leaves ConnectingDrag and returns the source endpoint and
// the drop point in canvas space. ok is false when no connecting drag
// was active. The caller resolves the drop target and creates (or
// rejects) the connection, then commits.
func (e *Engine) EndConnect(screen vector.Pt) (from domain.Endpoint, drop vector.Pt, ok bool) {
	if e.state != ConnectingDrag {
		return domain.Endpoint{}, vector.Pt{}, false
	}
	from = e.connectFrom
	drop = e.viewport.ToCanvas(screen)
	e.connectFrom = domain.Endpoint{}
	e.connectAlive = false
	e.state = Idle
	return from, drop, true
}

// Cancel handles the Escape key: it aborts only an in-progress
// connecting drag. Drag, resize and pan end on pointer-up alone.
func (e *Engine) Cancel() {
	if e.state != ConnectingDrag {
		return
	}
	e.connectFrom = domain.Endpoint{}
	e.connectAlive = false
	e.state = Idle
}

func clampFont(v float64) float64 {
	if v < FontSizeMin {
		return FontSizeMin
	}
	if v > FontSizeMax {
		return FontSizeMax
	}
	return v
}
