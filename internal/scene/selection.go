/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"log/slog"

	"visualdoc/internal/domain"
	applog "visualdoc/internal/log"
)

// Ref identifies one selectable item on the canvas.
type Ref struct {
	ID   string
	Kind domain.Kind
}

// Confirmer is the synchronous decision surface for destructive
// actions, implemented by the UI (or by a stub in tests).
type Confirmer interface {
	Confirm(message string) bool
}

// Paste stagger: each pasted item lands PasteBaseOffset plus
// PasteStepOffset per clipboard index away from its source.
const (
	PasteBaseOffset = 30.0
	PasteStepOffset = 10.0
)

type clipboardEntry struct {
	kind   domain.Kind
	card   domain.Card
	text   domain.TextBlock
	column domain.Column
}

// Selection tracks the active item selection and the clipboard buffer.
// Item selection and connection selection are mutually exclusive.
type Selection struct {
	store *Store
	log   *slog.Logger

	items     []Ref // insertion-ordered
	connIndex int   // -1 when no connection is selected

	clipboard []clipboardEntry
}

// NewSelection builds a selection engine bound to a store.
func NewSelection(store *Store) *Selection {
	return &Selection{
		store:     store,
		log:       applog.WithComponent("selection"),
		connIndex: -1,
	}
}

// Items returns the current selection in insertion order.
func (s *Selection) Items() []Ref {
	out := make([]Ref, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether the item is currently selected.
func (s *Selection) Contains(id string, kind domain.Kind) bool {
	for _, r := range s.items {
		if r.ID == id && r.Kind == kind {
			return true
		}
	}
	return false
}

// SelectedConnection returns the selected connection index, or -1.
func (s *Selection) SelectedConnection() int { return s.connIndex }

// Select replaces the selection with a single item and deselects any
// connection.
func (s *Selection) Select(id string, kind domain.Kind) {
	s.connIndex = -1
	s.items = s.items[:0]
	s.items = append(s.items, Ref{ID: id, Kind: kind})
}

// Toggle adds or removes an item without clearing the rest.
func (s *Selection) Toggle(id string, kind domain.Kind) {
	s.connIndex = -1
	for i, r := range s.items {
		if r.ID == id && r.Kind == kind {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
	s.items = append(s.items, Ref{ID: id, Kind: kind})
}

// SelectConnection selects a connection by index, clearing the item
// selection. Out-of-range indices clear everything.
func (s *Selection) SelectConnection(idx int) {
	s.items = s.items[:0]
	if idx < 0 || idx >= len(s.store.Doc().Connections) {
		s.connIndex = -1
		return
	}
	s.connIndex = idx
}

// SelectAll selects every card. Texts and columns stay unselected;
// select-all is a card-centric bulk operation here.
func (s *Selection) SelectAll() {
	s.connIndex = -1
	s.items = s.items[:0]
	for i := range s.store.Doc().Cards {
		s.items = append(s.items, Ref{ID: s.store.Doc().Cards[i].ID, Kind: domain.KindCard})
	}
}

// Clear empties the selection and deselects any connection.
func (s *Selection) Clear() {
	s.items = s.items[:0]
	s.connIndex = -1
}

// Copy deep-clones every selected item into the clipboard buffer,
// checklist items included. No-op when the selection is empty.
func (s *Selection) Copy() {
	if len(s.items) == 0 {
		return
	}
	doc := s.store.Doc()
	s.clipboard = s.clipboard[:0]
	for _, r := range s.items {
		switch r.Kind {
		case domain.KindCard:
			if c := doc.CardByID(r.ID); c != nil {
				s.clipboard = append(s.clipboard, clipboardEntry{kind: domain.KindCard, card: domain.CloneCard(*c)})
			}
		case domain.KindText:
			if t := doc.TextByID(r.ID); t != nil {
				s.clipboard = append(s.clipboard, clipboardEntry{kind: domain.KindText, text: *t})
			}
		case domain.KindColumn:
			if c := doc.ColumnByID(r.ID); c != nil {
				s.clipboard = append(s.clipboard, clipboardEntry{kind: domain.KindColumn, column: *c})
			}
		}
	}
	s.log.Debug("copied to clipboard", slog.Int("count", len(s.clipboard)))
}

// Paste inserts a copy of each clipboard entry with a fresh id (fresh
// checklist ids too) at a staggered offset, and makes the pasted items
// the new selection. The clipboard itself is never mutated, so
// repeated pastes yield repeated independent copies.
func (s *Selection) Paste() []Ref {
	if len(s.clipboard) == 0 {
		return nil
	}
	pasted := make([]Ref, 0, len(s.clipboard))
	for i, entry := range s.clipboard {
		dx := PasteBaseOffset + PasteStepOffset*float64(i)
		dy := dx
		switch entry.kind {
		case domain.KindCard:
			c := domain.CloneCard(entry.card)
			c.ID = domain.NewID()
			c.X += dx
			c.Y += dy
			for j := range c.Checklist {
				c.Checklist[j].ID = domain.NewID()
			}
			s.store.AddCard(c)
			pasted = append(pasted, Ref{ID: c.ID, Kind: domain.KindCard})
		case domain.KindText:
			t := entry.text
			t.ID = domain.NewID()
			t.X += dx
			t.Y += dy
			s.store.AddText(t)
			pasted = append(pasted, Ref{ID: t.ID, Kind: domain.KindText})
		case domain.KindColumn:
			c := entry.column
			c.ID = domain.NewID()
			c.X += dx
			c.Y += dy
			s.store.AddColumn(c)
			pasted = append(pasted, Ref{ID: c.ID, Kind: domain.KindColumn})
		}
	}
	s.connIndex = -1
	s.items = append(s.items[:0], pasted...)
	return pasted
}

// DeleteSelected asks for confirmation, then removes every selected
// item through the store's cascade, or the selected connection if one
// is selected instead. Declining leaves state untouched. Returns true
// when something was deleted.
func (s *Selection) DeleteSelected(confirm Confirmer) bool {
	if s.connIndex >= 0 {
		if confirm != nil && !confirm.Confirm("Delete the selected connection?") {
			return false
		}
		ok := s.store.RemoveConnectionAt(s.connIndex)
		s.connIndex = -1
		return ok
	}
	if len(s.items) == 0 {
		return false
	}
	if confirm != nil && !confirm.Confirm("Delete the selected items?") {
		return false
	}
	removed := false
	for _, r := range s.items {
		if s.store.RemoveByID(r.ID, r.Kind) {
			removed = true
		}
	}
	s.Clear()
	return removed
}

// Prune drops selection entries whose items no longer exist, e.g.
// after an undo replaced the document.
func (s *Selection) Prune() {
	doc := s.store.Doc()
	kept := s.items[:0]
	for _, r := range s.items {
		exists := false
		switch r.Kind {
		case domain.KindCard:
			exists = doc.CardByID(r.ID) != nil
		case domain.KindText:
			exists = doc.TextByID(r.ID) != nil
		case domain.KindColumn:
			exists = doc.ColumnByID(r.ID) != nil
		}
		if exists {
			kept = append(kept, r)
		}
	}
	s.items = kept
	if s.connIndex >= len(doc.Connections) {
		s.connIndex = -1
	}
}
