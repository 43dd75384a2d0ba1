/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene owns the live document and the interaction state around
// it: item storage, the selection/clipboard engine, the pure layout
// model and the drag/resize gesture machine.
package scene

import (
	"log/slog"

	"visualdoc/internal/domain"
	applog "visualdoc/internal/log"
)

// Store owns the live document. All mutations go through it so that
// removal cascades stay in one place. Operations targeting an id that
// no longer exists are silent no-ops; a stale drag or delete event
// arriving after its target vanished must never surface an error.
type Store struct {
	doc *domain.Document
	log *slog.Logger
}

// NewStore wraps an existing document. A nil document gets replaced by
// an empty unnamed one.
func NewStore(doc *domain.Document) *Store {
	if doc == nil {
		doc = domain.NewDocument("")
	}
	return &Store{doc: doc, log: applog.WithComponent("scene")}
}

// Doc exposes the live document for read-only traversal (rendering,
// export, persistence). Mutations must go through Store methods.
func (s *Store) Doc() *domain.Document { return s.doc }

// Replace swaps in a different document, e.g. after load or undo.
func (s *Store) Replace(doc *domain.Document) {
	if doc == nil {
		return
	}
	s.doc = doc
}

// AddCard inserts a card, assigning an id if missing and guaranteeing
// a non-empty category list while categories exist.
func (s *Store) AddCard(c domain.Card) string {
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	if len(c.CategoryIDs) == 0 && len(s.doc.Categories) > 0 {
		c.CategoryIDs = []string{s.doc.Categories[0].ID}
	}
	s.doc.Cards = append(s.doc.Cards, c)
	s.doc.Touch()
	return c.ID
}

// AddText inserts a text block, assigning an id and default font size
// if missing.
func (s *Store) AddText(t domain.TextBlock) string {
	if t.ID == "" {
		t.ID = domain.NewID()
	}
	if t.FontSize <= 0 {
		t.FontSize = DefaultFontSize
	}
	s.doc.Texts = append(s.doc.Texts, t)
	s.doc.Touch()
	return t.ID
}

// AddColumn inserts a column backdrop, assigning an id if missing.
func (s *Store) AddColumn(c domain.Column) string {
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	if c.Width <= 0 {
		c.Width = ColumnDefaultWidth
	}
	if c.Height <= 0 {
		c.Height = ColumnDefaultHeight
	}
	s.doc.Columns = append(s.doc.Columns, c)
	s.doc.Touch()
	return c.ID
}

// AddConnection appends a connection. Validation (self-loop, duplicate)
// belongs to the router; the store only records.
func (s *Store) AddConnection(c domain.Connection) string {
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	if c.Waypoints == nil {
		c.Waypoints = []domain.Point{}
	}
	s.doc.Connections = append(s.doc.Connections, c)
	s.doc.Touch()
	return c.ID
}

// RemoveByID removes an item of the given kind. Removing a card also
// drops every connection touching it on either end, regardless of
// checklist sub-anchor. Missing ids are silent no-ops.
func (s *Store) RemoveByID(id string, kind domain.Kind) bool {
	switch kind {
	case domain.KindCard:
		return s.removeCard(id)
	case domain.KindText:
		for i := range s.doc.Texts {
			if s.doc.Texts[i].ID == id {
				s.doc.Texts = append(s.doc.Texts[:i], s.doc.Texts[i+1:]...)
				s.doc.Touch()
				return true
			}
		}
	case domain.KindColumn:
		for i := range s.doc.Columns {
			if s.doc.Columns[i].ID == id {
				s.doc.Columns = append(s.doc.Columns[:i], s.doc.Columns[i+1:]...)
				s.doc.Touch()
				return true
			}
		}
	}
	return false
}

func (s *Store) removeCard(id string) bool {
	idx := -1
	for i := range s.doc.Cards {
		if s.doc.Cards[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.doc.Cards = append(s.doc.Cards[:idx], s.doc.Cards[idx+1:]...)

	kept := s.doc.Connections[:0]
	dropped := 0
	for _, conn := range s.doc.Connections {
		if conn.From.CardID == id || conn.To.CardID == id {
			dropped++
			continue
		}
		kept = append(kept, conn)
	}
	s.doc.Connections = kept
	if dropped > 0 {
		s.log.Debug("cascade removed connections", slog.String("card", id), slog.Int("count", dropped))
	}
	s.doc.Touch()
	return true
}

// RemoveConnectionAt deletes a connection by index in the ordered list.
// Out-of-range indices are silent no-ops.
func (s *Store) RemoveConnectionAt(idx int) bool {
	if idx < 0 || idx >= len(s.doc.Connections) {
		return false
	}
	s.doc.Connections = append(s.doc.Connections[:idx], s.doc.Connections[idx+1:]...)
	s.doc.Touch()
	return true
}

// ConnectionIndexByID returns the index of a connection, or -1.
func (s *Store) ConnectionIndexByID(id string) int {
	for i := range s.doc.Connections {
		if s.doc.Connections[i].ID == id {
			return i
		}
	}
	return -1
}
