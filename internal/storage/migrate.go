/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"visualdoc/internal/domain"
)

// Older project files carried several connection shapes at once: a
// composite "cardId:checklistId" string under from/to, split
// fromCardId/fixedFromPoint/fixedFromSide fields, and cards with a
// single legacy categoryId. ParseDocument normalizes all of them into
// the canonical document in one pass, so nothing downstream ever sees
// a legacy shape.

type docWire struct {
	Cards        []cardWire         `json:"cards"`
	Connections  []connWire         `json:"connections"`
	Texts        []domain.TextBlock `json:"texts"`
	Columns      []domain.Column    `json:"columns"`
	Categories   []domain.Category  `json:"categories"`
	ProjectName  string             `json:"projectName"`
	LastModified json.RawMessage    `json:"lastModified"`
}

type cardWire struct {
	domain.Card
	LegacyCategoryID string `json:"categoryId"`
}

type connWire struct {
	ID        string          `json:"id"`
	From      json.RawMessage `json:"from"`
	To        json.RawMessage `json:"to"`
	Waypoints []domain.Point  `json:"waypoints"`

	// split legacy fields
	FromCardID      string        `json:"fromCardId"`
	ToCardID        string        `json:"toCardId"`
	FromChecklistID string        `json:"fromChecklistId"`
	ToChecklistID   string        `json:"toChecklistId"`
	FixedFromPoint  *domain.Point `json:"fixedFromPoint"`
	FixedToPoint    *domain.Point `json:"fixedToPoint"`
	FixedFromSide   string        `json:"fixedFromSide"`
	FixedToSide     string        `json:"fixedToSide"`
}

// ParseDocument decodes a project file, tolerating unknown fields and
// backfilling whatever the legacy formats left out.
func ParseDocument(data []byte) (*domain.Document, error) {
	var w docWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc := &domain.Document{
		ProjectName: w.ProjectName,
		Cards:       make([]domain.Card, 0, len(w.Cards)),
		Connections: make([]domain.Connection, 0, len(w.Connections)),
		Texts:       w.Texts,
		Columns:     w.Columns,
		Categories:  w.Categories,
	}
	if doc.Texts == nil {
		doc.Texts = []domain.TextBlock{}
	}
	if doc.Columns == nil {
		doc.Columns = []domain.Column{}
	}
	if len(doc.Categories) == 0 {
		doc.Categories = domain.DefaultCategories()
	}
	if len(w.LastModified) > 0 {
		// tolerate both RFC3339 strings and unix millisecond numbers
		_ = json.Unmarshal(w.LastModified, &doc.LastModified)
	}

	fallbackCat := doc.Categories[0].ID
	for _, cw := range w.Cards {
		c := cw.Card
		if c.ID == "" {
			c.ID = domain.NewID()
		}
		if len(c.CategoryIDs) == 0 {
			if cw.LegacyCategoryID != "" {
				c.CategoryIDs = []string{cw.LegacyCategoryID}
			} else {
				c.CategoryIDs = []string{fallbackCat}
			}
		}
		for i := range c.Checklist {
			if c.Checklist[i].ID == "" {
				c.Checklist[i].ID = domain.NewID()
			}
		}
		doc.Cards = append(doc.Cards, c)
	}

	for _, cw := range w.Connections {
		conn := domain.Connection{ID: cw.ID, Waypoints: cw.Waypoints}
		if conn.ID == "" {
			conn.ID = domain.NewID()
		}
		if conn.Waypoints == nil {
			conn.Waypoints = []domain.Point{}
		}
		conn.From = parseEndpoint(cw.From, cw.FromCardID, cw.FromChecklistID, cw.FixedFromPoint, cw.FixedFromSide)
		conn.To = parseEndpoint(cw.To, cw.ToCardID, cw.ToChecklistID, cw.FixedToPoint, cw.FixedToSide)
		if conn.From.CardID == "" || conn.To.CardID == "" {
			continue // unrecoverable endpoint, drop rather than crash
		}
		doc.Connections = append(doc.Connections, conn)
	}
	return doc, nil
}

// parseEndpoint normalizes one endpoint from whichever representation
// the file used: a canonical object, a composite "card:checklist"
// string, or the split legacy fields.
func parseEndpoint(raw json.RawMessage, cardID, checklistID string, fixedPt *domain.Point, fixedSide string) domain.Endpoint {
	ep := domain.Endpoint{}
	if len(raw) > 0 {
		switch raw[0] {
		case '{':
			_ = json.Unmarshal(raw, &ep)
		case '"':
			var s string
			if json.Unmarshal(raw, &s) == nil {
				before, after, found := strings.Cut(s, ":")
				ep.CardID = before
				if found {
					ep.ChecklistID = after
				}
			}
		}
	}
	if ep.CardID == "" {
		ep.CardID = cardID
	}
	if ep.ChecklistID == "" {
		ep.ChecklistID = checklistID
	}
	if ep.FixedPoint == nil && fixedPt != nil {
		p := *fixedPt
		ep.FixedPoint = &p
	}
	if ep.FixedSide == "" && domain.Side(fixedSide).Valid() {
		ep.FixedSide = domain.Side(fixedSide)
	}
	return ep
}
