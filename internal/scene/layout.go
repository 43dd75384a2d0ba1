/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"visualdoc/internal/domain"
	"visualdoc/internal/vector"
)

// The layout model computes item bounding boxes and connector points
// purely from document data, so anchor resolution never depends on a
// rendered view.

const (
	CardDefaultWidth    = 280.0
	CardBaseHeight      = 120.0
	ChecklistRowH       = 24.0
	CardMinWidth        = 200.0
	CardMinHeight       = 100.0
	ColumnDefaultWidth  = 240.0
	ColumnDefaultHeight = 600.0
	ColumnMinWidth      = 100.0
	ColumnMinHeight     = 100.0
	TextMinWidth        = 50.0
	TextMinHeight       = 20.0
	DefaultFontSize     = 16.0
	FontSizeMin         = 8.0
	FontSizeMax         = 200.0

	// Hit radius around connector affordances, in canvas units.
	ConnectorRadius = 10.0
)

// CardRect returns the card's bounding box. Explicit sizes win;
// otherwise width is the default and height grows with the checklist.
func CardRect(c *domain.Card) vector.Rect {
	w := c.Width
	if w <= 0 {
		w = CardDefaultWidth
	}
	h := c.Height
	if h <= 0 {
		h = CardBaseHeight + float64(len(c.Checklist))*ChecklistRowH
	}
	return vector.R(c.X, c.Y, w, h)
}

// TextRect returns the text block's bounding box. Auto size estimates
// from font size and content length; good enough for hit testing.
func TextRect(t *domain.TextBlock) vector.Rect {
	w := t.Width
	h := t.Height
	fs := t.FontSize
	if fs <= 0 {
		fs = DefaultFontSize
	}
	if w <= 0 {
		w = float64(len(t.Content)) * fs * 0.6
		if w < TextMinWidth {
			w = TextMinWidth
		}
	}
	if h <= 0 {
		h = fs * 1.4
		if h < TextMinHeight {
			h = TextMinHeight
		}
	}
	return vector.R(t.X, t.Y, w, h)
}

// ColumnRect returns the column's bounding box.
func ColumnRect(c *domain.Column) vector.Rect {
	return vector.R(c.X, c.Y, c.Width, c.Height)
}

// ChecklistRowRect returns the bounding box of row i within the card.
func ChecklistRowRect(c *domain.Card, i int) vector.Rect {
	r := CardRect(c)
	top := c.Y + CardBaseHeight + float64(i)*ChecklistRowH
	return vector.R(r.X, top, r.W, ChecklistRowH)
}

// ChecklistConnectorPoint returns the center of the connector
// affordance for checklist item with the given id: the midpoint of the
// row's right edge. ok is false when the item is missing, letting the
// caller fall through to the next anchor tier.
func ChecklistConnectorPoint(c *domain.Card, checklistID string) (vector.Pt, bool) {
	for i := range c.Checklist {
		if c.Checklist[i].ID == checklistID {
			row := ChecklistRowRect(c, i)
			return vector.Pt{X: row.X + row.W, Y: row.Y + row.H/2}, true
		}
	}
	return vector.Pt{}, false
}

// SideConnectorPoint returns the midpoint of the named card side.
func SideConnectorPoint(c *domain.Card, side domain.Side) vector.Pt {
	return CardRect(c).SideMidpoint(string(side))
}

// HitKind describes what a canvas-point probe landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitCard
	HitCardSide
	HitChecklistConnector
	HitText
	HitColumn
)

// Hit is the result of a topmost-first probe at a canvas point.
type Hit struct {
	Kind        HitKind
	ID          string // card/text/column id
	ChecklistID string // set for HitChecklistConnector
	Side        domain.Side
}

// HitTest probes the document at a canvas point, topmost first (later
// items render above earlier ones, so iteration runs backwards).
// Checklist connectors win over card sides, card sides over the card
// body. Columns are probed last as backdrops.
func HitTest(doc *domain.Document, p vector.Pt) Hit {
	for i := len(doc.Cards) - 1; i >= 0; i-- {
		c := &doc.Cards[i]
		for j := range c.Checklist {
			if pt, ok := ChecklistConnectorPoint(c, c.Checklist[j].ID); ok {
				if vector.Dist(p, pt) <= ConnectorRadius {
					return Hit{Kind: HitChecklistConnector, ID: c.ID, ChecklistID: c.Checklist[j].ID}
				}
			}
		}
		if side, ok := sideHit(c, p); ok {
			return Hit{Kind: HitCardSide, ID: c.ID, Side: side}
		}
		if CardRect(c).Contains(p) {
			return Hit{Kind: HitCard, ID: c.ID}
		}
	}
	for i := len(doc.Texts) - 1; i >= 0; i-- {
		if TextRect(&doc.Texts[i]).Contains(p) {
			return Hit{Kind: HitText, ID: doc.Texts[i].ID}
		}
	}
	for i := len(doc.Columns) - 1; i >= 0; i-- {
		if ColumnRect(&doc.Columns[i]).Contains(p) {
			return Hit{Kind: HitColumn, ID: doc.Columns[i].ID}
		}
	}
	return Hit{Kind: HitNone}
}

func sideHit(c *domain.Card, p vector.Pt) (domain.Side, bool) {
	for _, side := range []domain.Side{domain.SideTop, domain.SideBottom, domain.SideLeft, domain.SideRight} {
		if vector.Dist(p, SideConnectorPoint(c, side)) <= ConnectorRadius {
			return side, true
		}
	}
	return "", false
}
