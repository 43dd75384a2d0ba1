/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the core data model of a visual document:
// cards, text blocks, columns, categories and the connections between
// them. All positions are stored in canvas space, independent of the
// current pan offset and zoom factor.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh opaque identifier for any document item.
func NewID() string { return uuid.NewString() }

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Kind discriminates the selectable item kinds on the canvas.
type Kind string

const (
	KindCard   Kind = "card"
	KindText   Kind = "text"
	KindColumn Kind = "column"
)

// Side names an edge of a card's bounding box.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Valid reports whether s is one of the four edge tokens.
func (s Side) Valid() bool {
	switch s {
	case SideTop, SideBottom, SideLeft, SideRight:
		return true
	}
	return false
}

// ChecklistItem is a single row in a card's checklist. Its category is
// purely visual and independent of the owning card's categories.
type ChecklistItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Details    string `json:"details,omitempty"`
	Completed  bool   `json:"completed"`
	CategoryID string `json:"categoryId,omitempty"`
}

// Card is the primary item kind. Width/Height of 0 mean auto-sized
// from content; explicit values are set by the resize gesture.
type Card struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Details     string          `json:"details,omitempty"`
	CategoryIDs []string        `json:"categoryIds"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Width       float64         `json:"width,omitempty"`
	Height      float64         `json:"height,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
}

// ChecklistItemByID returns a pointer into the card's checklist, or nil.
func (c *Card) ChecklistItemByID(id string) *ChecklistItem {
	for i := range c.Checklist {
		if c.Checklist[i].ID == id {
			return &c.Checklist[i]
		}
	}
	return nil
}

// ChecklistProgress returns completed and total checklist counts.
func (c *Card) ChecklistProgress() (done, total int) {
	for i := range c.Checklist {
		if c.Checklist[i].Completed {
			done++
		}
	}
	return done, len(c.Checklist)
}

// TextBlock is a free-standing piece of text on the canvas.
type TextBlock struct {
	ID       string  `json:"id"`
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color,omitempty"`
}

// Column is a colored backdrop region. It has no containment
// relationship to cards placed over it; z-order only.
type Column struct {
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// Category colors and names a group of cards. Cards may belong to
// several categories at once.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Endpoint describes one logical end of a connection. The fields form
// a priority ladder: a manual FixedPoint wins over a ChecklistID,
// which wins over a FixedSide, which wins over automatic side
// selection from the two cards' relative positions.
type Endpoint struct {
	CardID      string `json:"cardId"`
	ChecklistID string `json:"checklistId,omitempty"`
	FixedPoint  *Point `json:"fixedPoint,omitempty"`
	FixedSide   Side   `json:"fixedSide,omitempty"`
}

// Clone returns a deep copy of the endpoint.
func (e Endpoint) Clone() Endpoint {
	out := e
	if e.FixedPoint != nil {
		p := *e.FixedPoint
		out.FixedPoint = &p
	}
	return out
}

// SameAnchor reports whether two endpoints name the identical
// (card, checklist) pair.
func (e Endpoint) SameAnchor(o Endpoint) bool {
	return e.CardID == o.CardID && e.ChecklistID == o.ChecklistID
}

// Connection links two endpoints, optionally shaped by ordered
// user-placed waypoints.
type Connection struct {
	ID        string   `json:"id"`
	From      Endpoint `json:"from"`
	To        Endpoint `json:"to"`
	Waypoints []Point  `json:"waypoints"`
}

// Clone returns a deep copy of the connection.
func (c Connection) Clone() Connection {
	out := c
	out.From = c.From.Clone()
	out.To = c.To.Clone()
	if c.Waypoints != nil {
		out.Waypoints = make([]Point, len(c.Waypoints))
		copy(out.Waypoints, c.Waypoints)
	}
	return out
}

// Document is the aggregate root holding every collection of a project.
type Document struct {
	Cards        []Card       `json:"cards"`
	Connections  []Connection `json:"connections"`
	Texts        []TextBlock  `json:"texts"`
	Columns      []Column     `json:"columns"`
	Categories   []Category   `json:"categories"`
	ProjectName  string       `json:"projectName"`
	LastModified time.Time    `json:"lastModified"`
}

// CloneCard returns a deep copy of a card including its checklist.
func CloneCard(c Card) Card {
	out := c
	if c.CategoryIDs != nil {
		out.CategoryIDs = make([]string, len(c.CategoryIDs))
		copy(out.CategoryIDs, c.CategoryIDs)
	}
	if c.Checklist != nil {
		out.Checklist = make([]ChecklistItem, len(c.Checklist))
		copy(out.Checklist, c.Checklist)
	}
	return out
}

// Clone returns a deep, fully independent copy of the document.
// Mutating the original afterwards never affects the copy; this is
// what the history engine relies on for snapshot isolation.
func (d *Document) Clone() *Document {
	out := &Document{
		ProjectName:  d.ProjectName,
		LastModified: d.LastModified,
	}
	if d.Cards != nil {
		out.Cards = make([]Card, len(d.Cards))
		for i := range d.Cards {
			out.Cards[i] = CloneCard(d.Cards[i])
		}
	}
	if d.Connections != nil {
		out.Connections = make([]Connection, len(d.Connections))
		for i := range d.Connections {
			out.Connections[i] = d.Connections[i].Clone()
		}
	}
	if d.Texts != nil {
		out.Texts = make([]TextBlock, len(d.Texts))
		copy(out.Texts, d.Texts)
	}
	if d.Columns != nil {
		out.Columns = make([]Column, len(d.Columns))
		copy(out.Columns, d.Columns)
	}
	if d.Categories != nil {
		out.Categories = make([]Category, len(d.Categories))
		copy(out.Categories, d.Categories)
	}
	return out
}

// CardByID returns a pointer into the document's card slice, or nil.
func (d *Document) CardByID(id string) *Card {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return &d.Cards[i]
		}
	}
	return nil
}

// TextByID returns a pointer into the document's text slice, or nil.
func (d *Document) TextByID(id string) *TextBlock {
	for i := range d.Texts {
		if d.Texts[i].ID == id {
			return &d.Texts[i]
		}
	}
	return nil
}

// ColumnByID returns a pointer into the document's column slice, or nil.
func (d *Document) ColumnByID(id string) *Column {
	for i := range d.Columns {
		if d.Columns[i].ID == id {
			return &d.Columns[i]
		}
	}
	return nil
}

// CategoryByID returns a pointer into the document's category slice, or nil.
func (d *Document) CategoryByID(id string) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}

// Touch updates the last-modified timestamp.
func (d *Document) Touch() { d.LastModified = time.Now().UTC() }

// NewDocument returns an empty document carrying the default category
// set; every card always belongs to at least one category.
func NewDocument(name string) *Document {
	return &Document{
		ProjectName:  name,
		Cards:        []Card{},
		Connections:  []Connection{},
		Texts:        []TextBlock{},
		Columns:      []Column{},
		Categories:   DefaultCategories(),
		LastModified: time.Now().UTC(),
	}
}

// DefaultCategories is the palette seeded into new documents.
func DefaultCategories() []Category {
	return []Category{
		{ID: NewID(), Name: "General", Color: "#4a90d9"},
		{ID: NewID(), Name: "Important", Color: "#d94a4a"},
		{ID: NewID(), Name: "Idea", Color: "#4ad98c"},
	}
}
