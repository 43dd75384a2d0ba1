/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package category maintains the category palette and the referential
// integrity between categories and the cards/checklist items that
// reference them.
package category

import (
	"errors"
	"log/slog"

	"visualdoc/internal/domain"
	applog "visualdoc/internal/log"
)

// ErrLastCategory is returned when deleting the only remaining
// category; cards must always have a category to fall back to.
var ErrLastCategory = errors.New("cannot delete the last category")

// Index provides lookup and mutation over a document's categories.
type Index struct {
	doc *domain.Document
	log *slog.Logger
}

// NewIndex binds the index to a document.
func NewIndex(doc *domain.Document) *Index {
	return &Index{doc: doc, log: applog.WithComponent("category")}
}

// Rebind points the index at a different document, e.g. after load.
func (x *Index) Rebind(doc *domain.Document) { x.doc = doc }

// List returns the palette in document order.
func (x *Index) List() []domain.Category {
	out := make([]domain.Category, len(x.doc.Categories))
	copy(out, x.doc.Categories)
	return out
}

// ColorOf returns the display color for a category id, or the fallback
// color when the id is unknown.
func (x *Index) ColorOf(id string) string {
	if c := x.doc.CategoryByID(id); c != nil {
		return c.Color
	}
	return "#999999"
}

// PrimaryColorOfCard returns the color of the card's first category.
// The router uses this to color connections by their source card.
func (x *Index) PrimaryColorOfCard(c *domain.Card) string {
	if c == nil || len(c.CategoryIDs) == 0 {
		return "#999999"
	}
	return x.ColorOf(c.CategoryIDs[0])
}

// Add appends a category with a fresh id and returns it.
func (x *Index) Add(name, color string) domain.Category {
	c := domain.Category{ID: domain.NewID(), Name: name, Color: color}
	x.doc.Categories = append(x.doc.Categories, c)
	x.doc.Touch()
	return c
}

// Rename updates a category's display name; unknown ids no-op.
func (x *Index) Rename(id, name string) {
	if c := x.doc.CategoryByID(id); c != nil {
		c.Name = name
		x.doc.Touch()
	}
}

// Recolor updates a category's color; unknown ids no-op.
func (x *Index) Recolor(id, color string) {
	if c := x.doc.CategoryByID(id); c != nil {
		c.Color = color
		x.doc.Touch()
	}
}

// Delete removes a category and repairs every reference: cards left
// with an empty category list are reassigned to the first remaining
// category, and checklist items pointing at the deleted category lose
// their (purely visual) category. The last category cannot be deleted.
func (x *Index) Delete(id string) error {
	if len(x.doc.Categories) <= 1 {
		return ErrLastCategory
	}
	idx := -1
	for i := range x.doc.Categories {
		if x.doc.Categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil // already gone
	}
	x.doc.Categories = append(x.doc.Categories[:idx], x.doc.Categories[idx+1:]...)
	fallback := x.doc.Categories[0].ID

	reassigned := 0
	for i := range x.doc.Cards {
		card := &x.doc.Cards[i]
		kept := card.CategoryIDs[:0]
		for _, cid := range card.CategoryIDs {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		card.CategoryIDs = kept
		if len(card.CategoryIDs) == 0 {
			card.CategoryIDs = []string{fallback}
			reassigned++
		}
		for j := range card.Checklist {
			if card.Checklist[j].CategoryID == id {
				card.Checklist[j].CategoryID = ""
			}
		}
	}
	if reassigned > 0 {
		x.log.Info("category deleted, cards reassigned",
			slog.String("category", id), slog.Int("cards", reassigned))
	}
	x.doc.Touch()
	return nil
}

// AssignToCard adds a category to a card's membership list if not
// already present. Unknown card or category ids no-op.
func (x *Index) AssignToCard(cardID, categoryID string) {
	card := x.doc.CardByID(cardID)
	if card == nil || x.doc.CategoryByID(categoryID) == nil {
		return
	}
	for _, cid := range card.CategoryIDs {
		if cid == categoryID {
			return
		}
	}
	card.CategoryIDs = append(card.CategoryIDs, categoryID)
	x.doc.Touch()
}

// UnassignFromCard removes a category from a card, keeping the
// membership list non-empty: removing the last one reassigns to the
// first category in the palette.
func (x *Index) UnassignFromCard(cardID, categoryID string) {
	card := x.doc.CardByID(cardID)
	if card == nil {
		return
	}
	kept := card.CategoryIDs[:0]
	for _, cid := range card.CategoryIDs {
		if cid != categoryID {
			kept = append(kept, cid)
		}
	}
	card.CategoryIDs = kept
	if len(card.CategoryIDs) == 0 && len(x.doc.Categories) > 0 {
		card.CategoryIDs = []string{x.doc.Categories[0].ID}
	}
	x.doc.Touch()
}

// CardsIn returns the ids of all cards belonging to the category.
func (x *Index) CardsIn(categoryID string) []string {
	var out []string
	for i := range x.doc.Cards {
		for _, cid := range x.doc.Cards[i].CategoryIDs {
			if cid == categoryID {
				out = append(out, x.doc.Cards[i].ID)
				break
			}
		}
	}
	return out
}
