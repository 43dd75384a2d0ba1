/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package router resolves connection endpoints to canvas points,
// builds smooth paths through user waypoints, and handles interactive
// re-anchoring with atomic rollback on invalid drops.
package router

import (
	"math"

	"visualdoc/internal/domain"
	"visualdoc/internal/scene"
	"visualdoc/internal/vector"
)

// Anchor resolution walks a strict priority ladder per endpoint:
//
//	1. manual fixed point        — used verbatim
//	2. checklist-item connector  — center of the item's connector
//	3. manual fixed side         — midpoint of that card side
//	4. automatic side selection  — from the two cards' center delta
//
// Each tier degrades to the next when its data is missing; tier 4
// always succeeds as long as both cards exist.

// ResolveEndpoint resolves one endpoint against the document. other is
// the opposite endpoint, needed only for tier-4 side selection.
func ResolveEndpoint(doc *domain.Document, ep, other domain.Endpoint) (vector.Pt, bool) {
	if ep.FixedPoint != nil {
		return vector.Pt{X: ep.FixedPoint.X, Y: ep.FixedPoint.Y}, true
	}
	card := doc.CardByID(ep.CardID)
	if card == nil {
		return vector.Pt{}, false
	}
	if ep.ChecklistID != "" {
		if pt, ok := scene.ChecklistConnectorPoint(card, ep.ChecklistID); ok {
			return pt, true
		}
		// stale checklist reference: fall through to side resolution
	}
	if ep.FixedSide.Valid() {
		return scene.SideConnectorPoint(card, ep.FixedSide), true
	}
	otherCard := doc.CardByID(other.CardID)
	if otherCard == nil {
		// lone card: no delta to derive a side from, attach at center
		return scene.CardRect(card).Center(), true
	}
	return scene.SideConnectorPoint(card, autoSide(card, otherCard)), true
}

// autoSide picks the side of card facing toward other. Horizontal
// dominance wins ties.
func autoSide(card, other *domain.Card) domain.Side {
	c := scene.CardRect(card).Center()
	o := scene.CardRect(other).Center()
	dx := o.X - c.X
	dy := o.Y - c.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return domain.SideRight
		}
		return domain.SideLeft
	}
	if dy >= 0 {
		return domain.SideBottom
	}
	return domain.SideTop
}

// ResolveConnection resolves both endpoints of a connection. ok is
// false when either side cannot be resolved (its card is gone).
func ResolveConnection(doc *domain.Document, conn *domain.Connection) (from, to vector.Pt, ok bool) {
	from, okF := ResolveEndpoint(doc, conn.From, conn.To)
	to, okT := ResolveEndpoint(doc, conn.To, conn.From)
	return from, to, okF && okT
}
