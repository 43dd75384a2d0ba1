/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package router

import (
	"errors"
	"log/slog"

	"visualdoc/internal/domain"
	applog "visualdoc/internal/log"
	"visualdoc/internal/scene"
	"visualdoc/internal/vector"
)

var (
	// ErrSelfLoop rejects connections whose ends resolve to the same
	// (card, checklist) pair.
	ErrSelfLoop = errors.New("connection endpoints are identical")
	// ErrDuplicate rejects a second connection over the same unordered
	// endpoint pair.
	ErrDuplicate = errors.New("connection already exists")
	// ErrCardNotFound rejects endpoints naming a missing card.
	ErrCardNotFound = errors.New("endpoint card not found")
)

// Router validates and mutates the document's connection list.
type Router struct {
	store *scene.Store
	log   *slog.Logger

	drag *endpointDrag
}

// New builds a router over the given store.
func New(store *scene.Store) *Router {
	return &Router{store: store, log: applog.WithComponent("router")}
}

// Create validates and stores a new connection between two endpoints.
// Self-loops and duplicates (in either direction) are rejected.
func (r *Router) Create(from, to domain.Endpoint) (string, error) {
	doc := r.store.Doc()
	if doc.CardByID(from.CardID) == nil || doc.CardByID(to.CardID) == nil {
		return "", ErrCardNotFound
	}
	if from.SameAnchor(to) {
		return "", ErrSelfLoop
	}
	if r.exists(from, to, -1) {
		return "", ErrDuplicate
	}
	id := r.store.AddConnection(domain.Connection{
		From:      from.Clone(),
		To:        to.Clone(),
		Waypoints: []domain.Point{},
	})
	r.log.Debug("connection created",
		slog.String("id", id), slog.String("from", from.CardID), slog.String("to", to.CardID))
	return id, nil
}

// exists reports whether a connection over the same unordered anchor
// pair is present, ignoring the connection at skipIdx (so a re-anchor
// does not collide with itself).
func (r *Router) exists(a, b domain.Endpoint, skipIdx int) bool {
	for i := range r.store.Doc().Connections {
		if i == skipIdx {
			continue
		}
		c := &r.store.Doc().Connections[i]
		if (c.From.SameAnchor(a) && c.To.SameAnchor(b)) ||
			(c.From.SameAnchor(b) && c.To.SameAnchor(a)) {
			return true
		}
	}
	return false
}

// ConnectFromDrop completes a connecting drag: it probes the drop
// point and creates a connection from the gesture source to whatever
// connector or card was hit. Dropping on empty canvas, or resolving to
// a self-loop or duplicate, creates nothing.
func (r *Router) ConnectFromDrop(from domain.Endpoint, drop vector.Pt) (string, error) {
	to, ok := endpointAt(r.store.Doc(), drop)
	if !ok {
		return "", ErrCardNotFound
	}
	return r.Create(from, to)
}

// endpointAt converts a hit-test result into a logical endpoint.
// Checklist connectors give tier 2, side connectors tier 3, a card
// body tier 4 (automatic).
func endpointAt(doc *domain.Document, p vector.Pt) (domain.Endpoint, bool) {
	hit := scene.HitTest(doc, p)
	switch hit.Kind {
	case scene.HitChecklistConnector:
		return domain.Endpoint{CardID: hit.ID, ChecklistID: hit.ChecklistID}, true
	case scene.HitCardSide:
		return domain.Endpoint{CardID: hit.ID, FixedSide: hit.Side}, true
	case scene.HitCard:
		return domain.Endpoint{CardID: hit.ID}, true
	}
	return domain.Endpoint{}, false
}

// AddWaypoint inserts a user waypoint at the end of the connection's
// waypoint list. Out-of-range indices no-op.
func (r *Router) AddWaypoint(connIdx int, p domain.Point) {
	conn := r.conn(connIdx)
	if conn == nil {
		return
	}
	conn.Waypoints = append(conn.Waypoints, p)
	r.store.Doc().Touch()
}

// RemoveWaypoint deletes waypoint wpIdx from the connection.
func (r *Router) RemoveWaypoint(connIdx, wpIdx int) {
	conn := r.conn(connIdx)
	if conn == nil || wpIdx < 0 || wpIdx >= len(conn.Waypoints) {
		return
	}
	conn.Waypoints = append(conn.Waypoints[:wpIdx], conn.Waypoints[wpIdx+1:]...)
	r.store.Doc().Touch()
}

// ClearWaypoints removes every waypoint from the connection.
func (r *Router) ClearWaypoints(connIdx int) {
	conn := r.conn(connIdx)
	if conn == nil || len(conn.Waypoints) == 0 {
		return
	}
	conn.Waypoints = conn.Waypoints[:0]
	r.store.Doc().Touch()
}

// ResetEndpoints clears all manual overrides on both ends, returning
// the connection to fully automatic routing.
func (r *Router) ResetEndpoints(connIdx int) {
	conn := r.conn(connIdx)
	if conn == nil {
		return
	}
	conn.From.FixedPoint = nil
	conn.From.FixedSide = ""
	conn.To.FixedPoint = nil
	conn.To.FixedSide = ""
	r.store.Doc().Touch()
}

func (r *Router) conn(idx int) *domain.Connection {
	doc := r.store.Doc()
	if idx < 0 || idx >= len(doc.Connections) {
		return nil
	}
	return &doc.Connections[idx]
}
