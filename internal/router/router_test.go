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
	"testing"

	"visualdoc/internal/domain"
	"visualdoc/internal/scene"
	"visualdoc/internal/vector"
)

func newTestRouter() (*Router, *scene.Store) {
	st := scene.NewStore(twoCardDoc())
	return New(st), st
}

func TestCreateRejectsSelfLoop(t *testing.T) {
	r, st := newTestRouter()
	if _, err := r.Create(domain.Endpoint{CardID: "a"}, domain.Endpoint{CardID: "a"}); !errors.Is(err, ErrSelfLoop) {
		t.Fatalf("err = %v, want ErrSelfLoop", err)
	}
	if len(st.Doc().Connections) != 0 {
		t.Fatal("self-loop stored")
	}
	// same card, different checklist anchors: allowed
	st.Doc().Cards[0].Checklist = []domain.ChecklistItem{{ID: "k1"}, {ID: "k2"}}
	if _, err := r.Create(
		domain.Endpoint{CardID: "a", ChecklistID: "k1"},
		domain.Endpoint{CardID: "a", ChecklistID: "k2"},
	); err != nil {
		t.Fatalf("distinct checklist anchors must be allowed: %v", err)
	}
}

func TestCreateRejectsDuplicatesEitherDirection(t *testing.T) {
	r, st := newTestRouter()
	if _, err := r.Create(domain.Endpoint{CardID: "a"}, domain.Endpoint{CardID: "b"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := r.Create(domain.Endpoint{CardID: "a"}, domain.Endpoint{CardID: "b"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("same direction: err = %v", err)
	}
	if _, err := r.Create(domain.Endpoint{CardID: "b"}, domain.Endpoint{CardID: "a"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("reversed direction: err = %v", err)
	}
	if len(st.Doc().Connections) != 1 {
		t.Fatalf("stored %d connections, want 1", len(st.Doc().Connections))
	}
}

func TestCreateRejectsMissingCard(t *testing.T) {
	r, _ := newTestRouter()
	if _, err := r.Create(domain.Endpoint{CardID: "a"}, domain.Endpoint{CardID: "ghost"}); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("err = %v, want ErrCardNotFound", err)
	}
}

func TestConnectFromDrop(t *testing.T) {
	r, st := newTestRouter()
	// drop on card b's body -> automatic anchoring
	id, err := r.ConnectFromDrop(domain.Endpoint{CardID: "a"}, vector.Pt{X: 600, Y: 150})
	if err != nil {
		t.Fatalf("drop on card: %v", err)
	}
	conn := st.Doc().Connections[st.ConnectionIndexByID(id)]
	if conn.To.CardID != "b" || conn.To.FixedSide != "" || conn.To.FixedPoint != nil {
		t.Fatalf("drop endpoint = %+v, want plain automatic", conn.To)
	}

	// drop on empty canvas -> nothing created
	if _, err := r.ConnectFromDrop(domain.Endpoint{CardID: "a"}, vector.Pt{X: 5000, Y: 5000}); err == nil {
		t.Fatal("empty-canvas drop must fail")
	}
	if len(st.Doc().Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(st.Doc().Connections))
	}
}

func TestConnectFromDropOnSideConnector(t *testing.T) {
	r, st := newTestRouter()
	// b's left side midpoint is (500,150)
	id, err := r.ConnectFromDrop(domain.Endpoint{CardID: "a"}, vector.Pt{X: 500, Y: 150})
	if err != nil {
		t.Fatalf("drop on side: %v", err)
	}
	conn := st.Doc().Connections[st.ConnectionIndexByID(id)]
	if conn.To.FixedSide != domain.SideLeft {
		t.Fatalf("side = %q, want left", conn.To.FixedSide)
	}
}

func TestWaypointOperations(t *testing.T) {
	r, st := newTestRouter()
	r.Create(domain.Endpoint{CardID: "a"}, domain.Endpoint{CardID: "b"})

	r.AddWaypoint(0, domain.Point{X: 300, Y: 50})
	r.AddWaypoint(0, domain.Point{X: 400, Y: 150})
	if got := st.Doc().Connections[0].Waypoints; len(got) != 2 {
		t.Fatalf("waypoints = %v", got)
	}
	r.RemoveWaypoint(0, 0)
	if got := st.Doc().Connections[0].Waypoints; len(got) != 1 || got[0].X != 400 {
		t.Fatalf("after remove: %v", got)
	}
	r.ClearWaypoints(0)
	if len(st.Doc().Connections[0].Waypoints) != 0 {
		t.Fatal("clear failed")
	}
	// out-of-range indices are silent no-ops
	r.AddWaypoint(9, domain.Point{})
	r.RemoveWaypoint(0, 5)
	r.ClearWaypoints(-1)
}

func TestResetEndpoints(t *testing.T) {
	r, st := newTestRouter()
	r.Create(
		domain.Endpoint{CardID: "a", FixedSide: domain.SideTop},
		domain.Endpoint{CardID: "b", FixedPoint: &domain.Point{X: 1, Y: 2}},
	)
	r.ResetEndpoints(0)
	conn := st.Doc().Connections[0]
	if conn.From.FixedSide != "" || conn.To.FixedPoint != nil {
		t.Fatalf("overrides not cleared: %+v", conn)
	}
	if conn.From.CardID != "a" || conn.To.CardID != "b" {
		t.Fatal("logical anchors must survive a reset")
	}
}
