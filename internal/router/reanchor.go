/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package router

import (
	"visualdoc/internal/domain"
	"visualdoc/internal/scene"
	"visualdoc/internal/vector"
)

// End names which side of a connection an endpoint drag grabs.
type End int

const (
	EndFrom End = iota
	EndTo
)

// endpointDrag is the transient state of an interactive re-anchor:
// the dragged end plus a full copy of its pre-drag endpoint, restored
// verbatim when the drop is invalid.
type endpointDrag struct {
	connIdx  int
	end      End
	original domain.Endpoint
}

// BeginEndpointDrag starts re-anchoring one end of a connection.
// Returns false when another endpoint drag is active or the index is
// out of range.
func (r *Router) BeginEndpointDrag(connIdx int, end End) bool {
	if r.drag != nil {
		return false
	}
	conn := r.conn(connIdx)
	if conn == nil {
		return false
	}
	ep := conn.From
	if end == EndTo {
		ep = conn.To
	}
	r.drag = &endpointDrag{connIdx: connIdx, end: end, original: ep.Clone()}
	return true
}

// MoveEndpointDrag tracks the pointer by setting the manual fixed
// point live, so the path re-routes on every move event.
func (r *Router) MoveEndpointDrag(p vector.Pt) {
	if r.drag == nil {
		return
	}
	conn := r.conn(r.drag.connIdx)
	if conn == nil {
		return
	}
	ep := endpointOf(conn, r.drag.end)
	ep.FixedPoint = &domain.Point{X: p.X, Y: p.Y}
}

// EndEndpointDrag resolves the drop target and re-anchors the dragged
// end, clearing the manual point override. Any invalid outcome — no
// connector under the pointer, a self-loop, or a duplicate — rolls the
// endpoint back to its exact pre-drag state, override fields included.
// Returns true when the re-anchor was applied.
func (r *Router) EndEndpointDrag(drop vector.Pt) bool {
	if r.drag == nil {
		return false
	}
	drag := r.drag
	r.drag = nil
	conn := r.conn(drag.connIdx)
	if conn == nil {
		return false
	}

	target, ok := endpointAt(r.store.Doc(), drop)
	if !ok {
		r.rollback(conn, drag)
		return false
	}
	other := conn.To
	if drag.end == EndTo {
		other = conn.From
	}
	if target.SameAnchor(other) {
		r.rollback(conn, drag)
		return false
	}
	if r.exists(target, other, drag.connIdx) {
		r.rollback(conn, drag)
		return false
	}

	*endpointOf(conn, drag.end) = target
	r.store.Doc().Touch()
	r.log.Debug("endpoint re-anchored")
	return true
}

// CancelEndpointDrag aborts the drag and restores the endpoint.
func (r *Router) CancelEndpointDrag() {
	if r.drag == nil {
		return
	}
	drag := r.drag
	r.drag = nil
	if conn := r.conn(drag.connIdx); conn != nil {
		r.rollback(conn, drag)
	}
}

func (r *Router) rollback(conn *domain.Connection, drag *endpointDrag) {
	*endpointOf(conn, drag.end) = drag.original.Clone()
	r.log.Debug("endpoint drag rolled back")
}

func endpointOf(conn *domain.Connection, end End) *domain.Endpoint {
	if end == EndTo {
		return &conn.To
	}
	return &conn.From
}

// EndpointRect returns a small grab box around a resolved endpoint,
// used by the view to hit-test endpoint handles.
func EndpointRect(doc *domain.Document, conn *domain.Connection, end End) (vector.Rect, bool) {
	var pt vector.Pt
	var ok bool
	if end == EndFrom {
		pt, ok = ResolveEndpoint(doc, conn.From, conn.To)
	} else {
		pt, ok = ResolveEndpoint(doc, conn.To, conn.From)
	}
	if !ok {
		return vector.Rect{}, false
	}
	const half = scene.ConnectorRadius
	return vector.R(pt.X-half, pt.Y-half, 2*half, 2*half), true
}
