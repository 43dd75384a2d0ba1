/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package router

import (
	"math"

	"visualdoc/internal/domain"
	"visualdoc/internal/vector"
)

// CatmullRomTension shapes the spline through waypoints. 0 gives
// straight segments, 1 the loosest curve.
const CatmullRomTension = 0.5

// BuildPath constructs the drawable path for a connection: a single
// cubic Bezier when it has no waypoints, otherwise a Catmull-Rom
// spline through [start, waypoints..., end]. ok is false when an
// endpoint cannot be resolved.
func BuildPath(doc *domain.Document, conn *domain.Connection) (*vector.Path, bool) {
	from, to, ok := ResolveConnection(doc, conn)
	if !ok {
		return nil, false
	}
	p := &vector.Path{}
	p.MoveTo(from.X, from.Y)
	if len(conn.Waypoints) == 0 {
		c1, c2 := directControls(from, to)
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, to.X, to.Y)
		return p, true
	}
	pts := make([]vector.Pt, 0, len(conn.Waypoints)+2)
	pts = append(pts, from)
	for _, w := range conn.Waypoints {
		pts = append(pts, vector.Pt{X: w.X, Y: w.Y})
	}
	pts = append(pts, to)
	catmullRom(p, pts, CatmullRomTension)
	return p, true
}

// directControls places both control points at the midpoint along the
// dominant axis: horizontal dominance shares the endpoints' Y at the
// mid X, vertical is symmetric. Ties count as horizontal.
func directControls(from, to vector.Pt) (c1, c2 vector.Pt) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if math.Abs(dx) >= math.Abs(dy) {
		midX := from.X + dx/2
		return vector.Pt{X: midX, Y: from.Y}, vector.Pt{X: midX, Y: to.Y}
	}
	midY := from.Y + dy/2
	return vector.Pt{X: from.X, Y: midY}, vector.Pt{X: to.X, Y: midY}
}

// catmullRom appends cubic segments through every point after the
// first, deriving control points from the Catmull-Rom neighbors:
//
//	c1 = p1 + (p2-p0) * tension/3
//	c2 = p2 - (p3-p1) * tension/3
//
// Boundary neighbors are clamped to the sequence ends, so the curve
// starts and ends exactly at the first and last point.
func catmullRom(p *vector.Path, pts []vector.Pt, tension float64) {
	n := len(pts)
	for i := 0; i < n-1; i++ {
		p0 := pts[clampIdx(i-1, n)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[clampIdx(i+2, n)]

		c1 := vector.Pt{
			X: p1.X + (p2.X-p0.X)*tension/3,
			Y: p1.Y + (p2.Y-p0.Y)*tension/3,
		}
		c2 := vector.Pt{
			X: p2.X - (p3.X-p1.X)*tension/3,
			Y: p2.Y - (p3.Y-p1.Y)*tension/3,
		}
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
	}
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
