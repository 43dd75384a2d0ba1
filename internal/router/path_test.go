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
	"testing"

	"visualdoc/internal/domain"
	"visualdoc/internal/vector"
)

func TestDirectBezierHorizontal(t *testing.T) {
	// card A (100,100), card B (500,100), both 200x100:
	// anchors (300,150) and (500,150); controls share Y at mid X 400
	doc := twoCardDoc()
	conn := &domain.Connection{From: domain.Endpoint{CardID: "a"}, To: domain.Endpoint{CardID: "b"}}
	p, ok := BuildPath(doc, conn)
	if !ok {
		t.Fatal("build failed")
	}
	if len(p.Cmds) != 2 || p.Cmds[0].Op != vector.MoveTo || p.Cmds[1].Op != vector.CubicTo {
		t.Fatalf("unexpected command list: %+v", p.Cmds)
	}
	c := p.Cmds[1]
	if c.Data[0] != 400 || c.Data[1] != 150 {
		t.Fatalf("c1 = (%v,%v), want (400,150)", c.Data[0], c.Data[1])
	}
	if c.Data[2] != 400 || c.Data[3] != 150 {
		t.Fatalf("c2 = (%v,%v), want (400,150)", c.Data[2], c.Data[3])
	}
	if c.Data[4] != 500 || c.Data[5] != 150 {
		t.Fatalf("end = (%v,%v), want (500,150)", c.Data[4], c.Data[5])
	}
}

func TestDirectBezierVertical(t *testing.T) {
	doc := domain.NewDocument("t")
	doc.Cards = append(doc.Cards,
		domain.Card{ID: "a", X: 100, Y: 100, Width: 200, Height: 100},
		domain.Card{ID: "b", X: 100, Y: 500, Width: 200, Height: 100},
	)
	conn := &domain.Connection{From: domain.Endpoint{CardID: "a"}, To: domain.Endpoint{CardID: "b"}}
	p, _ := BuildPath(doc, conn)
	c := p.Cmds[1]
	// anchors (200,200) and (200,500); mid Y 350, controls share X
	if c.Data[0] != 200 || c.Data[1] != 350 || c.Data[2] != 200 || c.Data[3] != 350 {
		t.Fatalf("controls = (%v,%v) (%v,%v), want both (200,350)",
			c.Data[0], c.Data[1], c.Data[2], c.Data[3])
	}
}

func TestWaypointSplinePassesThroughInOrder(t *testing.T) {
	doc := twoCardDoc()
	conn := &domain.Connection{
		From:      domain.Endpoint{CardID: "a"},
		To:        domain.Endpoint{CardID: "b"},
		Waypoints: []domain.Point{{X: 300, Y: 50}, {X: 400, Y: 150}},
	}
	p, ok := BuildPath(doc, conn)
	if !ok {
		t.Fatal("build failed")
	}
	// one cubic per segment: start->wp1, wp1->wp2, wp2->end
	if len(p.Cmds) != 4 {
		t.Fatalf("cmd count = %d, want MoveTo + 3 cubics", len(p.Cmds))
	}
	ends := [][2]float64{
		{p.Cmds[1].Data[4], p.Cmds[1].Data[5]},
		{p.Cmds[2].Data[4], p.Cmds[2].Data[5]},
		{p.Cmds[3].Data[4], p.Cmds[3].Data[5]},
	}
	want := [][2]float64{{300, 50}, {400, 150}, {500, 150}}
	for i := range want {
		if ends[i] != want[i] {
			t.Fatalf("segment %d ends at %v, want %v", i, ends[i], want[i])
		}
	}
}

func TestCatmullRomClampedBoundaries(t *testing.T) {
	// With a single waypoint, the first segment's c1 uses the start
	// point as its own previous neighbor: c1 = p0 + (p1-p0)*t/3.
	var p vector.Path
	p.MoveTo(0, 0)
	pts := []vector.Pt{{X: 0, Y: 0}, {X: 60, Y: 0}, {X: 120, Y: 0}}
	catmullRom(&p, pts, 0.5)
	c1x := p.Cmds[1].Data[0]
	want := 0 + (60-0)*0.5/3
	if math.Abs(c1x-want) > 1e-12 {
		t.Fatalf("clamped c1.x = %v, want %v", c1x, want)
	}
	// last segment's c2 uses the end point as its own next neighbor
	c2x := p.Cmds[2].Data[2]
	want = 120 - (120-60)*0.5/3
	if math.Abs(c2x-want) > 1e-12 {
		t.Fatalf("clamped c2.x = %v, want %v", c2x, want)
	}
}

func TestBuildPathStartsAtFromAnchor(t *testing.T) {
	doc := twoCardDoc()
	conn := &domain.Connection{
		From:      domain.Endpoint{CardID: "a", FixedPoint: &domain.Point{X: 7, Y: 9}},
		To:        domain.Endpoint{CardID: "b"},
		Waypoints: []domain.Point{{X: 300, Y: 50}},
	}
	p, _ := BuildPath(doc, conn)
	if p.Cmds[0].Data[0] != 7 || p.Cmds[0].Data[1] != 9 {
		t.Fatalf("path must start at the fixed point, got (%v,%v)",
			p.Cmds[0].Data[0], p.Cmds[0].Data[1])
	}
}
