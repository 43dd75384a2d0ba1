/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands for connection curves.

import (
	"fmt"
	"strings"
)

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [6]float64 // enough for cubic; unused slots are zero
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// SVGPathData renders the path as SVG path data ("M x y C ..."),
// rounded to two decimals for stable output.
func (p *Path) SVGPathData() string {
	var b strings.Builder
	for i, c := range p.Cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c.Op {
		case MoveTo:
			fmt.Fprintf(&b, "M %s %s", f(c.Data[0]), f(c.Data[1]))
		case LineTo:
			fmt.Fprintf(&b, "L %s %s", f(c.Data[0]), f(c.Data[1]))
		case CubicTo:
			fmt.Fprintf(&b, "C %s %s, %s %s, %s %s",
				f(c.Data[0]), f(c.Data[1]), f(c.Data[2]), f(c.Data[3]), f(c.Data[4]), f(c.Data[5]))
		case Close:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func f(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// Flatten samples the path into a polyline with the given number of
// segments per cubic. Used by raster exporters and hit testing.
func (p *Path) Flatten(segs int) []Pt {
	if segs < 1 {
		segs = 8
	}
	var out []Pt
	cur := Pt{}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			cur = Pt{c.Data[0], c.Data[1]}
			out = append(out, cur)
		case LineTo:
			cur = Pt{c.Data[0], c.Data[1]}
			out = append(out, cur)
		case CubicTo:
			p0 := cur
			p1 := Pt{c.Data[0], c.Data[1]}
			p2 := Pt{c.Data[2], c.Data[3]}
			p3 := Pt{c.Data[4], c.Data[5]}
			for i := 1; i <= segs; i++ {
				t := float64(i) / float64(segs)
				out = append(out, cubicAt(p0, p1, p2, p3, t))
			}
			cur = p3
		case Close:
			if len(out) > 0 {
				out = append(out, out[0])
			}
		}
	}
	return out
}

func cubicAt(p0, p1, p2, p3 Pt, t float64) Pt {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Pt{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Bounds returns an axis-aligned bounding box approximated from the
// path's anchor and control points. Sufficient for viewport fitting.
func (p *Path) Bounds() Rect {
	minX, minY := +1e18, +1e18
	maxX, maxY := -1e18, -1e18
	grow := func(x, y float64) {
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			grow(c.Data[0], c.Data[1])
		case CubicTo:
			grow(c.Data[0], c.Data[1])
			grow(c.Data[2], c.Data[3])
			grow(c.Data[4], c.Data[5])
		}
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
