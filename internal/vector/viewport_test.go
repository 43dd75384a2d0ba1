/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestToCanvasRoundTrip(t *testing.T) {
	v := NewViewport(0.1, 3)
	v.Origin = Pt{12, 34}
	v.Pan = Pt{-50, 80}
	v.SetZoom(1.5)

	screen := Pt{400, 300}
	canvas := v.ToCanvas(screen)
	back := v.ToScreen(canvas)
	if math.Abs(back.X-screen.X) > 1e-9 || math.Abs(back.Y-screen.Y) > 1e-9 {
		t.Fatalf("round trip drift: %v -> %v -> %v", screen, canvas, back)
	}
}

func TestToCanvasFormula(t *testing.T) {
	v := NewViewport(0.1, 3)
	v.Pan = Pt{100, 50}
	v.SetZoom(2)
	got := v.ToCanvas(Pt{300, 250})
	want := Pt{100, 100} // (300-100)/2, (250-50)/2
	if got != want {
		t.Fatalf("ToCanvas = %v, want %v", got, want)
	}
}

func TestSetZoomClamps(t *testing.T) {
	v := NewViewport(0.1, 3)
	v.SetZoom(10)
	if v.Zoom() != 3 {
		t.Fatalf("zoom not clamped high: %v", v.Zoom())
	}
	v.SetZoom(0)
	if v.Zoom() != 0.1 {
		t.Fatalf("zoom not clamped low: %v", v.Zoom())
	}
	v.SetZoom(-5)
	if v.Zoom() != 0.1 {
		t.Fatalf("negative zoom not clamped: %v", v.Zoom())
	}
}

func TestNewViewportBadBoundsFallback(t *testing.T) {
	v := NewViewport(3, 0.1)
	if v.ZoomMin != 0.1 || v.ZoomMax != 3 {
		t.Fatalf("inverted bounds not repaired: %v..%v", v.ZoomMin, v.ZoomMax)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := NewViewport(0.1, 3)
	v.Pan = Pt{30, 40}
	v.SetZoom(1)

	screen := Pt{200, 200}
	before := v.ToCanvas(screen)
	v.ZoomAt(screen, 2)
	after := v.ToCanvas(screen)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Fatalf("anchor drifted: %v -> %v", before, after)
	}
	if v.Zoom() != 2 {
		t.Fatalf("zoom = %v, want 2", v.Zoom())
	}
}

func TestPanBy(t *testing.T) {
	v := NewViewport(0.1, 3)
	v.PanBy(5, -3)
	v.PanBy(5, -3)
	if v.Pan != (Pt{10, -6}) {
		t.Fatalf("Pan = %v", v.Pan)
	}
}
