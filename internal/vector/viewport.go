/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Viewport maps between screen pixels and canvas coordinates given the
// current pan offset and zoom factor.
//
//	canvas = (screen - origin - pan) / zoom
//	screen = canvas*zoom + pan + origin
//
// Pan is unconstrained; zoom is clamped to [ZoomMin, ZoomMax].
type Viewport struct {
	Origin  Pt // top-left of the canvas container in screen space
	Pan     Pt
	ZoomMin float64
	ZoomMax float64

	zoom float64
}

// NewViewport returns a viewport at zoom 1 with the given bounds.
// Non-positive or inverted bounds fall back to [0.1, 3].
func NewViewport(zoomMin, zoomMax float64) *Viewport {
	if zoomMin <= 0 || zoomMax <= 0 || zoomMin > zoomMax {
		zoomMin, zoomMax = 0.1, 3.0
	}
	return &Viewport{ZoomMin: zoomMin, ZoomMax: zoomMax, zoom: 1}
}

// Zoom returns the current zoom factor, always within bounds.
func (v *Viewport) Zoom() float64 {
	if v.zoom == 0 {
		return 1
	}
	return v.zoom
}

// SetZoom clamps z into [ZoomMin, ZoomMax] and applies it.
func (v *Viewport) SetZoom(z float64) {
	if z < v.ZoomMin {
		z = v.ZoomMin
	}
	if z > v.ZoomMax {
		z = v.ZoomMax
	}
	v.zoom = z
}

// ZoomAt applies the zoom factor while keeping the canvas point under
// the given screen point stationary.
func (v *Viewport) ZoomAt(screen Pt, z float64) {
	anchor := v.ToCanvas(screen)
	v.SetZoom(z)
	// re-solve pan so that anchor maps back to the same screen point
	v.Pan = Pt{
		X: screen.X - v.Origin.X - anchor.X*v.Zoom(),
		Y: screen.Y - v.Origin.Y - anchor.Y*v.Zoom(),
	}
}

// PanBy translates the pan offset by a raw screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X += dx
	v.Pan.Y += dy
}

// ToCanvas converts a screen point to canvas space.
func (v *Viewport) ToCanvas(screen Pt) Pt {
	z := v.Zoom()
	return Pt{
		X: (screen.X - v.Origin.X - v.Pan.X) / z,
		Y: (screen.Y - v.Origin.Y - v.Pan.Y) / z,
	}
}

// ToScreen converts a canvas point to screen space.
func (v *Viewport) ToScreen(canvas Pt) Pt {
	z := v.Zoom()
	return Pt{
		X: canvas.X*z + v.Pan.X + v.Origin.X,
		Y: canvas.Y*z + v.Pan.Y + v.Origin.Y,
	}
}
