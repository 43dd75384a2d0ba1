/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a document to SVG, PDF, PNG and a plain-text
// report. Exporters only read the document; they never mutate it.
package export

import (
	"fmt"
	"image/color"

	"visualdoc/internal/domain"
	"visualdoc/internal/router"
	"visualdoc/internal/scene"
	"visualdoc/internal/vector"
)

// Margin is the canvas padding added around the content bounding box
// in every exporter, in canvas units.
const Margin = 40.0

// DocumentBounds computes the bounding box of everything on the
// canvas, padded by Margin. An empty document yields a small page
// rather than a zero rect.
func DocumentBounds(doc *domain.Document) vector.Rect {
	var (
		bounds vector.Rect
		seeded bool
	)
	grow := func(r vector.Rect) {
		if !seeded {
			bounds = r
			seeded = true
			return
		}
		bounds = bounds.Union(r)
	}
	for i := range doc.Columns {
		grow(scene.ColumnRect(&doc.Columns[i]))
	}
	for i := range doc.Cards {
		grow(scene.CardRect(&doc.Cards[i]))
	}
	for i := range doc.Texts {
		grow(scene.TextRect(&doc.Texts[i]))
	}
	for i := range doc.Connections {
		if p, ok := router.BuildPath(doc, &doc.Connections[i]); ok {
			grow(p.Bounds())
		}
	}
	if !seeded {
		bounds = vector.R(0, 0, 200, 200)
	}
	return vector.R(bounds.X-Margin, bounds.Y-Margin, bounds.W+2*Margin, bounds.H+2*Margin)
}

// parseHexColor decodes "#rgb" and "#rrggbb" strings. Anything else
// falls back to a neutral gray, matching the canvas renderer.
func parseHexColor(s string) color.RGBA {
	fallback := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]
	var r, g, b uint8
	switch len(hex) {
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return fallback
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return fallback
		}
	default:
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
