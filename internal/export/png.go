/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"visualdoc/internal/category"
	"visualdoc/internal/domain"
	"visualdoc/internal/router"
	"visualdoc/internal/scene"
)

// PNGOptions controls raster export. Scale multiplies canvas units
// into pixels; 1 gives a 1:1 raster.
type PNGOptions struct {
	Scale         float64
	IncludeLabels bool
}

// curveSegments is the polyline resolution per cubic when
// rasterizing connection curves.
const curveSegments = 24

// ExportPNG renders the whole canvas into a single PNG image.
func ExportPNG(doc *domain.Document, outPath string, opt PNGOptions) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}

	bounds := DocumentBounds(doc)
	pixW := int(math.Round(bounds.W * scale))
	pixH := int(math.Round(bounds.H * scale))
	if pixW < 1 || pixH < 1 {
		return fmt.Errorf("degenerate canvas %dx%d", pixW, pixH)
	}
	cats := category.NewIndex(doc)

	dc := gg.NewContext(pixW, pixH)
	dc.SetColor(color.White)
	dc.Clear()
	// map canvas coordinates to pixels
	dc.Scale(scale, scale)
	dc.Translate(-bounds.X, -bounds.Y)
	dc.SetFontFace(basicfont.Face7x13)

	for i := range doc.Columns {
		col := &doc.Columns[i]
		r := scene.ColumnRect(col)
		dc.SetColor(parseHexColor(colOr(col.Color, "#f4f4f4")))
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Fill()
		dc.SetColor(color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
		dc.SetLineWidth(1)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Stroke()
		if opt.IncludeLabels && col.Title != "" {
			dc.SetColor(color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
			dc.DrawString(col.Title, r.X+10, r.Y+20)
		}
	}

	dc.SetColor(color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff})
	dc.SetLineWidth(1.5)
	for i := range doc.Connections {
		p, ok := router.BuildPath(doc, &doc.Connections[i])
		if !ok {
			continue
		}
		pts := p.Flatten(curveSegments)
		for j := 0; j+1 < len(pts); j++ {
			dc.DrawLine(pts[j].X, pts[j].Y, pts[j+1].X, pts[j+1].Y)
			dc.Stroke()
		}
	}

	for i := range doc.Cards {
		c := &doc.Cards[i]
		r := scene.CardRect(c)
		dc.SetColor(color.White)
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 8)
		dc.Fill()
		dc.SetColor(parseHexColor(cats.PrimaryColorOfCard(c)))
		dc.SetLineWidth(1.5)
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 8)
		dc.Stroke()
		if !opt.IncludeLabels {
			continue
		}
		dc.SetColor(color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff})
		dc.DrawString(c.Title, r.X+12, r.Y+24)
		for j := range c.Checklist {
			row := scene.ChecklistRowRect(c, j)
			label := "[ ] " + c.Checklist[j].Name
			if c.Checklist[j].Completed {
				label = "[x] " + c.Checklist[j].Name
			}
			dc.DrawString(label, row.X+12, row.Y+row.H-7)
		}
	}

	if opt.IncludeLabels {
		for i := range doc.Texts {
			t := &doc.Texts[i]
			fs := t.FontSize
			if fs <= 0 {
				fs = scene.DefaultFontSize
			}
			dc.SetColor(parseHexColor(colOr(t.Color, "#111111")))
			dc.DrawString(t.Content, t.X, t.Y+fs)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
