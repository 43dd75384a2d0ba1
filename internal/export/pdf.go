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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"visualdoc/internal/category"
	"visualdoc/internal/domain"
	"visualdoc/internal/router"
	"visualdoc/internal/scene"
	"visualdoc/internal/vector"
)

// PDFOptions controls PDF export. Units are points; the canvas model
// maps 1:1 onto the page after shifting by the content origin, so a
// single page holds the whole canvas.
type PDFOptions struct {
	IncludeLabels bool
	StrokeWidth   float64
}

// ExportPDF writes the whole canvas as a single-page vector PDF.
// Built-in Helvetica keeps text vector without font embedding.
func ExportPDF(doc *domain.Document, outPath string, opt PDFOptions) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if opt.StrokeWidth <= 0 {
		opt.StrokeWidth = 1.5
	}

	bounds := DocumentBounds(doc)
	// shift model coordinates so the padded content origin is (0,0)
	ox, oy := bounds.X, bounds.Y
	cats := category.NewIndex(doc)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: bounds.W, Ht: bounds.H},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Canvas", doc.ProjectName), false)
	pdf.SetAuthor("VisualDoc", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: bounds.W, Ht: bounds.H})

	for i := range doc.Columns {
		col := &doc.Columns[i]
		r := scene.ColumnRect(col)
		setFillColor(pdf, parseHexColor(colOr(col.Color, "#f4f4f4")))
		setDrawColor(pdf, color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
		pdf.SetLineWidth(1)
		pdf.Rect(r.X-ox, r.Y-oy, r.W, r.H, "FD")
		if opt.IncludeLabels && col.Title != "" {
			pdf.SetFont("Helvetica", "B", 14)
			setTextColor(pdf, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
			pdf.Text(r.X-ox+10, r.Y-oy+20, col.Title)
		}
	}

	setDrawColor(pdf, color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff})
	pdf.SetLineWidth(opt.StrokeWidth)
	for i := range doc.Connections {
		p, ok := router.BuildPath(doc, &doc.Connections[i])
		if !ok {
			continue
		}
		drawPathPDF(pdf, p, ox, oy)
	}

	for i := range doc.Cards {
		c := &doc.Cards[i]
		r := scene.CardRect(c)
		setFillColor(pdf, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		setDrawColor(pdf, parseHexColor(cats.PrimaryColorOfCard(c)))
		pdf.SetLineWidth(opt.StrokeWidth)
		pdf.Rect(r.X-ox, r.Y-oy, r.W, r.H, "FD")
		if !opt.IncludeLabels {
			continue
		}
		setTextColor(pdf, color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff})
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(r.X-ox+12, r.Y-oy+24, c.Title)
		pdf.SetFont("Helvetica", "", 10)
		for j := range c.Checklist {
			row := scene.ChecklistRowRect(c, j)
			label := c.Checklist[j].Name
			if c.Checklist[j].Completed {
				label = "[x] " + label
			} else {
				label = "[ ] " + label
			}
			pdf.Text(row.X-ox+12, row.Y-oy+row.H-7, label)
		}
	}

	if opt.IncludeLabels {
		setTextColor(pdf, color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff})
		for i := range doc.Texts {
			t := &doc.Texts[i]
			fs := t.FontSize
			if fs <= 0 {
				fs = scene.DefaultFontSize
			}
			pdf.SetFont("Helvetica", "", fs)
			pdf.Text(t.X-ox, t.Y-oy+fs, t.Content)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawPathPDF replays a connection path onto the page. gofpdf has no
// path object, so cubics go through CurveBezierCubicTo directly.
func drawPathPDF(pdf *gofpdf.Fpdf, p *vector.Path, ox, oy float64) {
	cur := vector.Pt{}
	for _, c := range p.Cmds {
		switch c.Op {
		case vector.MoveTo:
			cur = vector.Pt{X: c.Data[0], Y: c.Data[1]}
		case vector.LineTo:
			pdf.Line(cur.X-ox, cur.Y-oy, c.Data[0]-ox, c.Data[1]-oy)
			cur = vector.Pt{X: c.Data[0], Y: c.Data[1]}
		case vector.CubicTo:
			pdf.MoveTo(cur.X-ox, cur.Y-oy)
			pdf.CurveBezierCubicTo(
				c.Data[0]-ox, c.Data[1]-oy,
				c.Data[2]-ox, c.Data[3]-oy,
				c.Data[4]-ox, c.Data[5]-oy)
			pdf.DrawPath("D")
			cur = vector.Pt{X: c.Data[4], Y: c.Data[5]}
		}
	}
}

func colOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
