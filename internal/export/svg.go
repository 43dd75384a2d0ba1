/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"visualdoc/internal/category"
	"visualdoc/internal/domain"
	"visualdoc/internal/router"
	"visualdoc/internal/scene"
)

// SVGOptions controls SVG export behavior. The coordinate system is
// the canvas model; a viewBox maps it to the output size.
type SVGOptions struct {
	Background    string // page fill, default white
	ConnectionHue string // stroke for connection curves, default #555555
	IncludeLabels bool   // card titles, checklist rows, text blocks
	StrokeWidth   float64
	CornerRadius  float64
}

// ExportSVG writes the whole canvas as a single SVG file.
func ExportSVG(doc *domain.Document, outPath string, opt SVGOptions) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if opt.Background == "" {
		opt.Background = "#ffffff"
	}
	if opt.ConnectionHue == "" {
		opt.ConnectionHue = "#555555"
	}
	if opt.StrokeWidth <= 0 {
		opt.StrokeWidth = 1.5
	}
	if opt.CornerRadius <= 0 {
		opt.CornerRadius = 8
	}

	bounds := DocumentBounds(doc)
	cats := category.NewIndex(doc)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"%g %g %g %g\">\n",
		bounds.W, bounds.H, bounds.X, bounds.Y, bounds.W, bounds.H)
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n",
		bounds.X, bounds.Y, bounds.W, bounds.H, opt.Background)

	// Columns sit behind everything else.
	for i := range doc.Columns {
		col := &doc.Columns[i]
		r := scene.ColumnRect(col)
		fill := col.Color
		if fill == "" {
			fill = "#f4f4f4"
		}
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"#cccccc\" stroke-width=\"1\"/>\n",
			r.X, r.Y, r.W, r.H, fill)
		if opt.IncludeLabels && col.Title != "" {
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"14\" fill=\"#333\">%s</text>\n",
				r.X+10, r.Y+20, escText(col.Title))
		}
	}

	// Connections go under the cards so curves end at card edges.
	for i := range doc.Connections {
		p, ok := router.BuildPath(doc, &doc.Connections[i])
		if !ok {
			continue
		}
		wf("  <path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			p.SVGPathData(), opt.ConnectionHue, opt.StrokeWidth)
	}

	for i := range doc.Cards {
		c := &doc.Cards[i]
		r := scene.CardRect(c)
		accent := cats.PrimaryColorOfCard(c)
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"#ffffff\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			r.X, r.Y, r.W, r.H, opt.CornerRadius, opt.CornerRadius, accent, opt.StrokeWidth)
		if !opt.IncludeLabels {
			continue
		}
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"16\" fill=\"#111\">%s</text>\n",
			r.X+12, r.Y+24, escText(c.Title))
		for j := range c.Checklist {
			row := scene.ChecklistRowRect(c, j)
			mark := "☐"
			if c.Checklist[j].Completed {
				mark = "☑"
			}
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"#333\">%s %s</text>\n",
				row.X+12, row.Y+row.H-7, mark, escText(c.Checklist[j].Name))
		}
	}

	for i := range doc.Texts {
		t := &doc.Texts[i]
		if !opt.IncludeLabels {
			break
		}
		fill := t.Color
		if fill == "" {
			fill = "#111111"
		}
		fs := t.FontSize
		if fs <= 0 {
			fs = scene.DefaultFontSize
		}
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"%s\">%s</text>\n",
			t.X, t.Y+fs, fs, fill, escText(t.Content))
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
