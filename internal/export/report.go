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
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"visualdoc/internal/category"
	"visualdoc/internal/domain"
)

// BuildReport renders the document as a plain-text outline: cards
// grouped by primary category, checklist progress, free texts and
// connection pairs. The output is meant for pasting into mails and
// tickets, so it stays ASCII-ish and stable.
func BuildReport(doc *domain.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", doc.ProjectName, strings.Repeat("=", max(len(doc.ProjectName), 1)))

	cats := category.NewIndex(doc)
	for _, cat := range cats.List() {
		ids := cats.CardsIn(cat.ID)
		if len(ids) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n", cat.Name, strings.Repeat("-", len(cat.Name)))
		for _, id := range ids {
			c := doc.CardByID(id)
			if c == nil {
				continue
			}
			done, total := c.ChecklistProgress()
			if total > 0 {
				fmt.Fprintf(&b, "* %s (%d/%d)\n", c.Title, done, total)
			} else {
				fmt.Fprintf(&b, "* %s\n", c.Title)
			}
			if c.Details != "" {
				fmt.Fprintf(&b, "  %s\n", strings.ReplaceAll(c.Details, "\n", "\n  "))
			}
			for i := range c.Checklist {
				k := &c.Checklist[i]
				mark := " "
				if k.Completed {
					mark = "x"
				}
				fmt.Fprintf(&b, "  [%s] %s\n", mark, k.Name)
			}
		}
		b.WriteString("\n")
	}

	if len(doc.Texts) > 0 {
		b.WriteString("Notes\n-----\n")
		for i := range doc.Texts {
			fmt.Fprintf(&b, "* %s\n", strings.ReplaceAll(doc.Texts[i].Content, "\n", " "))
		}
		b.WriteString("\n")
	}

	if len(doc.Connections) > 0 {
		b.WriteString("Connections\n-----------\n")
		for i := range doc.Connections {
			conn := &doc.Connections[i]
			fmt.Fprintf(&b, "* %s -> %s\n", endpointLabel(doc, conn.From), endpointLabel(doc, conn.To))
		}
	}
	return b.String()
}

// WriteReport writes the text report to a file.
func WriteReport(doc *domain.Document, outPath string) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(BuildReport(doc)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// CopyReport puts the text report on the OS clipboard.
func CopyReport(doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if err := clipboard.WriteAll(BuildReport(doc)); err != nil {
		return fmt.Errorf("copy report: %w", err)
	}
	return nil
}

func endpointLabel(doc *domain.Document, ep domain.Endpoint) string {
	c := doc.CardByID(ep.CardID)
	if c == nil {
		return ep.CardID
	}
	if ep.ChecklistID != "" {
		if k := c.ChecklistItemByID(ep.ChecklistID); k != nil {
			return fmt.Sprintf("%s / %s", c.Title, k.Name)
		}
	}
	return c.Title
}
