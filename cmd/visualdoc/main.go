/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"visualdoc/internal/crash"
	"visualdoc/internal/export"
	applog "visualdoc/internal/log"
	"visualdoc/internal/storage"
	"visualdoc/internal/ui"
	"visualdoc/internal/version"
)

var workspaceRoot string

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	var ws *storage.Workspace
	defer func() { crash.Recover(ws, nil) }()

	root := &cobra.Command{
		Use:           "visualdoc",
		Short:         "VisualDoc — cards, connections and notes on an infinite canvas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&workspaceRoot, "workspace", storage.DefaultRoot(),
		"directory holding the .vdoc project files")

	openWS := func() (*storage.Workspace, error) {
		w, err := storage.OpenWorkspace(workspaceRoot)
		if err != nil {
			return nil, err
		}
		ws = w
		return w, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(*cobra.Command, []string) {
			fmt.Println("VisualDoc", version.String())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "open [project]",
		Short: "Launch the desktop editor, optionally opening a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			project := ""
			if len(args) == 1 {
				project = args[0]
			}
			l.Info("launch editor", slog.String("workspace", workspaceRoot), slog.String("project", project))
			return ui.Run(workspaceRoot, project)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "projects",
		Short: "List projects in the workspace",
		RunE: func(*cobra.Command, []string) error {
			w, err := openWS()
			if err != nil {
				return err
			}
			names, err := w.ListProjects()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No projects in", w.Root)
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	})

	exportCmd := &cobra.Command{
		Use:   "export <project> <svg|pdf|png|txt> [out]",
		Short: "Export a project to SVG, PDF, PNG or a text report",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			w, err := openWS()
			if err != nil {
				return err
			}
			doc, err := w.Load(args[0])
			if err != nil {
				return err
			}
			format := strings.ToLower(args[1])
			out := filepath.Join(w.Root, "exports", args[0]+"."+format)
			if len(args) == 3 {
				out = args[2]
			}
			l.Info("export", slog.String("project", args[0]), slog.String("format", format), slog.String("out", out))
			switch format {
			case "svg":
				err = export.ExportSVG(doc, out, export.SVGOptions{IncludeLabels: true})
			case "pdf":
				err = export.ExportPDF(doc, out, export.PDFOptions{IncludeLabels: true})
			case "png":
				err = export.ExportPNG(doc, out, export.PNGOptions{Scale: 2, IncludeLabels: true})
			case "txt":
				err = export.WriteReport(doc, out)
			default:
				return fmt.Errorf("unknown export format %q", format)
			}
			if err != nil {
				return err
			}
			fmt.Println("Exported", out)
			return nil
		},
	}
	root.AddCommand(exportCmd)

	root.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWS()
			if err != nil {
				return err
			}
			db, err := storage.OpenIndex(w.Root)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			ctx := cmd.Context()
			// index may be stale or empty on first run; refresh it
			names, err := w.ListProjects()
			if err != nil {
				return err
			}
			for _, n := range names {
				doc, err := w.Load(n)
				if err != nil {
					l.Warn("skip unreadable project", slog.String("project", n), slog.Any("err", err))
					continue
				}
				if err := storage.ReindexDocument(ctx, db, doc); err != nil {
					return err
				}
			}
			hits, err := storage.Search(ctx, db, "", args[0])
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Println("No matches")
				return nil
			}
			for _, h := range hits {
				fmt.Printf("%s\t%s\t%s\n", h.Project, h.Kind, h.Snippet)
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project file (backups are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			w, err := openWS()
			if err != nil {
				return err
			}
			if err := w.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		l.Error("command failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
