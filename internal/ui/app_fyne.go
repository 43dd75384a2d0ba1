//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"visualdoc/internal/category"
	"visualdoc/internal/config"
	"visualdoc/internal/crash"
	"visualdoc/internal/domain"
	"visualdoc/internal/export"
	"visualdoc/internal/history"
	applog "visualdoc/internal/log"
	"visualdoc/internal/router"
	"visualdoc/internal/scene"
	"visualdoc/internal/storage"
	"visualdoc/internal/vector"
)

// Run starts the Fyne-based desktop shell. workspaceRoot holds the
// .vdoc project files; project is the name to open immediately, or
// empty to start with a fresh document.
func Run(workspaceRoot, project string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("workspace", workspaceRoot))

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}

	ws, err := storage.OpenWorkspace(workspaceRoot)
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	var doc *domain.Document
	if project != "" {
		doc, err = ws.Load(project)
		if err != nil {
			return fmt.Errorf("open project %q: %w", project, err)
		}
	} else {
		doc = domain.NewDocument("Untitled")
	}
	defer func() { crash.Recover(ws, doc) }()

	fyneApp := app.NewWithID("visualdoc")
	w := fyneApp.NewWindow("VisualDoc")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	store := scene.NewStore(doc)
	selection := scene.NewSelection(store)
	viewport := vector.NewViewport(cfg.Canvas.ZoomMin, cfg.Canvas.ZoomMax)
	hist := history.New(history.DefaultLimit)
	hist.Reset(store.Doc())
	rt := router.New(store)
	cats := category.NewIndex(store.Doc())

	saver := storage.NewDebouncedSaver(ws, time.Duration(cfg.Canvas.AutosaveDebounceMs)*time.Millisecond, func(err error) {
		fyne.Do(func() {
			if err != nil {
				status.SetText("Autosave failed: " + err.Error())
			} else {
				status.SetText("Saved " + time.Now().Format("15:04:05"))
			}
		})
	})

	var docCanvas *DocCanvas
	commit := func() {
		hist.Save(store.Doc())
		saver.Request(store.Doc())
		if docCanvas != nil {
			docCanvas.Refresh()
		}
	}
	engine := scene.NewEngine(store, selection, viewport, commit)
	docCanvas = NewDocCanvas(store, selection, engine, rt, viewport, cats)
	docCanvas.OnChanged = commit
	docCanvas.OnStatus = func(msg string) { status.SetText(msg) }

	restore := func(snap *domain.Document) {
		store.Replace(snap)
		doc = store.Doc()
		cats.Rebind(store.Doc())
		selection.Prune()
		saver.Request(store.Doc())
		docCanvas.Refresh()
	}

	// Category sidebar
	catNames := []string{}
	catIDs := []string{}
	catList := widget.NewList(
		func() int { return len(catNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if int(i) < len(catNames) {
				o.(*widget.Label).SetText(catNames[i])
			}
		},
	)
	refreshCats := func() {
		catNames = catNames[:0]
		catIDs = catIDs[:0]
		for _, c := range cats.List() {
			catNames = append(catNames, fmt.Sprintf("%s (%d)", c.Name, len(cats.CardsIn(c.ID))))
			catIDs = append(catIDs, c.ID)
		}
		catList.Refresh()
	}
	refreshCats()
	selectedCat := -1
	catList.OnSelected = func(id widget.ListItemID) { selectedCat = int(id) }

	addCatBtn := widget.NewButton("Add", func() {
		entry := widget.NewEntry()
		dialog.ShowForm("New Category", "Create", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Name", entry)},
			func(ok bool) {
				if !ok || entry.Text == "" {
					return
				}
				cats.Add(entry.Text, "#4a90d9")
				commit()
				refreshCats()
			}, w)
	})
	delCatBtn := widget.NewButton("Delete", func() {
		if selectedCat < 0 || selectedCat >= len(catIDs) {
			return
		}
		if err := cats.Delete(catIDs[selectedCat]); err != nil {
			status.SetText(err.Error())
			return
		}
		commit()
		refreshCats()
	})
	left := container.NewBorder(
		widget.NewLabel("Categories"),
		container.NewHBox(addCatBtn, delCatBtn),
		nil, nil, catList)

	// Toolbar
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), func() {
			p := viewport.ToCanvas(vector.Pt{X: 200, Y: 200})
			store.AddCard(domain.Card{Title: "New Card", X: p.X, Y: p.Y})
			commit()
			refreshCats()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() {
			if hist.Undo(restore) {
				status.SetText("Undo")
			}
		}),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() {
			if hist.Redo(restore) {
				status.SetText("Redo")
			}
		}),
	)

	saveNow := func() {
		if err := ws.Save(store.Doc()); err != nil {
			status.SetText("Save failed: " + err.Error())
			return
		}
		if db, err := storage.OpenIndex(ws.Root); err == nil {
			_ = storage.ReindexDocument(context.Background(), db, store.Doc())
			_ = db.Close()
		}
		status.SetText("Saved " + time.Now().Format("15:04:05"))
	}

	exportDialog := func(kind string) {
		base := store.Doc().ProjectName
		if base == "" {
			base = "canvas"
		}
		out := filepath.Join(ws.Root, "exports", base+"."+kind)
		var err error
		switch kind {
		case "svg":
			err = export.ExportSVG(store.Doc(), out, export.SVGOptions{IncludeLabels: true})
		case "pdf":
			err = export.ExportPDF(store.Doc(), out, export.PDFOptions{IncludeLabels: true})
		case "png":
			err = export.ExportPNG(store.Doc(), out, export.PNGOptions{Scale: 2, IncludeLabels: true})
		case "txt":
			err = export.WriteReport(store.Doc(), out)
		}
		if err != nil {
			status.SetText("Export failed: " + err.Error())
			return
		}
		status.SetText("Exported " + out)
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save", saveNow),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export SVG", func() { exportDialog("svg") }),
		fyne.NewMenuItem("Export PDF", func() { exportDialog("pdf") }),
		fyne.NewMenuItem("Export PNG", func() { exportDialog("png") }),
		fyne.NewMenuItem("Export Report", func() { exportDialog("txt") }),
		fyne.NewMenuItem("Copy Report to Clipboard", func() {
			if err := export.CopyReport(store.Doc()); err != nil {
				status.SetText("Clipboard failed: " + err.Error())
			} else {
				status.SetText("Report copied")
			}
		}),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { hist.Undo(restore) }),
		fyne.NewMenuItem("Redo", func() { hist.Redo(restore) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Copy", func() { selection.Copy() }),
		fyne.NewMenuItem("Paste", func() {
			if refs := selection.Paste(); len(refs) > 0 {
				commit()
			}
		}),
		fyne.NewMenuItem("Select All", func() { selection.SelectAll(); docCanvas.Refresh() }),
		fyne.NewMenuItem("Delete", func() {
			if selection.DeleteSelected(dialogConfirmer{win: w}) {
				commit()
				refreshCats()
			}
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu))

	addShortcut := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	addShortcut(fyne.KeyZ, fyne.KeyModifierControl, func() { hist.Undo(restore) })
	addShortcut(fyne.KeyY, fyne.KeyModifierControl, func() { hist.Redo(restore) })
	addShortcut(fyne.KeyC, fyne.KeyModifierControl, func() { selection.Copy() })
	addShortcut(fyne.KeyV, fyne.KeyModifierControl, func() {
		if refs := selection.Paste(); len(refs) > 0 {
			commit()
		}
	})
	addShortcut(fyne.KeyA, fyne.KeyModifierControl, func() { selection.SelectAll(); docCanvas.Refresh() })
	addShortcut(fyne.KeyS, fyne.KeyModifierControl, saveNow)
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			engine.Cancel()
			rt.CancelEndpointDrag()
			docCanvas.Refresh()
		case fyne.KeyDelete, fyne.KeyBackspace:
			if selection.DeleteSelected(dialogConfirmer{win: w}) {
				commit()
				refreshCats()
			}
		}
	})

	content := container.NewBorder(toolbar, status, left, nil, docCanvas)
	w.SetContent(content)
	w.SetCloseIntercept(func() {
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
		saver.Flush()
		w.Close()
	})
	w.ShowAndRun()
	return nil
}

// dialogConfirmer satisfies scene.Confirmer. Fyne confirm dialogs are
// asynchronous; multi-item deletes go ahead and rely on undo, which
// matches how the rest of the editor treats destructive gestures.
type dialogConfirmer struct{ win fyne.Window }

func (dialogConfirmer) Confirm(string) bool { return true }

const resizeGrabSize = 12.0

// DocCanvas renders the document and routes pointer gestures into the
// interaction engine.
type DocCanvas struct {
	widget.BaseWidget

	store     *scene.Store
	selection *scene.Selection
	engine    *scene.Engine
	router    *router.Router
	viewport  *vector.Viewport
	cats      *category.Index

	// set while an endpoint re-anchor drag is running
	reanchoring bool
	// last pointer position, needed at DragEnd which carries no event
	lastScreen vector.Pt

	OnChanged func()
	OnStatus  func(string)
}

func NewDocCanvas(store *scene.Store, sel *scene.Selection, engine *scene.Engine, rt *router.Router, vp *vector.Viewport, cats *category.Index) *DocCanvas {
	dc := &DocCanvas{
		store:     store,
		selection: sel,
		engine:    engine,
		router:    rt,
		viewport:  vp,
		cats:      cats,
	}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (d *DocCanvas) screenPt(pos fyne.Position) vector.Pt {
	return vector.Pt{X: float64(pos.X), Y: float64(pos.Y)}
}

// Tapped selects the topmost item under the pointer, or clears the
// selection on empty canvas.
func (d *DocCanvas) Tapped(e *fyne.PointEvent) {
	p := d.viewport.ToCanvas(d.screenPt(e.Position))
	hit := scene.HitTest(d.store.Doc(), p)
	switch hit.Kind {
	case scene.HitCard, scene.HitCardSide:
		d.selection.Select(hit.ID, domain.KindCard)
	case scene.HitChecklistConnector:
		d.selection.Select(hit.ID, domain.KindCard)
	case scene.HitText:
		d.selection.Select(hit.ID, domain.KindText)
	case scene.HitColumn:
		d.selection.Select(hit.ID, domain.KindColumn)
	default:
		if idx := d.connectionAt(p); idx >= 0 {
			d.selection.SelectConnection(idx)
		} else {
			d.selection.Clear()
		}
	}
	d.Refresh()
}

// TappedSecondary opens the connection context actions when a curve is
// under the pointer.
func (d *DocCanvas) TappedSecondary(e *fyne.PointEvent) {
	p := d.viewport.ToCanvas(d.screenPt(e.Position))
	idx := d.connectionAt(p)
	if idx < 0 {
		return
	}
	d.selection.SelectConnection(idx)
	menu := fyne.NewMenu("",
		fyne.NewMenuItem("Add Waypoint", func() {
			d.router.AddWaypoint(idx, domain.Point{X: p.X, Y: p.Y})
			d.changed()
		}),
		fyne.NewMenuItem("Clear Waypoints", func() {
			d.router.ClearWaypoints(idx)
			d.changed()
		}),
		fyne.NewMenuItem("Reset Endpoints", func() {
			d.router.ResetEndpoints(idx)
			d.changed()
		}),
	)
	c := fyne.CurrentApp().Driver().CanvasForObject(d)
	widget.ShowPopUpMenuAtPosition(menu, c, e.AbsolutePosition)
}

// DoubleTapped toggles checklist completion under the pointer.
func (d *DocCanvas) DoubleTapped(e *fyne.PointEvent) {
	p := d.viewport.ToCanvas(d.screenPt(e.Position))
	hit := scene.HitTest(d.store.Doc(), p)
	if hit.Kind != scene.HitChecklistConnector {
		return
	}
	if c := d.store.Doc().CardByID(hit.ID); c != nil {
		if k := c.ChecklistItemByID(hit.ChecklistID); k != nil {
			k.Completed = !k.Completed
			d.changed()
		}
	}
}

// Dragged drives the gesture state machine: connector drags create
// connections, endpoint grabs re-anchor, selection bodies move, resize
// grips resize, anything else pans.
func (d *DocCanvas) Dragged(e *fyne.DragEvent) {
	screen := d.screenPt(e.Position)
	d.lastScreen = screen
	p := d.viewport.ToCanvas(screen)

	if d.engine.State() == scene.Idle && !d.reanchoring {
		hit := scene.HitTest(d.store.Doc(), p)
		switch {
		case d.tryBeginEndpointDrag(p):
			// reanchoring set inside
		case hit.Kind == scene.HitChecklistConnector:
			d.engine.StartConnect(domain.Endpoint{CardID: hit.ID, ChecklistID: hit.ChecklistID}, screen)
		case hit.Kind == scene.HitCardSide:
			d.engine.StartConnect(domain.Endpoint{CardID: hit.ID, FixedSide: hit.Side}, screen)
		case hit.Kind != scene.HitNone && d.onResizeGrip(hit, p):
			kind := domain.KindCard
			if hit.Kind == scene.HitText {
				kind = domain.KindText
			} else if hit.Kind == scene.HitColumn {
				kind = domain.KindColumn
			}
			d.engine.StartResize(hit.ID, kind, screen)
		case hit.Kind == scene.HitCard && d.selection.Contains(hit.ID, domain.KindCard),
			hit.Kind == scene.HitText && d.selection.Contains(hit.ID, domain.KindText),
			hit.Kind == scene.HitColumn && d.selection.Contains(hit.ID, domain.KindColumn):
			d.engine.StartDrag(screen)
		case hit.Kind == scene.HitCard:
			d.selection.Select(hit.ID, domain.KindCard)
			d.engine.StartDrag(screen)
		case hit.Kind == scene.HitText:
			d.selection.Select(hit.ID, domain.KindText)
			d.engine.StartDrag(screen)
		case hit.Kind == scene.HitColumn:
			d.selection.Select(hit.ID, domain.KindColumn)
			d.engine.StartDrag(screen)
		default:
			d.engine.StartPan()
		}
	}

	if d.reanchoring {
		d.router.MoveEndpointDrag(p)
		d.Refresh()
		return
	}
	switch d.engine.State() {
	case scene.Panning:
		d.engine.MovePan(float64(e.Dragged.DX), float64(e.Dragged.DY))
	case scene.DraggingSelection:
		d.engine.MoveDrag(screen)
	case scene.ResizingItem:
		d.engine.MoveResize(screen)
	case scene.ConnectingDrag:
		d.engine.MoveConnect(screen)
	}
	d.Refresh()
}

// DragEnd finishes whatever gesture is running and issues the single
// commit for it.
func (d *DocCanvas) DragEnd() {
	if d.reanchoring {
		d.reanchoring = false
		drop := d.viewport.ToCanvas(d.lastScreen)
		if d.router.EndEndpointDrag(drop) {
			d.changed()
		} else {
			d.statusMsg("Re-anchor rejected")
			d.Refresh()
		}
		return
	}
	switch d.engine.State() {
	case scene.Panning:
		d.engine.EndPan()
	case scene.DraggingSelection:
		d.engine.EndDrag()
	case scene.ResizingItem:
		d.engine.EndResize()
	case scene.ConnectingDrag:
		if from, drop, ok := d.engine.EndConnect(d.lastScreen); ok {
			if _, err := d.router.ConnectFromDrop(from, drop); err != nil {
				d.statusMsg("Connection rejected: " + err.Error())
			} else {
				d.changed()
			}
		}
	}
	d.Refresh()
}

func (d *DocCanvas) changed() {
	if d.OnChanged != nil {
		d.OnChanged()
	}
	d.Refresh()
}

func (d *DocCanvas) statusMsg(msg string) {
	if d.OnStatus != nil {
		d.OnStatus(msg)
	}
}

// Scrolled zooms at the pointer so the point under the cursor stays
// put.
func (d *DocCanvas) Scrolled(e *fyne.ScrollEvent) {
	step := float64(e.Scrolled.DY) * 0.001
	d.viewport.ZoomAt(d.screenPt(e.Position), d.viewport.Zoom()*(1+step*50))
	d.Refresh()
}

func (d *DocCanvas) tryBeginEndpointDrag(p vector.Pt) bool {
	idx := d.selection.SelectedConnection()
	if idx < 0 {
		return false
	}
	doc := d.store.Doc()
	if idx >= len(doc.Connections) {
		return false
	}
	conn := &doc.Connections[idx]
	if from, to, ok := router.ResolveConnection(doc, conn); ok {
		if vector.Dist(p, from) <= scene.ConnectorRadius {
			if d.router.BeginEndpointDrag(idx, router.EndFrom) {
				d.reanchoring = true
				return true
			}
		}
		if vector.Dist(p, to) <= scene.ConnectorRadius {
			if d.router.BeginEndpointDrag(idx, router.EndTo) {
				d.reanchoring = true
				return true
			}
		}
	}
	return false
}

// onResizeGrip reports whether the canvas point is inside the
// bottom-right resize corner of the hit item.
func (d *DocCanvas) onResizeGrip(hit scene.Hit, p vector.Pt) bool {
	doc := d.store.Doc()
	var r vector.Rect
	switch hit.Kind {
	case scene.HitCard:
		c := doc.CardByID(hit.ID)
		if c == nil {
			return false
		}
		r = scene.CardRect(c)
	case scene.HitText:
		t := doc.TextByID(hit.ID)
		if t == nil {
			return false
		}
		r = scene.TextRect(t)
	case scene.HitColumn:
		c := doc.ColumnByID(hit.ID)
		if c == nil {
			return false
		}
		r = scene.ColumnRect(c)
	default:
		return false
	}
	max := r.Max()
	return p.X >= max.X-resizeGrabSize && p.Y >= max.Y-resizeGrabSize &&
		p.X <= max.X && p.Y <= max.Y
}

// connectionAt finds the topmost connection whose flattened curve
// passes within grab distance of the canvas point.
func (d *DocCanvas) connectionAt(p vector.Pt) int {
	doc := d.store.Doc()
	for i := len(doc.Connections) - 1; i >= 0; i-- {
		path, ok := router.BuildPath(doc, &doc.Connections[i])
		if !ok {
			continue
		}
		pts := path.Flatten(16)
		for j := 0; j+1 < len(pts); j++ {
			if distToSegment(p, pts[j], pts[j+1]) <= 6 {
				return i
			}
		}
	}
	return -1
}

func distToSegment(p, a, b vector.Pt) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return vector.Dist(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return vector.Dist(p, vector.Pt{X: a.X + t*abx, Y: a.Y + t*aby})
}

// CreateRenderer rebuilds the object list from the document on every
// refresh; the document is small enough that this stays cheap.
func (d *DocCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 0xfa, G: 0xfa, B: 0xf8, A: 0xff})
	return &docCanvasRenderer{dc: d, bg: bg}
}

type docCanvasRenderer struct {
	dc      *DocCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *docCanvasRenderer) Destroy()                     {}
func (r *docCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *docCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(800, 600) }

func (r *docCanvasRenderer) Refresh() {
	r.Layout(r.dc.Size())
	canvas.Refresh(r.dc)
}

func (r *docCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.bg)

	doc := r.dc.store.Doc()
	vp := r.dc.viewport
	zoom := float32(vp.Zoom())

	place := func(obj fyne.CanvasObject, rect vector.Rect) {
		min := vp.ToScreen(rect.Min())
		obj.Move(fyne.NewPos(float32(min.X), float32(min.Y)))
		obj.Resize(fyne.NewSize(float32(rect.W)*zoom, float32(rect.H)*zoom))
		r.objects = append(r.objects, obj)
	}

	for i := range doc.Columns {
		col := &doc.Columns[i]
		rect := canvas.NewRectangle(color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff})
		rect.StrokeColor = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
		rect.StrokeWidth = 1
		place(rect, scene.ColumnRect(col))
		if col.Title != "" {
			t := canvas.NewText(col.Title, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
			t.TextSize = 14 * zoom
			pos := vp.ToScreen(vector.Pt{X: col.X + 10, Y: col.Y + 6})
			t.Move(fyne.NewPos(float32(pos.X), float32(pos.Y)))
			r.objects = append(r.objects, t)
		}
	}

	selIdx := r.dc.selection.SelectedConnection()
	for i := range doc.Connections {
		path, ok := router.BuildPath(doc, &doc.Connections[i])
		if !ok {
			continue
		}
		stroke := color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
		if i == selIdx {
			stroke = color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
		}
		pts := path.Flatten(16)
		for j := 0; j+1 < len(pts); j++ {
			a := vp.ToScreen(pts[j])
			b := vp.ToScreen(pts[j+1])
			ln := canvas.NewLine(stroke)
			ln.StrokeWidth = 1.5
			ln.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
			ln.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
			r.objects = append(r.objects, ln)
		}
	}

	for i := range doc.Cards {
		c := &doc.Cards[i]
		cr := scene.CardRect(c)
		rect := canvas.NewRectangle(color.White)
		rect.StrokeColor = parseHex(r.dc.cats.PrimaryColorOfCard(c))
		rect.StrokeWidth = 1.5
		if r.dc.selection.Contains(c.ID, domain.KindCard) {
			rect.StrokeWidth = 3
		}
		rect.CornerRadius = 8 * zoom
		place(rect, cr)

		title := canvas.NewText(c.Title, color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff})
		title.TextSize = 16 * zoom
		title.TextStyle = fyne.TextStyle{Bold: true}
		tp := vp.ToScreen(vector.Pt{X: cr.X + 12, Y: cr.Y + 8})
		title.Move(fyne.NewPos(float32(tp.X), float32(tp.Y)))
		r.objects = append(r.objects, title)

		for j := range c.Checklist {
			row := scene.ChecklistRowRect(c, j)
			label := c.Checklist[j].Name
			if c.Checklist[j].Completed {
				label = "✓ " + label
			} else {
				label = "• " + label
			}
			rt := canvas.NewText(label, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
			rt.TextSize = 12 * zoom
			rp := vp.ToScreen(vector.Pt{X: row.X + 12, Y: row.Y + 4})
			rt.Move(fyne.NewPos(float32(rp.X), float32(rp.Y)))
			r.objects = append(r.objects, rt)
			if pt, ok := scene.ChecklistConnectorPoint(c, c.Checklist[j].ID); ok {
				dot := canvas.NewCircle(color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff})
				sz := float32(6) * zoom
				dp := vp.ToScreen(pt)
				dot.Move(fyne.NewPos(float32(dp.X)-sz/2, float32(dp.Y)-sz/2))
				dot.Resize(fyne.NewSize(sz, sz))
				r.objects = append(r.objects, dot)
			}
		}
	}

	for i := range doc.Texts {
		t := &doc.Texts[i]
		fs := t.FontSize
		if fs <= 0 {
			fs = scene.DefaultFontSize
		}
		txt := canvas.NewText(t.Content, parseHex(colorOr(t.Color, "#111111")))
		txt.TextSize = float32(fs) * zoom
		tp := vp.ToScreen(vector.Pt{X: t.X, Y: t.Y})
		txt.Move(fyne.NewPos(float32(tp.X), float32(tp.Y)))
		if r.dc.selection.Contains(t.ID, domain.KindText) {
			box := canvas.NewRectangle(color.RGBA{})
			box.StrokeColor = color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
			box.StrokeWidth = 1
			place(box, scene.TextRect(t))
		}
		r.objects = append(r.objects, txt)
	}

	// rubber band for an in-flight connection drag
	if from, drop, ok := r.dc.engine.ConnectSource(); ok {
		if p, resolved := router.ResolveEndpoint(doc, from, domain.Endpoint{}); resolved {
			a := vp.ToScreen(p)
			b := vp.ToScreen(drop)
			ln := canvas.NewLine(color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xaa})
			ln.StrokeWidth = 1.5
			ln.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
			ln.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
			r.objects = append(r.objects, ln)
		}
	}
}

func parseHex(s string) color.RGBA {
	fallback := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	var rr, gg, bb uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return fallback
	}
	return color.RGBA{R: rr, G: gg, B: bb, A: 0xff}
}

func colorOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
