package ui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"go.uber.org/zap"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceAvatar/internal/config"
	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
)

// Options configures the editor window.
type Options struct {
	Config      avatar.Config
	Settings    *config.AppConfig // persisted; LastDir is updated after opening a file
	ConfigPath  string
	InitialFile string
	Version     string
	Logger      *zap.Logger
}

// shortcuts maps keys onto the controller's command table.
var shortcuts = map[key.Name]avatar.Command{
	"L": avatar.CommandRotateLeft,
	"R": avatar.CommandRotateRight,
	"0": avatar.CommandReset,
	"+": avatar.CommandZoomIn,
	"-": avatar.CommandZoomOut,
}

// rotateSteps populate the "Rotate by" dropdown.
var rotateSteps = []float64{-45, 45, 180}

type commandButton struct {
	cmd   avatar.Command
	label string
	icon  *widget.Icon
	click widget.Clickable
}

// App drives the Gio-based avatar editor.
type App struct {
	Window *app.Window
	Theme  *theme.Theme
	State  *AppState
	Editor *avatar.Editor

	ops  op.Ops
	log  *zap.Logger
	opts Options

	canvas  *canvas
	preview *previewPane
	view    *viewport
	files   *explorer.Explorer

	openBtn       widget.Clickable
	saveBtn       widget.Clickable
	clearBtn      widget.Clickable
	rotateMenuBtn widget.Clickable
	rotateMenu    *menu.DropdownMenu
	commands      []*commandButton

	logList layout.List
}

// New wires the Gio window, theme, editor and shared state together.
func New(window *app.Window, state *AppState, opts Options) (*App, error) {
	if state == nil {
		state = NewState()
	}
	state.SetAppVersion(opts.Version)

	log := paneLogger(opts.Logger, state)
	cfg := opts.Config
	cfg.Logger = log

	a := &App{
		Window:  window,
		Theme:   theme.NewTheme("", nil, true),
		State:   state,
		log:     log.Named("ui"),
		opts:    opts,
		canvas:  &canvas{},
		preview: &previewPane{},
		files:   explorer.NewExplorer(window),
		logList: layout.List{Axis: layout.Vertical, ScrollToEnd: true},
	}

	ed, err := avatar.New(cfg,
		avatar.WithSurface(a.canvas),
		avatar.WithPreview(a.preview),
		avatar.WithNotifier(&stateNotifier{state: state}),
		avatar.WithInput(&fileInput{state: state}),
	)
	if err != nil {
		return nil, err
	}
	a.Editor = ed
	ed.Loop().SetWake(window.Invalidate)

	a.view = &viewport{ctrl: ed.Controller(), canvas: a.canvas, size: ed.Config().ViewportSize}
	a.initCommands()
	a.rotateMenu = a.buildRotateMenu()
	return a, nil
}

// Run processes Gio events until the window is closed.
func (a *App) Run() error {
	defer a.Editor.Close()
	if a.opts.InitialFile != "" {
		a.openPath(a.opts.InitialFile)
	}
	for {
		e := a.Window.Event()
		a.files.ListenEvents(e)
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			a.Editor.Loop().Drain()
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) initCommands() {
	makeIcon := func(data []byte, name string) *widget.Icon {
		icon, err := widget.NewIcon(data)
		if err != nil {
			a.log.Warn("failed to load icon", zap.String("icon", name), zap.Error(err))
			return nil
		}
		return icon
	}
	a.commands = []*commandButton{
		{cmd: avatar.CommandRotateLeft, label: "Rotate left", icon: makeIcon(icons.ImageRotateLeft, "rotate-left")},
		{cmd: avatar.CommandRotateRight, label: "Rotate right", icon: makeIcon(icons.ImageRotateRight, "rotate-right")},
		{cmd: avatar.CommandZoomOut, label: "Zoom out", icon: makeIcon(icons.ActionZoomOut, "zoom-out")},
		{cmd: avatar.CommandZoomIn, label: "Zoom in", icon: makeIcon(icons.ActionZoomIn, "zoom-in")},
		{cmd: avatar.CommandReset, label: "Reset", icon: makeIcon(icons.NavigationRefresh, "reset")},
	}
}

func (a *App) buildRotateMenu() *menu.DropdownMenu {
	opts := make([]menu.MenuOption, 0, len(rotateSteps))
	for _, step := range rotateSteps {
		deg := step
		label := fmt.Sprintf("%+g°", deg)
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				a.Editor.Controller().Rotate(deg)
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, material.Body1(th.Theme, label).Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(120)
	return drop
}

func (a *App) invalidate() {
	if a.Window != nil {
		a.Window.Invalidate()
	}
}

// selectFile hands a chosen file to the editor. Runs on the window goroutine.
func (a *App) selectFile(f *avatar.File) {
	a.State.SetFile(f.Name)
	a.State.SetError(nil)
	if err := a.Editor.OnFileSelected(f); err != nil {
		a.State.SetError(err)
		return
	}
	a.State.SetStatus(fmt.Sprintf("Loading %s…", f.Name))
}

func (a *App) openPath(path string) {
	f, err := avatar.FileFromPath(path)
	if err != nil {
		a.log.Error("failed to open image", zap.String("path", path), zap.Error(err))
		a.State.SetError(err)
		a.State.SetStatus("Could not open " + filepath.Base(path))
		return
	}
	a.selectFile(f)
	a.rememberDir(path)
}

func (a *App) chooseFile() {
	limit := a.Editor.Config().MaxFileSize
	go func() {
		rc, err := a.files.ChooseFile("png", "jpg", "jpeg")
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				a.log.Error("file picker failed", zap.Error(err))
				a.State.SetError(err)
			}
			return
		}
		defer rc.Close()

		name, path := "image", ""
		if f, ok := rc.(*os.File); ok {
			path = f.Name()
			name = filepath.Base(path)
		}
		file, err := avatar.ReadFile(name, rc, limit)
		if err != nil {
			a.log.Error("failed to read image", zap.String("name", name), zap.Error(err))
			a.State.SetError(err)
			a.invalidate()
			return
		}
		a.Editor.Loop().Post(func() {
			a.selectFile(file)
			if path != "" {
				a.rememberDir(path)
			}
		})
	}()
}

func (a *App) saveFile() {
	data, err := a.Editor.Export()
	if err != nil {
		a.State.SetError(err)
		a.State.SetStatus("Nothing to export yet")
		return
	}
	name := "avatar.jpg"
	if a.Editor.Config().ExportFormat == avatar.FormatPNG {
		name = "avatar.png"
	}

	a.State.SetBusy(true)
	go func() {
		defer a.invalidate()
		defer a.State.SetBusy(false)

		wc, err := a.files.CreateFile(name)
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				a.log.Error("save dialog failed", zap.Error(err))
				a.State.SetError(err)
			}
			return
		}
		if err := writeAll(wc, data); err != nil {
			a.log.Error("failed to write export", zap.Error(err))
			a.State.SetError(err)
			return
		}
		saved := name
		if f, ok := wc.(*os.File); ok {
			saved = f.Name()
		}
		a.State.SetLastExport(saved)
		a.State.SetStatus(fmt.Sprintf("Saved %s (%d bytes)", filepath.Base(saved), len(data)))
	}()
}

func writeAll(wc io.WriteCloser, data []byte) error {
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

func (a *App) clearFile() {
	if err := a.Editor.OnFileSelected(nil); err != nil {
		a.State.SetError(err)
	}
	a.State.SetFile("")
	a.State.SetStatus("Choose an image to start")
}

func (a *App) rememberDir(path string) {
	if a.opts.Settings == nil {
		return
	}
	dir := filepath.Dir(path)
	if a.opts.Settings.LastDir == dir {
		return
	}
	a.opts.Settings.LastDir = dir
	if err := config.Save(a.opts.ConfigPath, a.opts.Settings); err != nil {
		a.log.Warn("failed to save config", zap.Error(err))
	}
}

// syncState mirrors the live session into the details panel.
func (a *App) syncState() {
	s := a.Editor.Session()
	if s == nil {
		return
	}
	a.State.SetView(s.BitmapSize(), s.Rotation(), s.Scale())
}

func (a *App) handleKeys(gtx layout.Context) {
	filters := make([]event.Filter, 0, len(shortcuts))
	for name := range shortcuts {
		filters = append(filters, key.Filter{Name: name})
	}
	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		if cmd, ok := shortcuts[ke.Name]; ok {
			if err := a.Editor.Controller().Execute(cmd); err != nil {
				a.log.Warn("shortcut failed", zap.String("key", string(ke.Name)), zap.Error(err))
			}
		}
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.handleKeys(gtx)
	a.syncState()
	state := a.State.Snapshot()

	paint.FillShape(gtx.Ops, color.NRGBA{R: 238, G: 241, B: 251, A: 255}, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutTopBar(gtx, state)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return a.layoutCenteredCard(gtx, a.layoutEditor)
					})
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					width := gtx.Dp(unit.Dp(300))
					gtx.Constraints.Max.X = width
					gtx.Constraints.Min.X = width
					return layout.Inset{Right: unit.Dp(12), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return a.layoutPanelSurface(gtx, func(gtx layout.Context) layout.Dimensions {
							return a.layoutDetails(gtx, state)
						})
					})
				}),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutStatus(gtx, state)
		}),
	)
}

func (a *App) layoutTopBar(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	for a.openBtn.Clicked(gtx) {
		a.chooseFile()
	}
	for a.saveBtn.Clicked(gtx) {
		a.saveFile()
	}
	for a.clearBtn.Clicked(gtx) {
		a.clearFile()
	}

	th := a.Theme.Theme
	return layout.Inset{
		Top: unit.Dp(12), Bottom: unit.Dp(8), Left: unit.Dp(16), Right: unit.Dp(16),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.H6(th, "Avatar Editor").Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				btn := material.Button(th, &a.openBtn, "Open…")
				btn.Inset = layout.UniformInset(unit.Dp(6))
				return btn.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				btn := material.Button(th, &a.saveBtn, "Save avatar…")
				btn.Inset = layout.UniformInset(unit.Dp(6))
				if a.Editor.Session() == nil || state.Busy {
					gtx = gtx.Disabled()
				}
				return btn.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				btn := material.Button(th, &a.clearBtn, "Clear")
				btn.Background = color.NRGBA{R: 60, G: 64, B: 76, A: 255}
				btn.Inset = layout.UniformInset(unit.Dp(6))
				return btn.Layout(gtx)
			}),
		)
	})
}

func (a *App) layoutEditor(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.view.Layout(gtx, a.Theme.Theme)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		layout.Rigid(a.layoutControls),
		layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(a.Theme.Theme, "Drag to pan | Scroll to zoom | L/R rotate | 0 reset")
			lbl.Color = a.Theme.Palette.Fg
			lbl.Color.A = 128
			return lbl.Layout(gtx)
		}),
	)
}

func (a *App) layoutControls(gtx layout.Context) layout.Dimensions {
	th := a.Theme.Theme
	if a.Editor.Session() == nil {
		gtx = gtx.Disabled()
	}

	children := make([]layout.FlexChild, 0, len(a.commands)*2+1)
	for _, cb := range a.commands {
		cb := cb
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			for cb.click.Clicked(gtx) {
				if err := a.Editor.Controller().Execute(cb.cmd); err != nil {
					a.log.Warn("command failed", zap.String("command", string(cb.cmd)), zap.Error(err))
				}
			}
			if cb.icon == nil {
				return material.Button(th, &cb.click, cb.label).Layout(gtx)
			}
			btn := material.IconButton(th, &cb.click, cb.icon, cb.label)
			btn.Size = unit.Dp(20)
			btn.Inset = layout.UniformInset(unit.Dp(8))
			return btn.Layout(gtx)
		}))
		children = append(children, layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout))
	}
	children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
		if a.rotateMenuBtn.Clicked(gtx) {
			a.rotateMenu.ToggleVisibility(gtx)
		}
		btn := material.Button(th, &a.rotateMenuBtn, "Rotate by…")
		btn.Inset = layout.UniformInset(unit.Dp(8))
		dims := btn.Layout(gtx)
		a.rotateMenu.Layout(gtx, a.Theme)
		return dims
	}))
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
}

func (a *App) layoutDetails(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	th := a.Theme.Theme
	row := func(label, value string) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					gtx.Constraints.Min.X = gtx.Dp(unit.Dp(80))
					return material.Body2(th, label).Layout(gtx)
				}),
				layout.Flexed(1, material.Body2(th, value).Layout),
			)
		})
	}

	file := state.FileName
	if file == "" {
		file = "—"
	}
	size := "—"
	if state.ImageSize != (image.Point{}) {
		size = fmt.Sprintf("%d × %d", state.ImageSize.X, state.ImageSize.Y)
	}
	export := state.LastExport
	if export == "" {
		export = "—"
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(material.H6(th, "Preview").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layoutPreview(gtx, a.preview, a.Editor.Config().PreviewSize)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		row("File", file),
		row("Size", size),
		row("Rotation", fmt.Sprintf("%g°", state.Rotation)),
		row("Zoom", fmt.Sprintf("%.0f%%", state.Scale*100)),
		row("Exported", export),
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		layout.Rigid(material.Subtitle2(th, "Log").Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.logList.Layout(gtx, len(state.Logs), func(gtx layout.Context, i int) layout.Dimensions {
				return material.Caption(th, state.Logs[i]).Layout(gtx)
			})
		}),
	)
}

func (a *App) layoutStatus(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	th := a.Theme.Theme
	return layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				status := state.Status
				if state.LastError != nil {
					lbl := material.Body2(th, fmt.Sprintf("%s (%v)", status, state.LastError))
					lbl.Color = color.NRGBA{R: 196, G: 48, B: 48, A: 255}
					return lbl.Layout(gtx)
				}
				return material.Body2(th, status).Layout(gtx)
			}),
			layout.Rigid(material.Caption(th, "v"+state.AppVersion).Layout),
		)
	})
}

func (a *App) layoutPanelSurface(gtx layout.Context, body layout.Widget) layout.Dimensions {
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			col := color.NRGBA{R: 238, G: 240, B: 247, A: 255}
			rr := gtx.Dp(unit.Dp(10))
			paint.FillShape(gtx.Ops, col, clip.RRect{
				Rect: image.Rectangle{Max: gtx.Constraints.Max},
				NW:   rr, NE: rr, SW: rr, SE: rr,
			}.Op(gtx.Ops))
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{
				Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(10), Bottom: unit.Dp(10),
			}.Layout(gtx, body)
		}),
	)
}

func (a *App) layoutCenteredCard(gtx layout.Context, body layout.Widget) layout.Dimensions {
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			col := color.NRGBA{R: 248, G: 248, B: 253, A: 255}
			rr := gtx.Dp(unit.Dp(12))
			paint.FillShape(gtx.Ops, col, clip.RRect{
				Rect: image.Rectangle{Max: gtx.Constraints.Max},
				NW:   rr, NE: rr, SW: rr, SE: rr,
			}.Op(gtx.Ops))
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min = gtx.Constraints.Max
			return layout.Center.Layout(gtx, body)
		}),
	)
}
