package ui

import (
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"go.uber.org/zap"
)

// Run launches the Gio UI and blocks until the window closes.
func Run(state *AppState, opts Options) error {
	if state == nil {
		state = NewState()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("OpenTraceAvatar"), app.Size(unit.Dp(960), unit.Dp(640)))
		ui, err := New(w, state, opts)
		if err != nil {
			log.Error("ui setup failed", zap.Error(err))
			os.Exit(1)
		}
		if err := ui.Run(); err != nil {
			log.Error("ui exited", zap.Error(err))
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
