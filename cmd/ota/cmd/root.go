package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceAvatar/internal/config"
	"github.com/OpenTraceLab/OpenTraceAvatar/internal/logging"
	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "ota",
	Short: "OpenTraceAvatar - circular avatar cropping editor",
	Long: `OpenTraceAvatar (ota) crops profile pictures into a circular avatar:
pan, zoom and rotate an image inside a round viewport and export a
fixed-size JPEG or PNG.

Examples:
  ota ui portrait.jpg                          # Launch the interactive editor
  ota export portrait.jpg -o avatar.jpg        # Export with default framing
  ota export in.png -o out.png --rotate 90 --zoom 2 --pan 10,-5
  ota run portrait.jpg edit.avs                # Replay an edit script
  ota info portrait.jpg                        # Validate and show dimensions`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the user config directory)")
}

// loadSettings reads the config file and builds the editor config with a
// logger honouring --verbose.
func loadSettings() (*config.AppConfig, avatar.Config, error) {
	logger := logging.Must(verbose)
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, avatar.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := settings.Avatar(logger)
	if err != nil {
		return nil, avatar.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return settings, cfg, nil
}

// openHeadless builds an editor backed by a recorder and loads path into it.
// The calling goroutine owns the editor loop.
func openHeadless(ctx context.Context, cfg avatar.Config, path string) (*avatar.Editor, *avatar.Recorder, error) {
	rec := avatar.NewRecorder()
	ed, err := avatar.New(cfg,
		avatar.WithSurface(rec),
		avatar.WithPreview(rec),
		avatar.WithNotifier(rec),
		avatar.WithInput(rec),
	)
	if err != nil {
		return nil, nil, err
	}

	f, err := avatar.FileFromPath(path)
	if err != nil {
		ed.Close()
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	if err := ed.LoadFile(ctx, f); err != nil {
		ed.Close()
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	cfg.Logger.Debug("image ready", zap.String("path", path), zap.Stringer("size", ed.Session().BitmapSize()))
	return ed, rec, nil
}
