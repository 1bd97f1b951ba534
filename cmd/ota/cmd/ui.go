package cmd

import (
	"github.com/spf13/cobra"

	appui "github.com/OpenTraceLab/OpenTraceAvatar/internal/ui"
	"github.com/OpenTraceLab/OpenTraceAvatar/internal/logging"
)

var uiCmd = &cobra.Command{
	Use:   "ui [image]",
	Short: "Launch the interactive editor",
	Long: `Open the avatar editor window. Drag inside the round viewport to pan,
scroll to zoom and use the toolbar or the L, R, 0, + and - keys to
rotate, reset and zoom. The live preview follows every change; save
writes the avatar at the export resolution.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, cfg, err := loadSettings()
		if err != nil {
			return err
		}
		opts := appui.Options{
			Config:     cfg,
			Settings:   settings,
			ConfigPath: configPath,
			Version:    rootCmd.Version,
			Logger:     logging.Must(verbose),
		}
		if len(args) == 1 {
			opts.InitialFile = args[0]
		}
		return appui.Run(nil, opts)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
