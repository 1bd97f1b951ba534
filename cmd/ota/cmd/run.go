package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/script"
)

var (
	runOutDir string
)

var runCmd = &cobra.Command{
	Use:   "run <image> <script>",
	Short: "Replay an edit script against an image",
	Long: `Load an image and replay an edit script, one command per line:

  drag DX DY            pan by viewport pixels
  zoom in|out [N]       N wheel notches (default 1)
  wheel DY              raw wheel delta, negative zooms in
  rotate DEG            rotate clockwise by DEG degrees
  rotate left|right     quarter turn
  reset                 recenter and restore scale 1
  export "PATH"         write the avatar
  preview "PATH"        write the current preview PNG

Lines starting with # are comments.

Examples:
  ota run portrait.jpg edit.avs
  ota run portrait.jpg edit.avs --out-dir build/`,
	Args: cobra.ExactArgs(2),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runOutDir, "out-dir", "", "directory for relative export and preview paths")
}

func runScript(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadSettings()
	if err != nil {
		return err
	}

	parser, err := script.NewParser()
	if err != nil {
		return err
	}
	s, err := parser.ParseFile(args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ed, _, err := openHeadless(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	defer ed.Close()

	runner := &script.Runner{
		Editor:  ed,
		BaseDir: runOutDir,
		Out:     os.Stdout,
		Logger:  cfg.Logger,
	}
	if err := runner.Run(ctx, s); err != nil {
		return err
	}
	printOK("Ran %d command(s) from %s", len(s.Commands), args[1])
	return nil
}
