package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
)

var (
	outputJSON bool
)

// ImageInfo is the structured result of validating an image
type ImageInfo struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Validate an image and show its dimensions",
	Long: `Run an image through the same size and type checks as the editor, decode
it and report its dimensions after EXIF orientation.

Examples:
  ota info portrait.jpg
  ota info --json portrait.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadSettings()
	if err != nil {
		return err
	}
	f, err := avatar.FileFromPath(args[0])
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	info := ImageInfo{Path: args[0], Type: f.Type, Size: f.Size}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ed, _, loadErr := openHeadless(ctx, cfg, args[0])
	if loadErr == nil {
		defer ed.Close()
		size := ed.Session().BitmapSize()
		info.Width, info.Height = size.X, size.Y
		info.Accepted = true
	} else {
		info.Message = loadErr.Error()
	}

	if outputJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		printField("File", "%s", info.Path)
		printField("Type", "%s", info.Type)
		printField("Size", "%d bytes", info.Size)
		if info.Accepted {
			printField("Dimensions", "%dx%d", info.Width, info.Height)
			printOK("Accepted")
		} else {
			printFail("Rejected: %s", info.Message)
		}
	}
	return loadErr
}
