package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

var (
	exportOutput  string
	exportRotate  []float64
	exportZoom    int
	exportPan     string
	exportSize    int
	exportQuality int
	exportFormat  string
	exportCopy    bool
)

var exportCmd = &cobra.Command{
	Use:   "export <image>",
	Short: "Crop an image into a circular avatar",
	Long: `Load an image, apply rotation, zoom and pan exactly as the editor would,
and write the circular avatar at the export resolution.

Rotations are applied in order before zoom and pan. Zoom is given in
wheel notches: positive zooms in, negative zooms out. Pan is given in
viewport pixels.

Examples:
  ota export portrait.jpg -o avatar.jpg
  ota export portrait.jpg -o avatar.png --format png --size 256
  ota export scan.png -o avatar.jpg --rotate 90 --rotate 90 --zoom 3 --pan 12,-30`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (required)")
	exportCmd.Flags().Float64SliceVar(&exportRotate, "rotate", nil, "rotate clockwise by degrees (repeatable)")
	exportCmd.Flags().IntVar(&exportZoom, "zoom", 0, "zoom in wheel notches, negative zooms out")
	exportCmd.Flags().StringVar(&exportPan, "pan", "", "pan offset as x,y viewport pixels")
	exportCmd.Flags().IntVar(&exportSize, "size", 0, "export edge in pixels (default from config)")
	exportCmd.Flags().IntVar(&exportQuality, "quality", 0, "JPEG quality 1-100 (default from config)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "jpeg or png (default from the output extension)")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "also copy the avatar as a data URL to the clipboard")
	exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if exportSize != 0 {
		cfg.ExportSize = exportSize
	}
	if exportQuality != 0 {
		cfg.ExportQuality = exportQuality
	}
	format := exportFormat
	if format == "" {
		format = formatFromPath(exportOutput, string(cfg.ExportFormat))
	}
	if cfg.ExportFormat, err = avatar.ParseFormat(format); err != nil {
		return err
	}
	pan, err := parsePan(exportPan)
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

	ctrl := ed.Controller()
	for _, deg := range exportRotate {
		ctrl.Rotate(deg)
		if err := ed.Settle(ctx); err != nil {
			return err
		}
	}
	for i := 0; i < abs(exportZoom); i++ {
		if exportZoom > 0 {
			ctrl.Execute(avatar.CommandZoomIn)
		} else {
			ctrl.Execute(avatar.CommandZoomOut)
		}
	}
	if !pan.IsZero() {
		ctrl.PointerDown(geom.Vec{})
		ctrl.PointerMove(pan)
		ctrl.PointerUp()
	}

	data, err := ed.Export()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := os.WriteFile(exportOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}

	s := ed.Session()
	printOK("Exported %s (%dx%d %s, %d bytes)", exportOutput, cfg.ExportSize, cfg.ExportSize, cfg.ExportFormat, len(data))
	if verbose {
		printField("Rotation", "%g°", s.Rotation())
		printField("Scale", "%.3f", s.Scale())
		printField("Offset", "%g,%g", s.Offset().X, s.Offset().Y)
	}
	if exportCopy {
		url, err := ed.ExportDataURL()
		if err != nil {
			return err
		}
		if err := clipboard.WriteAll(url); err != nil {
			return fmt.Errorf("failed to copy data URL: %w", err)
		}
		printOK("Copied data URL to clipboard (%d chars)", len(url))
	}
	return nil
}

func parsePan(s string) (geom.Vec, error) {
	if s == "" {
		return geom.Vec{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Vec{}, fmt.Errorf("invalid pan %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("invalid pan x %q: %w", parts[0], err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("invalid pan y %q: %w", parts[1], err)
	}
	return geom.Vec{X: x, Y: y}, nil
}

func formatFromPath(path, fallback string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return "png"
	case "jpg", "jpeg":
		return "jpeg"
	}
	return fallback
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
