package avatar

import (
	"fmt"
	"image/color"
	"strings"

	"go.uber.org/zap"
)

// Format selects the encoder used for exported images.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// ParseFormat maps a user supplied name (jpeg, jpg, png) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", ErrInvalidConfig, name)
}

// MIME returns the content type written by the format's encoder.
func (f Format) MIME() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// Config parameterises an editor instance.
type Config struct {
	ViewportSize int     // interactive surface edge in pixels
	Border       int     // inset of the viewport clip circle
	MinScale     float64 // lower zoom bound
	MaxScale     float64 // upper zoom bound

	ZoomInFactor  float64 // applied on wheel backward
	ZoomOutFactor float64 // applied on wheel forward

	PreviewSize int

	ExportSize       int
	ExportQuality    int // JPEG quality 1-100
	ExportFormat     Format
	ExportBackground color.Color // fills the area outside the circle for JPEG

	// MaxFileSize limits accepted files in bytes. Zero disables the check.
	MaxFileSize  int64
	AllowedTypes []string

	Logger *zap.Logger
}

// DefaultConfig returns the stock 300px editor with a 200px JPEG export.
func DefaultConfig() Config {
	return Config{
		ViewportSize:     300,
		Border:           3,
		MinScale:         0.5,
		MaxScale:         3.0,
		ZoomInFactor:     1.1,
		ZoomOutFactor:    0.9,
		PreviewSize:      64,
		ExportSize:       200,
		ExportQuality:    90,
		ExportFormat:     FormatJPEG,
		ExportBackground: color.White,
		MaxFileSize:      2 * 1024 * 1024,
		AllowedTypes:     []string{"image/jpeg", "image/jpg", "image/png"},
	}
}

// Validate checks the config for values the renderer cannot work with.
func (c Config) Validate() error {
	switch {
	case c.ViewportSize <= 0:
		return fmt.Errorf("%w: viewport size must be positive, got %d", ErrInvalidConfig, c.ViewportSize)
	case c.Border < 0 || 2*c.Border >= c.ViewportSize:
		return fmt.Errorf("%w: border %d does not fit viewport %d", ErrInvalidConfig, c.Border, c.ViewportSize)
	case c.MinScale <= 0 || c.MaxScale <= 0:
		return fmt.Errorf("%w: scale bounds must be positive", ErrInvalidConfig)
	case c.MinScale > c.MaxScale:
		return fmt.Errorf("%w: min scale %.2f exceeds max scale %.2f", ErrInvalidConfig, c.MinScale, c.MaxScale)
	case c.ZoomInFactor <= 0 || c.ZoomOutFactor <= 0:
		return fmt.Errorf("%w: zoom factors must be positive", ErrInvalidConfig)
	case c.PreviewSize <= 0:
		return fmt.Errorf("%w: preview size must be positive, got %d", ErrInvalidConfig, c.PreviewSize)
	case c.ExportSize <= 0:
		return fmt.Errorf("%w: export size must be positive, got %d", ErrInvalidConfig, c.ExportSize)
	case c.ExportQuality < 1 || c.ExportQuality > 100:
		return fmt.Errorf("%w: export quality must be within 1-100, got %d", ErrInvalidConfig, c.ExportQuality)
	case c.MaxFileSize < 0:
		return fmt.Errorf("%w: max file size must not be negative", ErrInvalidConfig)
	case len(c.AllowedTypes) == 0:
		return fmt.Errorf("%w: no allowed file types", ErrInvalidConfig)
	}
	if _, err := ParseFormat(string(c.ExportFormat)); err != nil {
		return err
	}
	return nil
}

// withDefaults fills zero values that have an obvious default.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ZoomInFactor == 0 {
		c.ZoomInFactor = def.ZoomInFactor
	}
	if c.ZoomOutFactor == 0 {
		c.ZoomOutFactor = def.ZoomOutFactor
	}
	if c.ExportFormat == "" {
		c.ExportFormat = def.ExportFormat
	}
	if c.ExportBackground == nil {
		c.ExportBackground = def.ExportBackground
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = def.AllowedTypes
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// exportRatio is the factor mapping viewport pixels onto export pixels.
func (c Config) exportRatio() float64 {
	return float64(c.ExportSize) / float64(c.ViewportSize)
}

// viewportRadius is the radius of the interactive clip circle.
func (c Config) viewportRadius() float64 {
	return float64(c.ViewportSize)/2 - float64(c.Border)
}
