// Package config loads render settings from TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-pathtracer/pkg/loaders"
)

// ErrInvalid is returned when a configuration cannot be used for a render
var ErrInvalid = errors.New("invalid configuration")

// Config is the contents of a render file. Zero render values mean "use the scene's
// recommended setting".
type Config struct {
	Render RenderConfig `toml:"render"`
	Scene  SceneConfig  `toml:"scene"`
	Output OutputConfig `toml:"output"`
}

// RenderConfig holds image size and sampling settings
type RenderConfig struct {
	Width           int   `toml:"width"`
	Height          int   `toml:"height"`
	SamplesPerPixel int   `toml:"samples_per_pixel"`
	MaxDepth        int   `toml:"max_depth"`
	Threads         int   `toml:"threads"` // 0 means one worker per CPU
	Seed            int64 `toml:"seed"`
	Passes          int   `toml:"passes"`
}

// SceneConfig selects a built-in scene by registry ID
type SceneConfig struct {
	Name string `toml:"name"`
}

// OutputConfig controls where the image is written.
// Format may be left empty when the path has an extension.
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		Render: RenderConfig{
			Seed:   42,
			Passes: 1,
		},
		Scene:  SceneConfig{Name: "cornell-box"},
		Output: OutputConfig{Path: "output/render.png"},
	}
}

// Load reads and validates a TOML render file. Values missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return Config{}, fmt.Errorf("%w: line %d column %d: %v", ErrInvalid, row, col, decodeErr)
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every value is usable
func (c Config) Validate() error {
	r := c.Render
	switch {
	case r.Width < 0 || r.Height < 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalid, r.Width, r.Height)
	case r.Height > 0 && r.Width == 0:
		return fmt.Errorf("%w: height requires width", ErrInvalid)
	case r.SamplesPerPixel < 0:
		return fmt.Errorf("%w: samples_per_pixel %d", ErrInvalid, r.SamplesPerPixel)
	case r.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth %d", ErrInvalid, r.MaxDepth)
	case r.Threads < 0:
		return fmt.Errorf("%w: threads %d", ErrInvalid, r.Threads)
	case r.Passes < 0:
		return fmt.Errorf("%w: passes %d", ErrInvalid, r.Passes)
	case c.Scene.Name == "":
		return fmt.Errorf("%w: scene name is empty", ErrInvalid)
	case c.Output.Path == "":
		return fmt.Errorf("%w: output path is empty", ErrInvalid)
	}

	if _, err := c.OutputFormat(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// OutputFormat returns the configured format, falling back to the path's extension
func (c Config) OutputFormat() (loaders.ImageFormat, error) {
	var (
		format loaders.ImageFormat
		err    error
	)
	if c.Output.Format != "" {
		format, err = loaders.ParseImageFormat(c.Output.Format)
	} else {
		format, err = loaders.FormatFromPath(c.Output.Path)
	}
	if err != nil {
		return "", err
	}
	if format == loaders.FormatWebP {
		return "", fmt.Errorf("%w: webp output is not supported", loaders.ErrUnknownFormat)
	}
	return format, nil
}

// OutputPath returns the output path with an extension matching OutputFormat
func (c Config) OutputPath() string {
	format, err := c.OutputFormat()
	if err != nil {
		return c.Output.Path
	}
	if current, err := loaders.FormatFromPath(c.Output.Path); err == nil && current == format {
		return c.Output.Path
	}
	ext := filepath.Ext(c.Output.Path)
	return c.Output.Path[:len(c.Output.Path)-len(ext)] + "." + string(format)
}

// AspectRatio returns width/height when both are set, otherwise 0
func (r RenderConfig) AspectRatio() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}
