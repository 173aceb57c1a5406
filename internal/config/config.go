package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/shelf/internal/visibility"
	"github.com/charmbracelet/shelf/internal/window"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	appName              = "shelf"
	defaultDataDirectory = ".shelf"
	defaultItemHeight    = 4
	defaultThumbWidth    = 8
	defaultRootMargin    = "100%"
)

type ThumbnailOptions struct {
	Disabled bool `json:"disabled,omitempty" jsonschema:"description=Never load product thumbnails"`
	// Eager skips visibility detection and loads a thumbnail as soon as its
	// row is materialized.
	Eager             bool      `json:"eager,omitempty" jsonschema:"description=Load thumbnails as soon as rows are materialized"`
	Width             int       `json:"width,omitempty" jsonschema:"description=Thumbnail width in cells,default=8,minimum=2"`
	RootMargin        string    `json:"root_margin,omitempty" jsonschema:"description=Margin around the viewport that counts as visible,default=100%,example=50%,example=4px 0px"`
	Threshold         []float64 `json:"threshold,omitempty" jsonschema:"description=Visible ratios that trigger a visibility change"`
	FreezeOnceVisible *bool     `json:"freeze_once_visible,omitempty" jsonschema:"description=Stop observing a row once it was seen,default=true"`
}

type Options struct {
	Overscan      *int              `json:"overscan,omitempty" jsonschema:"description=Extra rows rendered above and below the viewport,default=5,minimum=0"`
	ItemHeight    int               `json:"item_height,omitempty" jsonschema:"description=Height of a product row in cells,default=4,minimum=1"`
	Scrollbar     *bool             `json:"scrollbar,omitempty" jsonschema:"description=Show a scrollbar next to the product list,default=true"`
	Debug         bool              `json:"debug,omitempty" jsonschema:"description=Enable debug logging"`
	DataDirectory string            `json:"data_directory,omitempty" jsonschema:"description=Directory for logs and state relative to the working directory,default=.shelf"` // Relative to the cwd
	Thumbnails    *ThumbnailOptions `json:"thumbnails,omitempty" jsonschema:"description=Product thumbnail settings"`
}

// Config holds the configuration for shelf.
type Config struct {
	// Catalog is the path of a JSON product catalog.
	Catalog string `json:"catalog,omitempty" jsonschema:"description=Path to a JSON product catalog"`
	// Images is a directory scanned for thumbnails when generating a catalog.
	Images string `json:"images,omitempty" jsonschema:"description=Directory of product images used for generated catalogs"`

	Options *Options `json:"options,omitempty" jsonschema:"description=General options"`

	// Internal
	workingDir    string `json:"-"`
	dataConfigDir string `json:"-"`
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// Overscan returns the configured overscan, or the window default.
func (c *Config) Overscan() int {
	if c.Options == nil || c.Options.Overscan == nil {
		return window.DefaultOverscan
	}
	return *c.Options.Overscan
}

// ShowScrollbar reports whether the list draws a scrollbar.
func (c *Config) ShowScrollbar() bool {
	if c.Options == nil || c.Options.Scrollbar == nil {
		return true
	}
	return *c.Options.Scrollbar
}

// ObserverOptions builds the visibility options used by product rows.
func (c *Config) ObserverOptions() visibility.Options {
	t := c.thumbnails()
	freeze := true
	if t.FreezeOnceVisible != nil {
		freeze = *t.FreezeOnceVisible
	}
	return visibility.Options{
		Threshold:         t.Threshold,
		RootMargin:        t.RootMargin,
		FreezeOnceVisible: freeze,
	}
}

func (c *Config) thumbnails() ThumbnailOptions {
	if c.Options == nil || c.Options.Thumbnails == nil {
		return ThumbnailOptions{Width: defaultThumbWidth, RootMargin: defaultRootMargin}
	}
	return *c.Options.Thumbnails
}

// Thumbnails returns the thumbnail options with defaults applied.
func (c *Config) Thumbnails() ThumbnailOptions {
	return c.thumbnails()
}

// LogFile is where the application log is written.
func (c *Config) LogFile() string {
	return filepath.Join(c.Options.DataDirectory, "logs", fmt.Sprintf("%s.log", appName))
}

// Validate checks the options that cannot be fixed up with defaults.
func (c *Config) Validate() error {
	if c.Options == nil {
		return fmt.Errorf("options not set")
	}
	if c.Overscan() < 0 {
		return fmt.Errorf("invalid overscan %d: must not be negative", c.Overscan())
	}
	if c.Options.ItemHeight < 1 {
		return fmt.Errorf("invalid item height %d: must be at least 1", c.Options.ItemHeight)
	}
	if w := c.thumbnails().Width; w < 2 {
		return fmt.Errorf("invalid thumbnail width %d: must be at least 2", w)
	}
	if _, err := c.ObserverOptions().Config(); err != nil {
		return fmt.Errorf("invalid thumbnail visibility options: %w", err)
	}
	return nil
}

// DataConfigPath is the file SetConfigField writes to.
func (c *Config) DataConfigPath() string {
	return c.dataConfigDir
}

func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigField reads a field from the persisted data config. ok is false
// when the file or the field does not exist.
func (c *Config) GetConfigField(key string) (value string, ok bool, err error) {
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read config file: %w", err)
	}
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		return "", false, nil
	}
	return res.String(), true, nil
}
