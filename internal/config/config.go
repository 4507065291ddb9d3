package config

import (
	"fmt"
	"image/color"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/stampcam/internal/watermark"
)

type Config struct {
	Preview   PreviewConfig   `yaml:"preview"`
	Capture   CaptureConfig   `yaml:"capture"`
	Source    SourceConfig    `yaml:"source"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Server    ServerConfig    `yaml:"server"`
}

type PreviewConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	DevicePixelRatio float64 `yaml:"device_pixel_ratio"`
	FrameIntervalMs  int     `yaml:"frame_interval_ms"`
}

type CaptureConfig struct {
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	JPEGQuality     int    `yaml:"jpeg_quality"`
	OutputDir       string `yaml:"output_dir"`
	FilenamePattern string `yaml:"filename_pattern,omitempty"`
}

type SourceConfig struct {
	Mode      string `yaml:"mode"`
	Facing    string `yaml:"facing"`
	Image     string `yaml:"image,omitempty"`
	FramesDir string `yaml:"frames_dir,omitempty"`
}

type WatermarkConfig struct {
	Corner      string `yaml:"corner"`
	Time        string `yaml:"time,omitempty"`
	Date        string `yaml:"date,omitempty"`
	Day         string `yaml:"day,omitempty"`
	TimeFormat  string `yaml:"time_format,omitempty"`
	DateFormat  string `yaml:"date_format,omitempty"`
	DayFormat   string `yaml:"day_format,omitempty"`
	Address     string `yaml:"address"`
	Logo        string `yaml:"logo,omitempty"`
	AccentColor string `yaml:"accent_color"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	ModeCamera  = "camera"
	ModeGallery = "gallery"

	FacingUser        = "user"
	FacingEnvironment = "environment"
)

const (
	DefaultCorner  = "bottom-left"
	DefaultAddress = "Yayasan Widya Dharma, Sukasada, Kabupaten Buleleng, Bali, 81161"
	DefaultAccent  = "#F5B700"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Default returns a config with every default applied
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) validate() error {
	if c.Preview.Width < 0 || c.Preview.Height < 0 {
		return fmt.Errorf("preview size must be positive")
	}
	if c.Preview.DevicePixelRatio < 0 {
		return fmt.Errorf("preview.device_pixel_ratio must be positive")
	}
	if c.Preview.FrameIntervalMs < 0 {
		return fmt.Errorf("preview.frame_interval_ms must be positive")
	}
	if c.Capture.Width < 0 || c.Capture.Height < 0 {
		return fmt.Errorf("capture size must be positive")
	}
	if c.Capture.JPEGQuality < 0 || c.Capture.JPEGQuality > 100 {
		return fmt.Errorf("capture.jpeg_quality must be between 1 and 100")
	}

	switch c.Source.Mode {
	case "", ModeCamera:
	case ModeGallery:
		if c.Source.Image == "" {
			return fmt.Errorf("source.image is required in gallery mode")
		}
	default:
		return fmt.Errorf("unknown source.mode: %q", c.Source.Mode)
	}
	switch c.Source.Facing {
	case "", FacingUser, FacingEnvironment:
	default:
		return fmt.Errorf("unknown source.facing: %q", c.Source.Facing)
	}

	if c.Watermark.Corner != "" {
		if _, err := watermark.ParseCorner(c.Watermark.Corner); err != nil {
			return fmt.Errorf("watermark.corner: %w", err)
		}
	}
	if c.Watermark.AccentColor != "" && !hexColor.MatchString(c.Watermark.AccentColor) {
		return fmt.Errorf("watermark.accent_color must look like #rrggbb, got %q", c.Watermark.AccentColor)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Preview.Width == 0 {
		c.Preview.Width = 300
	}
	if c.Preview.Height == 0 {
		c.Preview.Height = 400
	}
	if c.Preview.DevicePixelRatio == 0 {
		c.Preview.DevicePixelRatio = 1
	}
	if c.Preview.FrameIntervalMs == 0 {
		c.Preview.FrameIntervalMs = 33
	}
	if c.Capture.Width == 0 {
		c.Capture.Width = 3000
	}
	if c.Capture.Height == 0 {
		c.Capture.Height = 4000
	}
	if c.Capture.JPEGQuality == 0 {
		c.Capture.JPEGQuality = 95
	}
	if c.Capture.OutputDir == "" {
		c.Capture.OutputDir = "."
	}
	if c.Source.Mode == "" {
		c.Source.Mode = ModeCamera
	}
	if c.Source.Facing == "" {
		c.Source.Facing = FacingEnvironment
	}
	if c.Watermark.Corner == "" {
		c.Watermark.Corner = DefaultCorner
	}
	if c.Watermark.Address == "" {
		c.Watermark.Address = DefaultAddress
	}
	if c.Watermark.AccentColor == "" {
		c.Watermark.AccentColor = DefaultAccent
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// Mirror reports whether the background is flipped: only a user-facing camera is
func (c *Config) Mirror() bool {
	return c.Source.Mode == ModeCamera && c.Source.Facing == FacingUser
}

// ParsedCorner returns the configured corner, or the default for an invalid value
func (w WatermarkConfig) ParsedCorner() watermark.Corner {
	corner, err := watermark.ParseCorner(w.Corner)
	if err != nil {
		corner, _ = watermark.ParseCorner(DefaultCorner)
	}
	return corner
}

// Accent returns the divider bar color
func (w WatermarkConfig) Accent() color.RGBA {
	if !hexColor.MatchString(w.AccentColor) {
		return watermark.DefaultAccent
	}
	var r, g, b uint8
	fmt.Sscanf(w.AccentColor, "#%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// UpdateCorner rewrites the watermark corner in a config file
// while preserving the rest of the file structure and comments
func UpdateCorner(path string, corner watermark.Corner) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	cornerRegex := regexp.MustCompile(`(?m)^(\s*corner:\s*)("[^"]*"|'[^']*'|[A-Za-z_-]+)`)
	if !cornerRegex.MatchString(content) {
		return fmt.Errorf("no corner setting in %s", path)
	}
	content = cornerRegex.ReplaceAllString(content, fmt.Sprintf("${1}%s", corner))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a new config file with default values and the given corner
func CreateDefaultConfig(path string, corner watermark.Corner) error {
	content := fmt.Sprintf(`# Stampcam Configuration

preview:
  width: 300
  height: 400
  device_pixel_ratio: 1
  frame_interval_ms: 33

capture:
  width: 3000
  height: 4000
  jpeg_quality: 95
  output_dir: "."
  # strftime pattern; empty names files by unix milliseconds
  # filename_pattern: "IMG_%%Y%%m%%d_%%H%%M%%S.jpg"

source:
  mode: camera        # camera | gallery
  facing: environment # user | environment
  # image: photo.jpg  # required in gallery mode
  # frames_dir: frames

watermark:
  corner: %s
  # time, date and day are taken from the clock unless set here
  # time: "14:05"
  address: "%s"
  # logo: logo.png
  accent_color: "%s"

server:
  addr: ":8080"
`, corner, DefaultAddress, DefaultAccent)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
