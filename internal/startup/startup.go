package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"image-gallery/internal/logging"

	"github.com/BurntSushi/toml"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Defaults
const (
	DefaultThumbnailSize    = 320
	DefaultThumbnailQuality = 85
)

// Config holds all application configuration
type Config struct {
	BaseDir          string `toml:"base_dir"`
	ThumbnailSize    int    `toml:"thumbnail_size"`
	ThumbnailQuality int    `toml:"thumbnail_quality"`
	// Workers is the warm-up pool size; 0 sizes it from GOMAXPROCS.
	Workers     int    `toml:"workers"`
	UseVips     bool   `toml:"use_vips"`
	MetricsFile string `toml:"metrics_file"`
}

// DefaultConfig returns the configuration used when neither a file nor the
// environment sets a value.
func DefaultConfig() Config {
	return Config{
		BaseDir:          ".",
		ThumbnailSize:    DefaultThumbnailSize,
		ThumbnailQuality: DefaultThumbnailQuality,
		UseVips:          true,
	}
}

// LoadConfig builds the configuration from defaults, then the TOML file at
// path (skipped when path is empty), then environment variables. Invalid
// values are logged and replaced by defaults. Only an unreadable or
// malformed config file is an error.
func LoadConfig(path string) (*Config, error) {
	logBanner()
	logSystemInfo()

	cfg := DefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			logging.Warn("Unknown config key %q in %s", key.String(), path)
		}
		logging.Debug("Loaded config file %s", path)
	}

	cfg.BaseDir = getEnv("GALLERY_BASE_DIR", cfg.BaseDir)
	cfg.ThumbnailSize = getEnvInt("THUMBNAIL_SIZE", cfg.ThumbnailSize)
	cfg.ThumbnailQuality = getEnvInt("THUMBNAIL_QUALITY", cfg.ThumbnailQuality)
	cfg.Workers = getEnvInt("THUMBNAIL_WORKERS", cfg.Workers)
	cfg.UseVips = getEnvBool("USE_VIPS", cfg.UseVips)
	cfg.MetricsFile = getEnv("METRICS_FILE", cfg.MetricsFile)

	cfg.validate()

	baseDir, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory path: %w", err)
	}
	cfg.BaseDir = baseDir

	if err := checkDirectory(cfg.BaseDir); err != nil {
		logging.Warn("Base directory issue: %v", err)
	}

	cfg.log()
	return &cfg, nil
}

// validate replaces out-of-range values with their defaults.
func (c *Config) validate() {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.ThumbnailSize <= 0 {
		logging.Warn("Invalid thumbnail size %d, using default: %d", c.ThumbnailSize, DefaultThumbnailSize)
		c.ThumbnailSize = DefaultThumbnailSize
	}
	if c.ThumbnailQuality < 1 || c.ThumbnailQuality > 100 {
		logging.Warn("Invalid thumbnail quality %d, using default: %d", c.ThumbnailQuality, DefaultThumbnailQuality)
		c.ThumbnailQuality = DefaultThumbnailQuality
	}
	if c.Workers < 0 {
		logging.Warn("Invalid worker count %d, using automatic sizing", c.Workers)
		c.Workers = 0
	}
}

func (c *Config) log() {
	logging.Debug("------------------------------------------------------------")
	logging.Debug("CONFIGURATION")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  GALLERY_BASE_DIR:    %s", c.BaseDir)
	logging.Debug("  THUMBNAIL_SIZE:      %d", c.ThumbnailSize)
	logging.Debug("  THUMBNAIL_QUALITY:   %d", c.ThumbnailQuality)
	if c.Workers == 0 {
		logging.Debug("  THUMBNAIL_WORKERS:   auto")
	} else {
		logging.Debug("  THUMBNAIL_WORKERS:   %d", c.Workers)
	}
	logging.Debug("  USE_VIPS:            %v", c.UseVips)
	logging.Debug("  METRICS_FILE:        %s", valueOrNone(c.MetricsFile))
	logging.Debug("  LOG_LEVEL:           %s", logging.GetLevel())
}

// Helper functions

func logBanner() {
	logging.Debug("------------------------------------------------------------")
	logging.Debug("IMAGE GALLERY")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  Version:    %s", Version)
	logging.Debug("  Commit:     %s", Commit)
	logging.Debug("  Build Time: %s", BuildTime)
	logging.Debug("  Started:    %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	if !logging.IsDebugEnabled() {
		return
	}

	logging.Debug("  Go version:      %s", runtime.Version())
	logging.Debug("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Debug("  CPUs available:  %d", runtime.NumCPU())
	logging.Debug("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Debug("  (Container CPU limit detected)")
	}

	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
}

func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return errors.New("path exists but is not a directory")
	}
	return nil
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
