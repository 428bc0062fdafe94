package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/robinbraemer/logpuzzle"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "logpuzzle"

	// DefaultTimeout bounds the fetch of a single image.
	DefaultTimeout = 30 * time.Second
)

// Listing formats used when no destination directory is given.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Config holds all options of one logpuzzle run.
type Config struct {
	// LogFile is the Apache access log to read.
	LogFile string

	// ToDir is the directory to download the images into.
	// When empty the URLs are printed instead.
	ToDir string

	// BaseURL is prepended to every puzzle path found in the log.
	BaseURL string

	// Timeout is the timeout for fetching a single image. Zero means none.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with image requests.
	UserAgent string

	// KeepGoing skips images that fail to download instead of aborting.
	KeepGoing bool

	// Quiet disables the progress bar and per image status lines.
	Quiet bool

	// Verbose enables debug logging.
	Verbose bool

	// Format is the listing format, FormatText or FormatMarkdown.
	Format string

	// TempDir holds images while they are downloading.
	TempDir string

	// ConfigFilePath is the configuration file given on the command line.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:   logpuzzle.DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: logpuzzle.DefaultUserAgent,
		Format:    FormatText,
		TempDir:   XDGCacheDir(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.LogFile == "" {
		return ErrNoLogFile
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	switch c.Format {
	case FormatText, FormatMarkdown:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}
	return nil
}

// Apply overrides the values set in the configuration file f.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.BaseURL != "" {
		c.BaseURL = strings.TrimSuffix(f.BaseURL, "/")
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.KeepGoing != nil {
		c.KeepGoing = *f.KeepGoing
	}
	if f.Quiet != nil {
		c.Quiet = *f.Quiet
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.TempDir != "" {
		c.TempDir = f.TempDir
	}
}

// FailurePolicy maps KeepGoing to the download failure policy.
func (c *Config) FailurePolicy() logpuzzle.FailurePolicy {
	if c.KeepGoing {
		return logpuzzle.Skip
	}
	return logpuzzle.Abort
}

// XDGConfigDir returns the configuration directory (~/.config/logpuzzle on Linux).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the cache directory (~/.cache/logpuzzle on Linux).
// In-flight downloads live here.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}
