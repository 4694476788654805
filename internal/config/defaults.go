package config

import (
	"os"
	"time"
)

// Default configuration values.
const (
	DefaultCloudURL         = "https://commitpulse.pxxl.click"
	DefaultCloudTimeout     = 30 * time.Second
	DefaultAvatarsGitHub    = true
	DefaultAvatarsCacheSize = 256
	DefaultAvatarsTimeout   = 5 * time.Second
	DefaultScanMaxDepth     = 3
	DefaultOutputTheme      = "dark"
	DefaultVendorFilter     = false
	DefaultLogJSON          = false
)

// DefaultOutputDir is where local dashboards are written.
func DefaultOutputDir() string {
	return os.TempDir()
}
