package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ServerURL returns the base URL of the destination configuration service.
func ServerURL() string {
	return viper.GetString("server.url")
}

// ListenAddr returns the address the import server listens on.
func ListenAddr() string {
	return viper.GetString("serve.listen")
}

// TmpDir returns the root directory for per-import workspaces.
func TmpDir() string {
	dir := viper.GetString("import.tmp_dir")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "botimport")
	}
	return dir
}

// ImportTimeout returns how long an import request waits for the pipeline.
func ImportTimeout() time.Duration {
	return time.Duration(viper.GetInt("import.timeout_seconds")) * time.Second
}
