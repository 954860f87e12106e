package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvSfxMCPConfig = "SFX_MCP_CONFIG"
	EnvSfxMCPHome   = "SFX_MCP_HOME"
)

// RuntimePaths locates the server's home directory and the files under it.
type RuntimePaths struct {
	HomeDir    string
	ConfigPath string
	EnvPath    string
	OutputDir  string
}

// ResolveRuntimePaths determines the runtime layout. SFX_MCP_CONFIG pins
// the config file directly; otherwise SFX_MCP_HOME or ~/.sfx-mcp is used.
func ResolveRuntimePaths() RuntimePaths {
	if configPath := ExpandHome(strings.TrimSpace(os.Getenv(EnvSfxMCPConfig))); configPath != "" {
		return buildRuntimePaths(filepath.Dir(configPath), configPath)
	}

	homeDir := ExpandHome(strings.TrimSpace(os.Getenv(EnvSfxMCPHome)))
	if homeDir == "" {
		homeDir = defaultHome()
	}

	return buildRuntimePaths(homeDir, filepath.Join(homeDir, "config.json"))
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".sfx-mcp"
	}
	return filepath.Join(home, ".sfx-mcp")
}

func buildRuntimePaths(homeDir, configPath string) RuntimePaths {
	return RuntimePaths{
		HomeDir:    homeDir,
		ConfigPath: configPath,
		EnvPath:    filepath.Join(homeDir, ".env"),
		OutputDir:  filepath.Join(homeDir, "sfx"),
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
