// Package appdirs decides where the application keeps its files on disk:
// config, logs, generated outputs and the task database. The data root is
// chosen from, in order: an explicit STORYFORGE_DATA_DIR, portable mode
// next to the binary, the platform user directories on Windows, and the
// working directory everywhere else.
package appdirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	DataDirEnv  = "STORYFORGE_DATA_DIR"
	PortableEnv = "STORYFORGE_PORTABLE"

	appName        = "StoryForge"
	configFileName = "config.toml"
)

type Paths struct {
	ConfigDir  string
	ConfigFile string
	LogDir     string
	OutputDir  string
	CacheDir   string
}

type resolveDeps struct {
	goos          string
	getenv        func(string) string
	executable    func() (string, error)
	userConfigDir func() (string, error)
	userCacheDir  func() (string, error)
}

func Resolve() (Paths, error) {
	return resolve(resolveDeps{
		goos:          runtime.GOOS,
		getenv:        os.Getenv,
		executable:    os.Executable,
		userConfigDir: os.UserConfigDir,
		userCacheDir:  os.UserCacheDir,
	})
}

func resolve(rawDeps resolveDeps) (Paths, error) {
	deps := withDefaults(rawDeps)

	if root := strings.TrimSpace(deps.getenv(DataDirEnv)); root != "" {
		return layoutUnder(root), nil
	}
	if envEnabled(deps.getenv(PortableEnv)) {
		executablePath, err := deps.executable()
		if err != nil {
			return Paths{}, err
		}
		return layoutUnder(filepath.Join(filepath.Dir(executablePath), "data")), nil
	}
	if deps.goos == "windows" {
		return resolveWindows(deps)
	}
	return layoutUnder("."), nil
}

func withDefaults(deps resolveDeps) resolveDeps {
	if deps.goos == "" {
		deps.goos = runtime.GOOS
	}
	if deps.getenv == nil {
		deps.getenv = os.Getenv
	}
	if deps.executable == nil {
		deps.executable = os.Executable
	}
	if deps.userConfigDir == nil {
		deps.userConfigDir = os.UserConfigDir
	}
	if deps.userCacheDir == nil {
		deps.userCacheDir = os.UserCacheDir
	}
	return deps
}

// layoutUnder lays the standard subdirectories out under a single root.
// Every non-Windows configuration reduces to this.
func layoutUnder(root string) Paths {
	configDir := filepath.Join(root, "config")
	return Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		LogDir:     filepath.Join(root, "logs"),
		OutputDir:  filepath.Join(root, "outputs"),
		CacheDir:   filepath.Join(root, "cache"),
	}
}

// resolveWindows splits config from the bulkier artifacts the way the
// platform expects: config under the roaming profile, everything else
// under the local one.
func resolveWindows(deps resolveDeps) (Paths, error) {
	configRoot, err := deps.userConfigDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(configRoot) == "" {
		return Paths{}, errors.New("user config dir is empty")
	}

	cacheRoot, err := deps.userCacheDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(cacheRoot) == "" {
		return Paths{}, errors.New("user cache dir is empty")
	}

	paths := layoutUnder(filepath.Join(cacheRoot, appName))
	paths.ConfigDir = filepath.Join(configRoot, appName)
	paths.ConfigFile = filepath.Join(paths.ConfigDir, configFileName)
	return paths, nil
}

func envEnabled(value string) bool {
	normalized := strings.TrimSpace(strings.ToLower(value))
	return normalized == "1" || normalized == "true"
}
