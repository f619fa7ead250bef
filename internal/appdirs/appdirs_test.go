package appdirs

import (
	"path/filepath"
	"testing"
)

func TestResolveDataDirOverride(t *testing.T) {
	paths, err := resolve(resolveDeps{
		goos: "linux",
		getenv: func(key string) string {
			if key == DataDirEnv {
				return "/srv/storyforge"
			}
			return ""
		},
	})
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	if paths.ConfigFile != filepath.Join("/srv/storyforge", "config", "config.toml") {
		t.Fatalf("config file = %q", paths.ConfigFile)
	}
	if paths.OutputDir != filepath.Join("/srv/storyforge", "outputs") {
		t.Fatalf("output dir = %q", paths.OutputDir)
	}
	if paths.LogDir != filepath.Join("/srv/storyforge", "logs") {
		t.Fatalf("log dir = %q", paths.LogDir)
	}
}

func TestResolvePortableUsesExecutableDir(t *testing.T) {
	paths, err := resolve(resolveDeps{
		goos: "linux",
		getenv: func(key string) string {
			if key == PortableEnv {
				return "1"
			}
			return ""
		},
		executable: func() (string, error) { return "/opt/storyforge/storyforge", nil },
	})
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	wantConfig := filepath.Join("/opt/storyforge", "data", "config", "config.toml")
	if paths.ConfigFile != wantConfig {
		t.Fatalf("config file = %q, want %q", paths.ConfigFile, wantConfig)
	}
	wantOutput := filepath.Join("/opt/storyforge", "data", "outputs")
	if paths.OutputDir != wantOutput {
		t.Fatalf("output dir = %q, want %q", paths.OutputDir, wantOutput)
	}
}

func TestResolveNonWindowsDefaults(t *testing.T) {
	paths, err := resolve(resolveDeps{
		goos:   "linux",
		getenv: func(string) string { return "" },
	})
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	if paths.OutputDir != "outputs" {
		t.Fatalf("output dir = %q, want %q", paths.OutputDir, "outputs")
	}
	if paths.ConfigFile != filepath.Join("config", "config.toml") {
		t.Fatalf("config file = %q", paths.ConfigFile)
	}
	if paths.LogDir != "logs" {
		t.Fatalf("log dir = %q, want %q", paths.LogDir, "logs")
	}
}

func TestResolveWindowsUsesUserDirs(t *testing.T) {
	paths, err := resolve(resolveDeps{
		goos:          "windows",
		getenv:        func(string) string { return "" },
		userConfigDir: func() (string, error) { return `C:\Users\u\AppData\Roaming`, nil },
		userCacheDir:  func() (string, error) { return `C:\Users\u\AppData\Local`, nil },
	})
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	if paths.ConfigDir != filepath.Join(`C:\Users\u\AppData\Roaming`, "StoryForge") {
		t.Fatalf("config dir = %q", paths.ConfigDir)
	}
	if paths.OutputDir != filepath.Join(`C:\Users\u\AppData\Local`, "StoryForge", "outputs") {
		t.Fatalf("output dir = %q", paths.OutputDir)
	}
}

func TestRunPathsLayout(t *testing.T) {
	paths := Paths{OutputDir: "/data/out", CacheDir: "/data/cache"}

	if got := ScriptDirFor(paths); got != filepath.Join("/data/out", "scripts") {
		t.Fatalf("script dir = %q", got)
	}
	if got := VideoDirFor(paths); got != filepath.Join("/data/out", "videos") {
		t.Fatalf("video dir = %q", got)
	}
	if got := TempDirFor(paths, "run42"); got != filepath.Join("/data/out", "tmp", "run42") {
		t.Fatalf("temp dir = %q", got)
	}
	if got := DBPathFor(paths); got != filepath.Join("/data/cache", "storyforge.db") {
		t.Fatalf("db path = %q", got)
	}
}

func TestNormalizeEmptyDirsFallBack(t *testing.T) {
	paths := Paths{}
	if got := OutputRootFor(paths); got != "outputs" {
		t.Fatalf("output root = %q, want outputs", got)
	}
	if got := DBPathFor(paths); got != filepath.Join("cache", "storyforge.db") {
		t.Fatalf("db path = %q", got)
	}
}
