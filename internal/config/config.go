// Package config loads the toolkit's YAML configuration and the generated
// hooks.env overrides consumed by the hook binaries.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type HookEntry struct {
	Name    string `yaml:"name"`
	Matcher string `yaml:"matcher,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

func (h *HookEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		h.Name = s
		return nil
	}
	var m struct {
		Name    string `yaml:"name"`
		Matcher string `yaml:"matcher"`
		Enabled *bool  `yaml:"enabled"`
	}
	if err := unmarshal(&m); err != nil {
		return err
	}
	h.Name = m.Name
	h.Matcher = m.Matcher
	h.Enabled = m.Enabled
	return nil
}

func (h HookEntry) Included() bool {
	return h.Enabled == nil || *h.Enabled
}

// Thresholds are the per-top-level-directory limits for the ls-suppress hook.
// Zero values mean "use the hook's built-in default".
type Thresholds struct {
	MaxBlocks  int `yaml:"maxBlocks,omitempty"`
	MaxEntries int `yaml:"maxEntries,omitempty"`
}

// Output controls where generated editor configs and binaries live.
type Output struct {
	BinDir    string   `yaml:"binDir,omitempty"`
	CursorDir string   `yaml:"cursorDir,omitempty"`
	ClaudeDir string   `yaml:"claudeDir,omitempty"`
	GlobalDir string   `yaml:"globalDir,omitempty"`
	Backends  []string `yaml:"backends,omitempty"`
}

type Config struct {
	Version     int               `yaml:"version"`
	Env         map[string]string `yaml:"env,omitempty"`
	LsSuppress  *Thresholds       `yaml:"lsSuppress,omitempty"`
	Output      *Output           `yaml:"output,omitempty"`
	PreToolUse  []HookEntry       `yaml:"preToolUse"`
	PostToolUse []HookEntry       `yaml:"postToolUse"`
}

// EventName and entries for that event.
type EventEntries struct {
	Event   string
	Entries *[]HookEntry
}

func (c *Config) Events() []EventEntries {
	return []EventEntries{
		{"preToolUse", &c.PreToolUse},
		{"postToolUse", &c.PostToolUse},
	}
}

// EnvMap merges the config's env block with the ls-suppress threshold
// overrides so gen-config can write a single hooks.env. Explicit env keys win
// over values derived from the thresholds section.
func (c *Config) EnvMap() map[string]string {
	out := make(map[string]string)
	if c.LsSuppress != nil {
		if c.LsSuppress.MaxBlocks > 0 {
			out["LS_SUPPRESS_MAX_BLOCKS"] = strconv.Itoa(c.LsSuppress.MaxBlocks)
		}
		if c.LsSuppress.MaxEntries > 0 {
			out["LS_SUPPRESS_MAX_ENTRIES"] = strconv.Itoa(c.LsSuppress.MaxEntries)
		}
	}
	for k, v := range c.Env {
		out[k] = v
	}
	return out
}

// FindConfigPath searches upward from the current working directory for a
// configuration file and returns the file path and the directory containing
// it. It looks for ".hooks/config.yaml" first and then "config.yaml" in each
// directory.
func FindConfigPath() (configPath, workDir string, err error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	startDir := dir
	for {
		p := filepath.Join(dir, ".hooks", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, dir, nil
		}
		p = filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("no .hooks/config.yaml or config.yaml found (searched up from %s)", startDir)
		}
		dir = parent
	}
}

// Load reads a YAML configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save marshals cfg to YAML and writes it to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// hookEnvFiles are the generated env files probed by LoadHookEnv, relative to
// the working directory the host runs the hook in.
var hookEnvFiles = []string{
	filepath.Join(".cursor", "hooks.env"),
	filepath.Join(".hooks", "hooks.env"),
}

// LoadHookEnv loads threshold overrides from the nearest generated hooks.env.
// Values already present in the process environment win, so the host can
// still override per-invocation.
func LoadHookEnv() {
	for _, p := range hookEnvFiles {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}
