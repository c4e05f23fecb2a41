package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"lscap/internal/config"
)

func newGenConfigCmd() *cobra.Command {
	var skipValidate bool
	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: "Generate Cursor and Claude hook configs from .hooks/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(".", skipValidate)
		},
	}
	cmd.Flags().BoolVar(&skipValidate, "skip-validate", false, "skip hook binary existence check (e.g. for init before bins installed)")
	return cmd
}

func findConfig(dir string) (string, error) {
	for _, p := range []string{
		filepath.Join(dir, ".hooks", "config.yaml"),
		filepath.Join(dir, "config.yaml"),
	} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no .hooks/config.yaml or config.yaml in %s", dir)
}

func filterEntries(entries []config.HookEntry) []config.HookEntry {
	var out []config.HookEntry
	for _, e := range entries {
		if e.Included() {
			out = append(out, e)
		}
	}
	return out
}

func allEntries(cfg *config.Config) []config.HookEntry {
	var out []config.HookEntry
	for _, ev := range cfg.Events() {
		out = append(out, filterEntries(*ev.Entries)...)
	}
	return out
}

func validateHookBinaries(cfg *config.Config, binDir string) error {
	seen := make(map[string]bool)
	for _, e := range allEntries(cfg) {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		path := filepath.Join(binDir, e.Name)
		if info, err := os.Stat(path); err != nil {
			return fmt.Errorf("hook %q: binary not found at %s (run: make install)", e.Name, path)
		} else if info.IsDir() {
			return fmt.Errorf("hook %q: %s is a directory, expected binary", e.Name, path)
		}
	}
	return nil
}

// generate emits editor hook configs under dir from the toolkit config file.
func generate(dir string, skipValidate bool) error {
	configPath, err := findConfig(dir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", configPath, err)
	}

	binPrefix := "./.hooks/bin/"
	if cfg.Output != nil && cfg.Output.BinDir != "" {
		binPrefix = config.ExpandHome(cfg.Output.BinDir)
		if !strings.HasSuffix(binPrefix, "/") {
			binPrefix += "/"
		}
	}

	if !skipValidate {
		if err := validateHookBinaries(cfg, filepath.Join(dir, ".hooks", "bin")); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	cursorDir := ".cursor"
	claudeDir := ".claude"
	if cfg.Output != nil && cfg.Output.CursorDir != "" {
		cursorDir = cfg.Output.CursorDir
	}
	if cfg.Output != nil && cfg.Output.ClaudeDir != "" {
		claudeDir = cfg.Output.ClaudeDir
	}
	if d := os.Getenv("HOOK_CONFIG_CURSOR_DIR"); d != "" {
		cursorDir = d
	}
	if d := os.Getenv("HOOK_CONFIG_CLAUDE_DIR"); d != "" {
		claudeDir = d
	}

	var backends []string
	if cfg.Output != nil {
		backends = cfg.Output.Backends
	}

	var cursorJSON []byte
	if wantBackend(backends, "cursor") {
		cursorPath := filepath.Join(dir, cursorDir, "hooks.json")
		cursorJSON, _ = json.MarshalIndent(cursorConfig(cfg, binPrefix), "", "  ")
		if err := writeFile(cursorPath, cursorJSON); err != nil {
			return err
		}

		if env := cfg.EnvMap(); len(env) > 0 {
			if err := writeFile(filepath.Join(dir, cursorDir, "hooks.env"), envFile(env)); err != nil {
				return err
			}
		}
	}

	if wantBackend(backends, "claude") {
		claudePath := filepath.Join(dir, claudeDir, "settings.json")
		claudeJSON, _ := json.MarshalIndent(claudeConfig(cfg, binPrefix), "", "  ")
		if err := writeFile(claudePath, claudeJSON); err != nil {
			return err
		}
	}

	// Optional: mirror the Cursor config into a global directory.
	if len(cursorJSON) > 0 && cfg.Output != nil && cfg.Output.GlobalDir != "" {
		globalDir := config.ExpandHome(cfg.Output.GlobalDir)
		if err := writeFile(filepath.Join(globalDir, "hooks.json"), cursorJSON); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Println("wrote", path)
	return nil
}

// wantBackend returns true if backends is empty (all) or contains name.
func wantBackend(backends []string, name string) bool {
	if len(backends) == 0 {
		return true
	}
	for _, b := range backends {
		if b == name {
			return true
		}
	}
	return false
}

func envFile(env map[string]string) []byte {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k + "=" + env[k] + "\n")
	}
	return []byte(sb.String())
}

func cursorConfig(cfg *config.Config, binPrefix string) map[string]interface{} {
	hook := func(entries []config.HookEntry) []map[string]interface{} {
		out := make([]map[string]interface{}, 0, len(entries))
		for _, e := range entries {
			m := map[string]interface{}{"command": binPrefix + e.Name}
			if e.Matcher != "" {
				m["matcher"] = e.Matcher
			}
			out = append(out, m)
		}
		return out
	}
	return map[string]interface{}{
		"version": cfg.Version,
		"hooks": map[string]interface{}{
			"preToolUse":  hook(filterEntries(cfg.PreToolUse)),
			"postToolUse": hook(filterEntries(cfg.PostToolUse)),
		},
	}
}

func claudeConfig(cfg *config.Config, binPrefix string) map[string]interface{} {
	return map[string]interface{}{
		"hooks": map[string]interface{}{
			"PreToolUse":  claudeHookSection(filterEntries(cfg.PreToolUse), binPrefix),
			"PostToolUse": claudeHookSection(filterEntries(cfg.PostToolUse), binPrefix),
		},
	}
}

// claudeHookSection groups entries by matcher, keeping first-seen order.
func claudeHookSection(entries []config.HookEntry, binPrefix string) []map[string]interface{} {
	groups := make(map[string][]config.HookEntry)
	var order []string
	for _, e := range entries {
		m := e.Matcher
		if m == "" {
			m = ".*"
		}
		if _, ok := groups[m]; !ok {
			order = append(order, m)
		}
		groups[m] = append(groups[m], e)
	}
	out := make([]map[string]interface{}, 0, len(order))
	for _, m := range order {
		hooks := make([]map[string]interface{}, 0, len(groups[m]))
		for _, e := range groups[m] {
			hooks = append(hooks, map[string]interface{}{"type": "command", "command": binPrefix + e.Name})
		}
		out = append(out, map[string]interface{}{"matcher": m, "hooks": hooks})
	}
	return out
}
