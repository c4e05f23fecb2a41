package hooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// HookInput is the JSON payload piped to hooks via stdin.
type HookInput struct {
	ToolName     string          `json:"tool_name"`
	ToolInput    json.RawMessage `json:"tool_input"`
	ToolResponse json.RawMessage `json:"tool_response"`
}

// Command extracts the "command" field from tool_input (Shell tool).
func (h *HookInput) Command() string {
	var m map[string]interface{}
	if err := json.Unmarshal(h.ToolInput, &m); err != nil {
		return ""
	}
	if v, ok := m["command"].(string); ok {
		return v
	}
	return ""
}

// Cwd extracts the "cwd" field from tool_input.
func (h *HookInput) Cwd() string {
	var m map[string]interface{}
	if err := json.Unmarshal(h.ToolInput, &m); err != nil {
		return ""
	}
	if v, ok := m["cwd"].(string); ok {
		return v
	}
	return ""
}

// textFragment is one element of a content-list tool response.
type textFragment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Output returns the captured text output of the tool call. Hosts ship the
// response in one of several shapes, tried in priority order: a bare JSON
// string, an object with a "stdout" string field, or a list of text-typed
// content fragments joined by newlines. Returns false if none yields a string.
func (h *HookInput) Output() (string, bool) {
	raw := bytes.TrimSpace(h.ToolResponse)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var obj struct {
		Stdout *string `json:"stdout"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Stdout != nil {
		return *obj.Stdout, true
	}
	var frags []textFragment
	if err := json.Unmarshal(raw, &frags); err == nil {
		var parts []string
		for _, f := range frags {
			if f.Type == "text" {
				parts = append(parts, f.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n"), true
		}
	}
	return "", false
}

// HookResult is the JSON output from a hook.
type HookResult struct {
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`

	// Output, when non-nil, replaces the tool's captured output. A pointer
	// keeps "replace with empty text" distinct from "no replacement".
	Output *string `json:"output,omitempty"`
}

func Allow() HookResult {
	return HookResult{Decision: "allow"}
}

func AllowMsg(msg string) HookResult {
	return HookResult{Decision: "allow", Message: msg}
}

func Deny(reason string) HookResult {
	return HookResult{Decision: "deny", Reason: reason}
}

// ReplaceOutput allows the call and substitutes the tool's output.
func ReplaceOutput(out string) HookResult {
	return HookResult{Decision: "allow", Output: &out}
}

// ReadInput reads and parses HookInput from the given reader.
func ReadInput(r io.Reader) (HookInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return HookInput{}, fmt.Errorf("reading stdin: %w", err)
	}
	var input HookInput
	if err := json.Unmarshal(data, &input); err != nil {
		return HookInput{}, fmt.Errorf("parsing input: %w", err)
	}
	return input, nil
}

// IsHookDisabled returns true if name is listed in HOOK_DISABLED (comma-separated, trimmed).
func IsHookDisabled(name string) bool {
	v := os.Getenv("HOOK_DISABLED")
	if v == "" {
		return false
	}
	for _, s := range strings.Split(v, ",") {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}

// Run is the standard entrypoint for a hook binary.
// It reads stdin, calls the hook function, writes the JSON result to stdout,
// and exits with the appropriate code.
func Run(hookFn func(HookInput) (HookResult, int)) {
	input, err := ReadInput(os.Stdin)
	if err != nil {
		// Fail open on parse errors
		fmt.Println(`{"decision": "allow"}`)
		os.Exit(0)
	}

	result, exitCode := hookFn(input)
	out, _ := json.Marshal(result)
	fmt.Println(string(out))
	os.Exit(exitCode)
}

// RunOrDisabled runs the hook unless its name is in HOOK_DISABLED; then outputs allow and exits 0.
func RunOrDisabled(name string, hookFn func(HookInput) (HookResult, int)) {
	if IsHookDisabled(name) {
		fmt.Println(`{"decision": "allow"}`)
		os.Exit(0)
	}
	Run(hookFn)
}
