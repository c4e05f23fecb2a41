package hooks

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Default per-top-level-directory limits before a subtree is collapsed.
const (
	defaultMaxBlocks  = 40
	defaultMaxEntries = 1200
)

// rootMarker is the canonical path of the listing root ("." or "./" in ls output).
const rootMarker = "."

var (
	envAssignToken = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)
	shortFlagGroup = regexp.MustCompile(`^-[a-zA-Z]*R`)
)

// isRecursiveListing reports whether cmd invokes `ls` with recursion.
// Heuristic token scan, not a shell parser: leading NAME=value assignments
// are skipped, the next token must be exactly "ls", and recursion means a
// short-flag cluster containing R or a standalone --recursive anywhere in
// the remainder. Flags hidden behind variables or aliases are not detected.
func isRecursiveListing(cmd string) bool {
	fields := strings.Fields(cmd)
	i := 0
	for i < len(fields) && envAssignToken.MatchString(fields[i]) {
		i++
	}
	if i >= len(fields) || fields[i] != "ls" {
		return false
	}
	for _, tok := range fields[i+1:] {
		if tok == "--recursive" || shortFlagGroup.MatchString(tok) {
			return true
		}
	}
	return false
}

// block is one directory section of recursive ls output: a colon-terminated
// header line followed by entry names.
type block struct {
	path    string
	header  string
	entries []string
}

// parseListing splits raw ls -R output into ordered per-directory blocks.
// The parse is total: blank lines are dropped, CRLF is tolerated, and entry
// lines seen before any header are attached to a synthesized root block so
// malformed output never crashes or loses data.
func parseListing(text string) []*block {
	var blocks []*block
	var cur *block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			path := strings.TrimSpace(strings.TrimSuffix(line, ":"))
			if path == rootMarker || path == "./" {
				path = rootMarker
			} else {
				path = strings.TrimRight(path, "/")
			}
			cur = &block{path: path, header: line}
			blocks = append(blocks, cur)
			continue
		}
		if cur == nil {
			cur = &block{path: rootMarker, header: rootMarker + ":"}
			blocks = append(blocks, cur)
		}
		cur.entries = append(cur.entries, strings.TrimLeft(line, " \t"))
	}
	return blocks
}

// topDirStats aggregates all blocks under one immediate child of the root.
type topDirStats struct {
	blocks  int
	entries int
}

// topLevelDir returns the first path segment beneath the root, or "" if the
// path has no component beyond the root.
func topLevelDir(path string) string {
	path = strings.TrimPrefix(path, "./")
	for _, seg := range strings.Split(path, "/") {
		if seg != "" && seg != rootMarker {
			return seg
		}
	}
	return ""
}

// aggregateTopDirs computes per-top-level-directory block and entry counts.
// The root block itself belongs to no top-level directory.
func aggregateTopDirs(blocks []*block) map[string]*topDirStats {
	stats := make(map[string]*topDirStats)
	for _, b := range blocks {
		if b.path == rootMarker {
			continue
		}
		top := topLevelDir(b.path)
		if top == "" {
			continue
		}
		st, ok := stats[top]
		if !ok {
			st = &topDirStats{}
			stats[top] = st
		}
		st.blocks++
		st.entries += len(b.entries)
	}
	return stats
}

// suppressedDirs returns the top-level directories whose stats exceed either
// limit. Comparisons are strict: exactly at the limit is kept.
func suppressedDirs(stats map[string]*topDirStats, maxBlocks, maxEntries int) map[string]*topDirStats {
	suppressed := make(map[string]*topDirStats)
	for name, st := range stats {
		if st.blocks > maxBlocks || st.entries > maxEntries {
			suppressed[name] = st
		}
	}
	return suppressed
}

// rewriteListing reassembles the listing with suppressed subtrees elided.
// The root block is reproduced with suppressed entries annotated in place
// (matching on the name minus one trailing slash, emitting the entry as
// written); every other surviving block is reproduced byte-identically in
// original order.
func rewriteListing(blocks []*block, suppressed map[string]*topDirStats) string {
	var sb strings.Builder
	var root *block
	for _, b := range blocks {
		if b.path == rootMarker {
			root = b
			break
		}
	}
	if root != nil {
		sb.WriteString(root.header + "\n")
		for _, e := range root.entries {
			if st, ok := suppressed[strings.TrimSuffix(e, "/")]; ok {
				fmt.Fprintf(&sb, "%s  # suppressed (%d dirs, %d entries)\n", e, st.blocks, st.entries)
			} else {
				sb.WriteString(e + "\n")
			}
		}
		sb.WriteString("\n")
	}
	for _, b := range blocks {
		if b.path == rootMarker {
			continue
		}
		if _, ok := suppressed[topLevelDir(b.path)]; ok {
			continue
		}
		sb.WriteString(b.header + "\n")
		for _, e := range b.entries {
			sb.WriteString(e + "\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), " \t\n")
}

// envLimit reads a positive integer from the environment, falling back to
// def when unset, non-numeric, or non-positive.
func envLimit(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// LsSuppress is a postToolUse hook that rewrites recursive ls output so that
// top-level directories producing excessive output (node_modules, target,
// .venv and friends) collapse into a single annotated line in the root
// listing, keeping the rest of the listing intact. Limits come from
// LS_SUPPRESS_MAX_BLOCKS and LS_SUPPRESS_MAX_ENTRIES. The hook never blocks;
// when nothing exceeds a limit the original output is left untouched.
func LsSuppress(input HookInput) (HookResult, int) {
	if input.ToolName != "Shell" {
		return Allow(), 0
	}
	if !isRecursiveListing(input.Command()) {
		return Allow(), 0
	}
	out, ok := input.Output()
	if !ok {
		return Allow(), 0
	}

	maxBlocks := envLimit("LS_SUPPRESS_MAX_BLOCKS", defaultMaxBlocks)
	maxEntries := envLimit("LS_SUPPRESS_MAX_ENTRIES", defaultMaxEntries)

	blocks := parseListing(out)
	suppressed := suppressedDirs(aggregateTopDirs(blocks), maxBlocks, maxEntries)
	if len(suppressed) == 0 {
		return Allow(), 0
	}

	return ReplaceOutput(rewriteListing(blocks, suppressed)), 0
}
