package main

import (
	"lscap/internal/config"
	"lscap/internal/hooks"
	"lscap/internal/logging"

	"go.uber.org/zap"
)

func main() {
	config.LoadHookEnv()
	log := logging.ForHook("ls-suppress")

	// Run exits the process, so sync inside the hook closure.
	hooks.RunOrDisabled("ls-suppress", func(input hooks.HookInput) (hooks.HookResult, int) {
		result, code := hooks.LsSuppress(input)
		log.Debug("ls-suppress decision",
			zap.String("tool", input.ToolName),
			zap.String("command", input.Command()),
			zap.Bool("replaced", result.Output != nil))
		_ = log.Sync()
		return result, code
	})
}
