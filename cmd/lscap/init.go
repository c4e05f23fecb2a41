package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed config_default.yaml
var defaultConfigYAML []byte

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Seed a repo with .hooks/config.yaml and generate editor configs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			absTarget, err := filepath.Abs(target)
			if err != nil {
				return err
			}
			hooksDir := filepath.Join(absTarget, ".hooks")
			if err := os.MkdirAll(hooksDir, 0755); err != nil {
				return err
			}
			configPath := filepath.Join(hooksDir, "config.yaml")
			if err := os.WriteFile(configPath, defaultConfigYAML, 0644); err != nil {
				return err
			}
			fmt.Println("wrote", configPath)

			// Binaries are usually installed after init, so skip the check here.
			return generate(absTarget, true)
		},
	}
}
