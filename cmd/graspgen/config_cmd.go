// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVlabs/GraspGen/internal/config"
)

func runConfigCLI(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage()
		return 0
	}

	configureLogging()

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "dump":
		return runConfigDump(args[1:])
	case "diff":
		return runConfigDiff(args[1:])
	case "migrate":
		return runConfigMigrate(args[1:])
	case "deprecations":
		fmt.Print(config.DeprecationSummary())
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  graspgen config validate [--file|-f graspgen.yaml]")
	fmt.Fprintln(os.Stderr, "  graspgen config dump --effective [--file|-f graspgen.yaml] [--format=yaml|json]")
	fmt.Fprintln(os.Stderr, "  graspgen config diff --old old.yaml --new new.yaml")
	fmt.Fprintln(os.Stderr, "  graspgen config migrate --file graspgen.yaml [--write]")
	fmt.Fprintln(os.Stderr, "  graspgen config deprecations")
}

func requireConfigPath(file string) (string, bool) {
	configPath := strings.TrimSpace(file)
	if configPath == "" {
		configPath = resolveDefaultConfigPath()
	}
	if configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required (no default graspgen.yaml found in $GRASPGEN_CONFIG_DIR)")
		return "", false
	}
	return configPath, true
}

func runConfigValidate(args []string) int {
	fs := flag.NewFlagSet("graspgen config validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath, ok := requireConfigPath(file)
	if !ok {
		return 2
	}

	loader := config.NewLoader(configPath, version)
	if _, err := loader.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return 1
	}

	fmt.Printf("%s is valid\n", configPath)
	return 0
}

func runConfigDump(args []string) int {
	fs := flag.NewFlagSet("graspgen config dump", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	var format string
	var effective bool

	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	fs.BoolVar(&effective, "effective", false, "dump effective configuration (defaults + file + env)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if !effective {
		fmt.Fprintln(os.Stderr, "Error: --effective is required")
		return 2
	}

	configPath, ok := requireConfigPath(file)
	if !ok {
		return 2
	}

	loader := config.NewLoader(configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return 1
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(config.CanonicalFileConfig(cfg)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode YAML: %v\n", err)
			return 1
		}
		_ = enc.Close()
		return 0
	case "json":
		out, err := config.DumpJSON(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (expected yaml or json)\n", format)
		return 2
	}
}

func runConfigDiff(args []string) int {
	fs := flag.NewFlagSet("graspgen config diff", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var oldFile, newFile string
	var asJSON bool
	fs.StringVar(&oldFile, "old", "", "path to the old YAML configuration file")
	fs.StringVar(&newFile, "new", "", "path to the new YAML configuration file")
	fs.BoolVar(&asJSON, "json", false, "emit the diff as JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if oldFile == "" || newFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --old and --new are required")
		return 2
	}

	oldCfg, err := config.NewLoader(oldFile, version).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", oldFile, err)
		return 1
	}
	newCfg, err := config.NewLoader(newFile, version).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", newFile, err)
		return 1
	}

	summary, err := config.Diff(oldCfg, newCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to diff configurations: %v\n", err)
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
		return 0
	}

	if summary.Empty() {
		fmt.Println("no changes")
		return 0
	}
	for _, c := range summary.Changes {
		fmt.Printf("%s: %v -> %v\n", c.Path, c.Old, c.New)
	}
	if summary.RestartRequired {
		fmt.Println("restart required")
	}
	return 0
}

func runConfigMigrate(args []string) int {
	fs := flag.NewFlagSet("graspgen config migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	var write bool
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.BoolVar(&write, "write", false, "rewrite the file in place instead of printing the plan")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath, ok := requireConfigPath(file)
	if !ok {
		return 2
	}

	changed, err := config.MigrateFile(configPath, write)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed for %s:\n  %v\n", configPath, err)
		return 1
	}

	if len(changed) == 0 {
		fmt.Printf("%s is already current\n", configPath)
		return 0
	}
	if !write {
		fmt.Printf("%s would migrate (%s); re-run with --write to apply\n", configPath, strings.Join(changed, ", "))
		return 0
	}
	fmt.Printf("%s migrated (%s)\n", configPath, strings.Join(changed, ", "))
	return 0
}
