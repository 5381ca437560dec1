// SPDX-License-Identifier: MIT
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVlabs/GraspGen/internal/log"
)

var (
	version   = "v2.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "serve":
			os.Exit(runServe(os.Args[2:]))
		case "version":
			fmt.Printf("graspgen %s (commit: %s, built: %s)\n", version, commit, buildDate)
			os.Exit(0)
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("graspgen %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	printUsage()
	os.Exit(2)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  graspgen config <validate|dump|diff|migrate|deprecations> [flags]")
	fmt.Fprintln(os.Stderr, "  graspgen serve [--config graspgen.yaml] [--listen :8088]")
	fmt.Fprintln(os.Stderr, "  graspgen version")
}

// resolveDefaultConfigPath finds ${GRASPGEN_CONFIG_DIR}/graspgen.yaml when
// no explicit --file was given. Returns "" when no default file exists.
func resolveDefaultConfigPath() string {
	dir := strings.TrimSpace(os.Getenv("GRASPGEN_CONFIG_DIR"))
	if dir == "" {
		dir = "configs"
	}
	autoPath := filepath.Join(dir, "graspgen.yaml")
	if _, err := os.Stat(autoPath); err == nil {
		return autoPath
	}
	return ""
}

func configureLogging() {
	log.Configure(log.Config{
		Level:   "info",
		Service: "graspgen",
	})
}
