package main

import (
	"flag"
	"fmt"
	"os"

	"cvdd/internal/di"
	"cvdd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug output")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "cvdd: %s\n", err)
		os.Exit(1)
	}
}
