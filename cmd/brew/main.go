// Command brew runs Brew source files.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/brewlang/brew/internal/config"
	"github.com/brewlang/brew/internal/diagnostics"
	"github.com/brewlang/brew/internal/driver"
	"github.com/brewlang/brew/internal/evaluator"
	"github.com/brewlang/brew/internal/host"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s run <file.brew> [-config <file.yaml>]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s version\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-version", "--version":
		fmt.Println("brew " + version)
		return
	case "run":
		runCommand(os.Args[2:])
	default:
		// bare `brew script.brew` is shorthand for `brew run script.brew`
		runCommand(os.Args[1:])
	}
}

func runCommand(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	path := args[0]
	cfgPath := ""
	for i := 1; i < len(args)-1; i++ {
		if args[i] == "-config" {
			cfgPath = args[i+1]
		}
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "brew: could not load config %s: %v\n", cfgPath, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "brew: could not read %s: %v\n", path, err)
		os.Exit(1)
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprintf(os.Stderr, "brew %s: running %s\n", version, path)
	}

	term := host.NewTerminal(os.Stdin, os.Stdout)
	runErr := driver.Run(string(source), term, cfg)
	if runErr == nil {
		return
	}

	if brewErr, ok := runErr.(*evaluator.Error); ok {
		diagnostics.Report(os.Stderr, brewErr)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, runErr)
	os.Exit(2)
}
