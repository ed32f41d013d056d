// Command straightedge evaluates construction scripts and verifies the
// constructions they build.
//
// Usage:
//
//	straightedge [-config file] script.geo...
//
// The exit status is 1 if any script fails to evaluate or builds an
// invalid construction.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/straightedge/pkg/config"
	"github.com/chazu/straightedge/pkg/engine"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("straightedge: ")
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("straightedge", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (default: search "+config.EnvConfigPath+", ./straightedge.yaml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(fs.Output(), "usage: straightedge [-config file] script...")
		return 2
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	if path != "" {
		log.Printf("using config %s", path)
	}

	policy, err := cfg.Policy()
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	app := NewApp(engine.NewEngine(engine.WithTimeout(cfg.Engine.Timeout)), policy)

	status := 0
	for _, script := range fs.Args() {
		if !checkScript(app, script, out) {
			status = 1
		}
	}
	return status
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// checkScript evaluates and verifies one script, printing the outcome.
// It reports whether the construction was valid.
func checkScript(app *App, script string, out io.Writer) bool {
	source, err := os.ReadFile(script)
	if err != nil {
		log.Printf("read %s: %v", script, err)
		return false
	}

	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(out, "%s:%d: %s\n", script, e.Line, e.Message)
			} else {
				fmt.Fprintf(out, "%s: %s\n", script, e.Message)
			}
		}
		return false
	}

	v := result.Verification
	for _, w := range v.Warnings {
		fmt.Fprintf(out, "%s: warning: %s %s: %s\n", script, w.Kind, w.ID, w.Message)
	}
	if !v.Valid {
		fmt.Fprintf(out, "%s: invalid %s %s: %s (%s)\n", script, v.Kind, v.ID, v.Reason, v.Message)
		return false
	}
	fmt.Fprintf(out, "%s: valid (%d points, %d lines)\n", script, len(result.Points), len(result.Lines))
	return true
}
