package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/deepnoodle-ai/scripthost"
	_ "github.com/deepnoodle-ai/scripthost/builtins"
	"github.com/fatih/color"
)

// CLI configuration
type Config struct {
	ScriptFiles []string
	Expressions []string
	OptionsFile string
	ScriptRoot  string
	AlertsDir   string
	Verbose     bool
	JSON        bool
	Prepare     bool
	REPL        bool
}

func main() {
	os.Exit(execute(parseFlags()))
}

// execute runs the CLI and returns the process exit code: 0 on success, 1
// when a script or expression failed and 2 on a fatal error. The interpreter
// is closed before it returns.
func execute(config *Config) int {
	opts := scripthost.Options{}
	if config.OptionsFile != "" {
		var err error
		opts, err = scripthost.LoadOptionsFile(config.OptionsFile)
		if err != nil {
			color.Red("Failed to load options: %v", err)
			return 2
		}
	}
	if config.ScriptRoot != "" {
		opts.ScriptRoot = config.ScriptRoot
	}
	opts.Logger = setupLogger(config, opts.LogLevel)

	presenters := scripthost.MultiPresenter{scripthost.NewConsolePresenter(os.Stderr)}
	if config.AlertsDir != "" {
		presenters = append(presenters, scripthost.NewFilePresenter(config.AlertsDir))
		color.Blue("Alert log: %s", config.AlertsDir)
	}
	opts.Presenter = presenters

	manager, err := scripthost.New(opts)
	if err != nil {
		color.Red("Failed to create interpreter: %v", err)
		return 2
	}
	defer manager.Close()

	failed := false
	err = scripthost.Guard(func() {
		failed = run(manager, config)
	})
	if err != nil {
		color.Red("Fatal: %v", err)
		return 2
	}
	if failed {
		return 1
	}
	return 0
}

// run executes the requested files and expressions and reports whether any
// of them failed.
func run(manager *scripthost.Manager, config *Config) bool {
	failed := false
	for _, path := range config.ScriptFiles {
		ok, err := manager.RunScriptFile(path)
		if err != nil {
			panic(err)
		}
		if !ok {
			failed = true
		}
	}

	for _, expr := range config.Expressions {
		if config.Prepare {
			expr = scripthost.PrepareExpression(expr)
		}
		result, ok, err := manager.EvalString(expr)
		if err != nil {
			panic(err)
		}
		if !ok {
			failed = true
			continue
		}
		color.Green("%s", result)
	}

	if config.REPL || (len(config.ScriptFiles) == 0 && len(config.Expressions) == 0) {
		if err := runREPL(manager); err != nil {
			color.Red("Error: %v", err)
			return true
		}
	}
	return failed
}

func parseFlags() *Config {
	config := &Config{}

	var fileFlags, exprFlags stringSlice
	flag.Var(&fileFlags, "file", "Lua script to run (can be used multiple times)")
	flag.Var(&fileFlags, "f", "Lua script to run (shorthand)")
	flag.Var(&exprFlags, "expr", "Expression to evaluate and print (can be used multiple times)")
	flag.Var(&exprFlags, "e", "Expression to evaluate and print (shorthand)")

	flag.StringVar(&config.OptionsFile, "config", "", "Path to a YAML options file (optional)")
	flag.StringVar(&config.OptionsFile, "c", "", "Path to a YAML options file (shorthand)")
	flag.StringVar(&config.ScriptRoot, "root", "", "Directory script paths are resolved against (optional)")
	flag.StringVar(&config.AlertsDir, "alerts", "", "Directory to record script error alerts (optional)")

	flag.BoolVar(&config.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&config.Verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&config.JSON, "json", false, "Log in JSON format")
	flag.BoolVar(&config.Prepare, "metric", false, "Rewrite expressions as legacy metric text before evaluating")
	flag.BoolVar(&config.REPL, "repl", false, "Start an interactive prompt after running files and expressions")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `scripthost - run Lua scripts and expressions in an embedded interpreter

Usage: %s [options]

Examples:
  # Run a script
  %s -f init.lua

  # Evaluate expressions
  %s -e "2+2" -e "Year()"

  # Evaluate a legacy metric
  %s -metric -e "+50 // offset"

Options:
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	config.ScriptFiles = fileFlags
	config.Expressions = exprFlags
	config.ScriptFiles = append(config.ScriptFiles, flag.Args()...)
	return config
}

// Custom flag type for handling multiple values
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ", ")
}

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func setupLogger(config *Config, levelName string) *slog.Logger {
	level, err := scripthost.ParseLogLevel(levelName)
	if err != nil {
		level = slog.LevelWarn
	}
	if levelName == "" {
		level = slog.LevelWarn
	}
	if config.Verbose {
		level = slog.LevelDebug
	}
	if config.JSON {
		return scripthost.NewJSONLogger(os.Stderr, level)
	}
	return scripthost.NewLogger(os.Stderr, level)
}
