package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hexi/internal/evaluator"
	"hexi/internal/parser"
	"hexi/internal/repl"
	"hexi/internal/runner"
	"hexi/internal/util"
)

const SourceExtension = ".hx"

var (
	// Version is overridden at build time with -ldflags.
	Version   = "0.2.4"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath string
	debugAST   bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Path to a TOML configuration file (default $HEXI_HOME/hexi.toml)")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Render the AST as a JSON file")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if version {
		printVersion()
		return 0
	}

	if help {
		printHelp()
		return 0
	}

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hexi::error] reading config: %v\n", err)
		return 1
	}

	// Creates a new Logger that uses a JSONHandler to write to standard error
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	if logWriter != os.Stderr {
		defer logWriter.Close()
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logWriter, loggerOptions)))

	ev := evaluator.New()
	defer func() {
		if err := ev.Close(); err != nil {
			slog.Warn("failed to release handles", slog.Any("error", err))
		}
	}()

	for _, module := range config.Preload {
		if err := ev.Include(module); err != nil {
			fmt.Fprintf(os.Stderr, "[hexi::error] preloading module: %v\n", err)
			return 1
		}
	}

	if filename := flag.Arg(0); filename != "" {
		return runFile(ev, filename, config)
	}

	if isTerminal(os.Stdin) {
		err = repl.StartInteractive(os.Stdout, ev, config)
	} else {
		err = repl.Start(os.Stdin, os.Stdout, ev, config)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hexi::error] error reading input: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig layers defaults, the TOML file and flags set on the command line.
func loadConfig() (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	config.HexiHome = os.Getenv("HEXI_HOME")

	path, explicit := configPath, configPath != ""
	if !explicit {
		path = util.DefaultConfigPath(config.HexiHome)
	}
	config, err := util.LoadConfiguration(config, path, explicit)
	if err != nil {
		return config, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "debug-ast":
			config.DebugAST = debugAST
		}
	})
	return config, nil
}

// runFile executes a source file. Language errors are reported on stdout
// and do not change the exit status.
func runFile(ev *evaluator.Evaluator, filename string, config util.Configuration) int {
	if !strings.HasSuffix(filename, SourceExtension) {
		fmt.Fprintln(os.Stderr, "[hexi::error] file must have .hx extension")
		return 1
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hexi::error] reading file '%s': %v\n", filename, err)
		return 1
	}

	if config.DebugAST {
		if program, err := runner.Parse(string(src)); err == nil {
			if err := parser.WriteASTToJSON(program, filename+".ast.json"); err != nil {
				slog.Error("failed to write AST", slog.String("file", filename), slog.Any("error", err))
			}
		}
	}

	slog.Debug("running file", slog.String("file", filename))
	_ = runner.Execute(ev, string(src), os.Stdout)
	return 0
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func configureLogWriter(logFile string) io.WriteCloser {
	if logFile == "" {
		return os.Stderr
	}
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	logWriter, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("hexi version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: hexi [options] [filename.hx]

Options:
  -config <path>     Read settings from a TOML file. Default is $HEXI_HOME/hexi.toml when present.
  -debug-ast         Write the parsed program as JSON next to the source file.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
Without a filename hexi starts an interactive session.

Examples:
  hexi                          Start the REPL
  hexi script.hx                Execute the provided hexi file
  hexi -log-level=debug x.hx    Execute with debug logging enabled

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
