// Package main is the entry point for the loom text weaving tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/dshills/loom/internal/app"
	"github.com/dshills/loom/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	flagManifest  = pflag.StringP("manifest", "m", "", "Manifest file (YAML, TOML, or JSON)")
	flagOutput    = pflag.StringP("output", "o", "", "Output path; empty or '-' writes to stdout")
	flagSeparator = pflag.StringP("sep", "s", "", "Separator placed between positional input files")

	flagEncoding = pflag.StringP("encoding", "e", "", "Output encoding: utf-8, utf-16le, utf-16be")
	flagBOM      = pflag.Bool("bom", false, "Prefix the output with a byte order mark")
	flagGzip     = pflag.BoolP("gzip", "z", false, "Gzip-compress the output")
	flagDigest   = pflag.Bool("digest", false, "Compute a content digest of the encoded output")

	flagStats       = pflag.Bool("stats", false, "Print build statistics to stderr")
	flagStatsFormat = pflag.String("stats-format", "table", "Statistics format: table or json")

	flagWatch = pflag.BoolP("watch", "w", false, "Rebuild whenever a source file changes")

	flagConfig   = pflag.StringP("config", "c", "", "Path to configuration file")
	flagLogLevel = pflag.String("log-level", "", "Log level: debug, info, warn, error")
	flagVerbose  = pflag.Bool("verbose", false, "Shorthand for --log-level debug")

	flagChunkSize       = pflag.Int("chunk-size", 0, "Output chunk size in UTF-16 code units")
	flagInlineThreshold = pflag.Int("inline-threshold", -1, "Copy chunks up to this many units instead of splicing them")
	flagInitialCapacity = pflag.Int("initial-capacity", 0, "Initial pending buffer capacity in UTF-16 code units")

	flagVersion = pflag.BoolP("version", "v", false, "Show version information")
	flagHelp    = pflag.BoolP("help", "h", false, "Show help message")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Usage = usage
	pflag.Parse()

	if *flagHelp {
		usage()
		return 0
	}
	if *flagVersion {
		fmt.Printf("loom %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlagOverrides(&cfg)

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cfg.LogLevel)
		return 1
	}

	statsFormat := ""
	if *flagStats || pflag.CommandLine.Changed("stats-format") {
		statsFormat = *flagStatsFormat
	}

	application, err := app.New(cfg, app.Options{
		ManifestPath: *flagManifest,
		Inputs:       pflag.Args(),
		Separator:    *flagSeparator,
		Output:       *flagOutput,
		Digest:       *flagDigest,
		StatsFormat:  statsFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	if *flagWatch {
		err = application.Watch(ctx)
	} else {
		err = application.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// applyFlagOverrides layers explicitly set flags over loaded
// configuration. Boolean flags use Changed so "--bom=false" can
// override a config file that enables it.
func applyFlagOverrides(cfg *config.Config) {
	if *flagVerbose {
		cfg.LogLevel = "debug"
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if pflag.CommandLine.Changed("encoding") {
		cfg.Output.Encoding = *flagEncoding
	}
	if pflag.CommandLine.Changed("bom") {
		cfg.Output.BOM = *flagBOM
	}
	if pflag.CommandLine.Changed("gzip") {
		cfg.Output.Gzip = *flagGzip
	}
	if *flagChunkSize > 0 {
		cfg.Tuning.ChunkSize = *flagChunkSize
	}
	if *flagInlineThreshold >= 0 {
		cfg.Tuning.InlineThreshold = *flagInlineThreshold
	}
	if *flagInitialCapacity > 0 {
		cfg.Tuning.InitialCapacity = *flagInitialCapacity
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "loom - append-heavy text assembly with lazily streamed output\n\n")
	fmt.Fprintf(os.Stderr, "Usage: loom [options] [files...]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  loom a.txt b.txt -o out.txt       Concatenate files\n")
	fmt.Fprintf(os.Stderr, "  loom -s $'\\n' a.txt b.txt         Concatenate with separators to stdout\n")
	fmt.Fprintf(os.Stderr, "  loom -m loom.yaml -o out.txt      Build from a manifest\n")
	fmt.Fprintf(os.Stderr, "  loom -m loom.yaml -o out.txt -w   Rebuild on source changes\n")
	fmt.Fprintf(os.Stderr, "  loom -e utf-16le --bom a.txt      Re-encode with a byte order mark\n")
}
