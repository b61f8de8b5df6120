package app

import (
	"context"
	"io"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/juju/errors"

	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/manifest"
	"github.com/dshills/loom/internal/script"
	"github.com/dshills/loom/internal/sink"
	"github.com/dshills/loom/lazytext"
)

// Options selects what one invocation builds and where it goes.
type Options struct {
	// ManifestPath locates the manifest file. Empty means the build is
	// synthesized from Inputs.
	ManifestPath string

	// Inputs are positional input files, used when no manifest is
	// given.
	Inputs []string

	// Separator is placed between Inputs.
	Separator string

	// Output is the destination path. Empty or "-" means stdout.
	Output string

	// Digest computes a content digest of the encoded output.
	Digest bool

	// StatsFormat renders build statistics after a successful build:
	// "table", "json", or empty for none.
	StatsFormat string
}

// App runs the loom pipeline: load a manifest, assemble its pieces
// into a builder, drive the build, and stream the result out.
type App struct {
	cfg    config.Config
	opts   Options
	log    *Logger
	runner *script.Runner
	driver *lazytext.Driver

	// statsOut receives rendered statistics. Defaults to stderr so
	// stdout stays clean for piped output.
	statsOut io.Writer

	// stdin backs "-" pieces.
	stdin io.Reader
}

// New creates an App from resolved configuration and invocation
// options.
func New(cfg config.Config, opts Options) (*App, error) {
	if opts.ManifestPath == "" && len(opts.Inputs) == 0 {
		return nil, errors.Errorf("nothing to build: pass a manifest or input files")
	}
	if opts.ManifestPath != "" && len(opts.Inputs) > 0 {
		return nil, errors.Errorf("cannot combine a manifest with positional inputs")
	}
	switch opts.StatsFormat {
	case "", "table", "json":
	default:
		return nil, errors.Errorf("unknown stats format %q", opts.StatsFormat)
	}

	return &App{
		cfg:  cfg,
		opts: opts,
		log: NewLogger(LoggerConfig{
			Level:  ParseLogLevel(cfg.LogLevel),
			Output: os.Stderr,
			Prefix: "loom",
		}),
		runner:   script.NewRunner(),
		driver:   lazytext.NewDriver(cfg.DriverOptions()...),
		statsOut: os.Stderr,
		stdin:    os.Stdin,
	}, nil
}

// SetLogger replaces the app logger.
func (a *App) SetLogger(l *Logger) {
	if l != nil {
		a.log = l
	}
}

// SetStatsOutput redirects rendered statistics.
func (a *App) SetStatsOutput(w io.Writer) {
	if w != nil {
		a.statsOut = w
	}
}

// SetStdin replaces the reader behind "-" pieces.
func (a *App) SetStdin(r io.Reader) {
	if r != nil {
		a.stdin = r
	}
}

// Run performs one build and writes the result.
func (a *App) Run(ctx context.Context) error {
	rep, err := a.buildOnce(ctx)
	if err != nil {
		return errors.Trace(err)
	}

	a.log.Info("wrote %s: %s in %s",
		displayPath(a.opts.Output),
		humanize.IBytes(uint64(rep.Result.Written)),
		rep.Elapsed.Round(time.Millisecond))

	if a.opts.StatsFormat != "" {
		if err := RenderStats(a.statsOut, rep, a.opts.StatsFormat); err != nil {
			return errors.Annotatef(err, "rendering stats")
		}
	}
	return nil
}

// buildOnce runs the whole pipeline one time.
func (a *App) buildOnce(ctx context.Context) (*Report, error) {
	start := time.Now()

	m, err := a.loadManifest()
	if err != nil {
		return nil, errors.Trace(err)
	}
	pieces, err := m.Resolve()
	if err != nil {
		return nil, errors.Trace(err)
	}

	b, pieceStats, err := a.assemble(ctx, pieces)
	if err != nil {
		return nil, errors.Trace(err)
	}

	txt := a.driver.Build(b)
	rep := &Report{
		Pieces:  pieceStats,
		Sources: manifest.Sources(m, pieces),
	}
	if a.statsEnabled() {
		// Forces the text; the write below replays memoized chunks.
		rep.Summary = txt.Summary()
		rep.Chunks = countChunks(txt)
	}

	sinkOpts, err := a.sinkOptions()
	if err != nil {
		return nil, errors.Trace(err)
	}
	res, err := sink.WriteFile(a.opts.Output, txt, sinkOpts)
	if err != nil {
		return nil, errors.Trace(err)
	}

	rep.Result = res
	rep.Elapsed = time.Since(start)
	return rep, nil
}

// loadManifest parses the manifest file, or synthesizes one from the
// positional inputs.
func (a *App) loadManifest() (*manifest.Manifest, error) {
	if a.opts.ManifestPath != "" {
		return manifest.ParseFile(a.opts.ManifestPath)
	}
	return manifest.FromFiles(a.opts.Inputs, a.opts.Separator), nil
}

// assemble turns resolved pieces into one builder, left to right.
func (a *App) assemble(ctx context.Context, pieces []manifest.Piece) (lazytext.Builder, []PieceStat, error) {
	b := lazytext.Empty()
	var stats []PieceStat

	for i, p := range pieces {
		pb, err := a.pieceBuilder(ctx, p)
		if err != nil {
			return lazytext.Empty(), nil, errors.Annotatef(err, "piece %d (%s)", i+1, p.Kind)
		}

		if a.statsEnabled() {
			stats = append(stats, PieceStat{
				Index:  i + 1,
				Kind:   p.Kind.String(),
				Source: pieceSource(p),
				Repeat: p.Repeat,
				Units:  a.driver.Build(pb).Len(),
			})
		}

		if p.Repeat > 1 {
			pb = lazytext.Repeat(pb, p.Repeat)
		}
		b = b.Append(pb)
	}
	return b, stats, nil
}

// pieceBuilder maps one manifest piece to a builder.
func (a *App) pieceBuilder(ctx context.Context, p manifest.Piece) (lazytext.Builder, error) {
	switch p.Kind {
	case manifest.KindFile:
		data, err := a.readSource(p.Value)
		if err != nil {
			return lazytext.Empty(), errors.Annotatef(err, "reading %s", p.Value)
		}
		enc := lazytext.UTF8
		if p.Encoding != "" {
			enc, err = lazytext.ParseEncoding(p.Encoding)
			if err != nil {
				return lazytext.Empty(), errors.Trace(err)
			}
		}
		txt, err := lazytext.DecodeBytes(data, enc)
		if err != nil {
			return lazytext.Empty(), errors.Annotatef(err, "decoding %s", p.Value)
		}
		return lazytext.FromText(txt), nil

	case manifest.KindLiteral:
		return lazytext.FromString(p.Value), nil

	case manifest.KindSep:
		// Separators sit on chunk boundaries so concatenated sources
		// stay chunk-aligned in the output.
		return lazytext.Concat(lazytext.Flush(), lazytext.FromString(p.Value), lazytext.Flush()), nil

	case manifest.KindScript:
		return a.runner.Run(ctx, p.Value)

	default:
		return lazytext.Empty(), errors.Errorf("unresolved %s piece", p.Kind)
	}
}

func (a *App) statsEnabled() bool {
	return a.opts.StatsFormat != ""
}

// readSource loads one file piece; "-" reads stdin.
func (a *App) readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(path)
}

// sinkOptions maps output configuration onto the sink.
func (a *App) sinkOptions() (sink.Options, error) {
	enc, err := lazytext.ParseEncoding(a.cfg.Output.Encoding)
	if err != nil {
		return sink.Options{}, errors.Trace(err)
	}
	return sink.Options{
		Encoding: enc,
		BOM:      a.cfg.Output.BOM,
		Gzip:     a.cfg.Output.Gzip,
		Digest:   a.opts.Digest,
	}, nil
}

func countChunks(t lazytext.Text) int {
	n := 0
	it := t.Chunks()
	for it.Next() {
		n++
	}
	return n
}

func displayPath(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
