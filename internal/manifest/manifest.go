// Package manifest describes what loom assembles: an ordered list of
// pieces parsed from a YAML, TOML or JSON manifest file. Pieces name
// content sources (files, glob patterns, literals, separators, Lua
// scripts); resolving a manifest expands globs into concrete file
// pieces.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	yaml "gopkg.in/yaml.v3"
)

// Kind discriminates piece sources.
type Kind int

const (
	// KindFile reads one file's content.
	KindFile Kind = iota
	// KindGlob expands a pattern into file pieces at resolve time.
	KindGlob
	// KindLiteral is inline text from the manifest itself.
	KindLiteral
	// KindSep is a separator literal, kept distinct so assembly can
	// treat boundaries specially (separators flush).
	KindSep
	// KindScript runs a Lua script and uses its emitted text.
	KindScript
)

// String returns the manifest key for the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindGlob:
		return "glob"
	case KindLiteral:
		return "literal"
	case KindSep:
		return "sep"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// Piece is one entry of a manifest.
type Piece struct {
	Kind Kind

	// Value is the path, pattern, or text, according to Kind.
	Value string

	// Repeat emits the piece this many times (default 1).
	Repeat int

	// Encoding optionally names the input byte encoding for file
	// pieces (utf-8, utf-16le, utf-16be). Empty means UTF-8 with BOM
	// detection.
	Encoding string
}

// Manifest is an ordered list of pieces plus the directory its
// relative paths resolve against.
type Manifest struct {
	Pieces []Piece

	// Dir is the directory of the manifest file; relative piece paths
	// are resolved against it.
	Dir string

	// Path is the manifest file location, empty for synthesized
	// manifests.
	Path string
}

// FromFiles synthesizes a manifest from explicit file paths with an
// optional separator between them, for command lines without a
// manifest file.
func FromFiles(paths []string, sep string) *Manifest {
	m := &Manifest{Dir: "."}
	for i, p := range paths {
		if i > 0 && sep != "" {
			m.Pieces = append(m.Pieces, Piece{Kind: KindSep, Value: sep, Repeat: 1})
		}
		m.Pieces = append(m.Pieces, Piece{Kind: KindFile, Value: p, Repeat: 1})
	}
	return m
}

// ParseFile reads and parses a manifest file, dispatching on its
// extension (.yaml/.yml, .toml, .json).
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "reading manifest")
	}
	m, err := Parse(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, errors.Annotatef(err, "manifest %s", path)
	}
	m.Dir = filepath.Dir(path)
	m.Path = path
	return m, nil
}

// Parse parses manifest data in the format named by ext.
func Parse(data []byte, ext string) (*Manifest, error) {
	var (
		raw rawManifest
		err error
	)
	switch ext {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		raw, err = parseJSON(data)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, errors.Errorf("unsupported manifest format %q", ext)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "parsing")
	}

	m := &Manifest{Dir: "."}
	for i, rp := range raw.Pieces {
		p, err := rp.piece()
		if err != nil {
			return nil, errors.Annotatef(err, "piece %d", i+1)
		}
		m.Pieces = append(m.Pieces, p)
	}
	if len(m.Pieces) == 0 {
		return nil, errors.Errorf("manifest has no pieces")
	}
	return m, nil
}

// rawPiece mirrors one manifest entry before validation. Literal and
// sep are pointers so empty strings still count as present.
type rawPiece struct {
	File     string  `yaml:"file" toml:"file"`
	Glob     string  `yaml:"glob" toml:"glob"`
	Literal  *string `yaml:"literal" toml:"literal"`
	Sep      *string `yaml:"sep" toml:"sep"`
	Script   string  `yaml:"script" toml:"script"`
	Repeat   int     `yaml:"repeat" toml:"repeat"`
	Encoding string  `yaml:"encoding" toml:"encoding"`
}

type rawManifest struct {
	Pieces []rawPiece `yaml:"pieces" toml:"pieces"`
}

// piece validates a raw entry: exactly one source key, sane repeat.
func (rp rawPiece) piece() (Piece, error) {
	p := Piece{Repeat: rp.Repeat, Encoding: rp.Encoding}
	if p.Repeat == 0 {
		p.Repeat = 1
	}
	if p.Repeat < 0 {
		return Piece{}, errors.Errorf("repeat must be positive, got %d", rp.Repeat)
	}

	set := 0
	if rp.File != "" {
		p.Kind, p.Value = KindFile, rp.File
		set++
	}
	if rp.Glob != "" {
		p.Kind, p.Value = KindGlob, rp.Glob
		set++
	}
	if rp.Literal != nil {
		p.Kind, p.Value = KindLiteral, *rp.Literal
		set++
	}
	if rp.Sep != nil {
		p.Kind, p.Value = KindSep, *rp.Sep
		set++
	}
	if rp.Script != "" {
		p.Kind, p.Value = KindScript, rp.Script
		set++
	}
	if set != 1 {
		return Piece{}, errors.Errorf("exactly one of file, glob, literal, sep, script must be set")
	}
	if p.Encoding != "" && p.Kind != KindFile && p.Kind != KindGlob {
		return Piece{}, errors.Errorf("encoding applies only to file and glob pieces")
	}
	return p, nil
}

// parseJSON extracts the manifest from JSON without an intermediate
// decode of the whole document.
func parseJSON(data []byte) (rawManifest, error) {
	var raw rawManifest
	if !gjson.ValidBytes(data) {
		return raw, errors.Errorf("invalid JSON")
	}
	pieces := gjson.GetBytes(data, "pieces")
	if !pieces.Exists() {
		return raw, nil
	}
	pieces.ForEach(func(_, entry gjson.Result) bool {
		rp := rawPiece{
			File:     entry.Get("file").String(),
			Glob:     entry.Get("glob").String(),
			Script:   entry.Get("script").String(),
			Repeat:   int(entry.Get("repeat").Int()),
			Encoding: entry.Get("encoding").String(),
		}
		if lit := entry.Get("literal"); lit.Exists() {
			s := lit.String()
			rp.Literal = &s
		}
		if sep := entry.Get("sep"); sep.Exists() {
			s := sep.String()
			rp.Sep = &s
		}
		raw.Pieces = append(raw.Pieces, rp)
		return true
	})
	return raw, nil
}
