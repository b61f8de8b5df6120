package manifest

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/juju/errors"
)

// Resolve expands glob pieces into concrete file pieces and rewrites
// relative paths against the manifest directory. The result preserves
// piece order; glob matches are sorted for determinism.
func (m *Manifest) Resolve() ([]Piece, error) {
	var out []Piece
	for i, p := range m.Pieces {
		switch p.Kind {
		case KindFile, KindScript:
			p.Value = m.abs(p.Value)
			out = append(out, p)
		case KindGlob:
			files, err := m.expandGlob(p.Value)
			if err != nil {
				return nil, errors.Annotatef(err, "piece %d", i+1)
			}
			for _, f := range files {
				out = append(out, Piece{Kind: KindFile, Value: f, Repeat: p.Repeat, Encoding: p.Encoding})
			}
		default:
			out = append(out, p)
		}
	}
	return out, nil
}

// expandGlob walks the manifest directory and collects files whose
// slash-separated relative path matches the pattern. Matching no file
// is an error: a pattern that contributes nothing is nearly always a
// typo, and failing loud beats weaving an incomplete output.
func (m *Manifest) expandGlob(pattern string) ([]string, error) {
	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errors.Annotatef(err, "parsing glob %q", pattern)
	}

	root := m.Dir
	if root == "" {
		root = "."
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if matcher.Match(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.Annotatef(walkErr, "walking %s", root)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("glob %q matched no files under %s", pattern, root)
	}
	sort.Strings(files)
	return files, nil
}

// Sources lists the files a rebuild depends on: every resolved file
// and script piece, plus the manifest itself. Used by watch mode.
// Stdin pieces are excluded, there is no file to watch.
func Sources(m *Manifest, resolved []Piece) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if path == "" || path == "-" || seen[path] {
			return
		}
		seen[path] = true
		out = append(out, path)
	}

	add(m.Path)
	for _, p := range resolved {
		if p.Kind == KindFile || p.Kind == KindScript {
			add(p.Value)
		}
	}
	return out
}

// abs joins a relative path onto the manifest directory. The stdin
// marker "-" is not a path and passes through untouched.
func (m *Manifest) abs(path string) string {
	if path == "-" || filepath.IsAbs(path) || m.Dir == "" || m.Dir == "." {
		return path
	}
	return filepath.Join(m.Dir, path)
}
