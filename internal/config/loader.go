package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	yaml "gopkg.in/yaml.v3"
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// loadFile reads a configuration file and parses it according to its
// extension. A missing file returns nil, nil: absent configuration is
// not an error.
func loadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// parse dispatches on the file extension, defaulting to YAML.
func parse(path string, data []byte) (map[string]any, error) {
	var (
		out map[string]any
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &out)
	case ".json":
		switch {
		case !gjson.ValidBytes(data):
			err = fmt.Errorf("invalid JSON")
		default:
			v, ok := gjson.ParseBytes(data).Value().(map[string]any)
			if !ok {
				err = fmt.Errorf("top level is not an object")
				break
			}
			out = v
		}
	default:
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return out, nil
}

// deepMerge recursively merges src into dst. Values in src override
// values in dst; nested maps merge key by key.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		if srcMap, ok := srcVal.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				dst[key] = deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = srcVal
	}
	return dst
}
