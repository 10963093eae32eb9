// Package jobconf loads Hadoop jobconf key/value files from disk.
package jobconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported jobconf file format")
	ErrInvalidJobConf    = errors.New("invalid jobconf")
)

// jobconfSection is the optional top-level key that wraps the jobconf in
// YAML and JSON files, and the required attribute in HCL files.
const jobconfSection = "jobconf"

// FindFiles expands the glob patterns and returns the regular files they
// match. Directories and symlinks are skipped.
func FindFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, name := range matches {
			info, err := os.Lstat(name)
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				files = append(files, name)
			}
		}
	}
	return files, nil
}

// Load reads every file matched by patterns and merges them into one
// jobconf. Files are applied in lexical path order, later files overriding
// earlier ones.
func Load(patterns []string) (map[string]string, error) {
	files, err := FindFiles(patterns)
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	files = slices.Compact(files)

	merged := make(map[string]string)
	for _, path := range files {
		conf, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		maps.Copy(merged, conf)
	}
	return merged, nil
}

// LoadFile reads a single jobconf file. The format is chosen by extension:
// .yaml, .yml, .json or .hcl.
func LoadFile(path string) (map[string]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		var raw map[string]any
		if ext == ".json" {
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()
			err = dec.Decode(&raw)
		} else {
			err = yaml.Unmarshal(data, &raw)
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
		conf, err := fromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return conf, nil
	case ".hcl":
		return loadHCL(path)
	default:
		return nil, fmt.Errorf("%s: %w: %q", path, ErrUnsupportedFormat, ext)
	}
}

func fromRaw(raw map[string]any) (map[string]string, error) {
	if section, ok := raw[jobconfSection]; ok {
		nested, ok := section.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a mapping", ErrInvalidJobConf, jobconfSection)
		}
		raw = nested
	}

	conf := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			return nil, fmt.Errorf("%w: %s has no value", ErrInvalidJobConf, key)
		case map[string]any, []any:
			return nil, fmt.Errorf("%w: %s must be a scalar", ErrInvalidJobConf, key)
		case float64:
			conf[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			conf[key] = fmt.Sprint(v)
		}
	}
	return conf, nil
}

func loadHCL(path string) (map[string]string, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("error parsing %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("error parsing %s: %w", path, diags)
	}

	attr, ok := attrs[jobconfSection]
	if !ok {
		return nil, fmt.Errorf("%s: %w: missing %q attribute", path, ErrInvalidJobConf, jobconfSection)
	}

	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("error evaluating %s: %w", path, diags)
	}
	if value.IsNull() || !(value.Type().IsObjectType() || value.Type().IsMapType()) {
		return nil, fmt.Errorf("%s: %w: %q must be an object", path, ErrInvalidJobConf, jobconfSection)
	}

	conf := make(map[string]string, value.LengthInt())
	for it := value.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		if v.IsNull() {
			return nil, fmt.Errorf("%s: %w: %s has no value", path, ErrInvalidJobConf, key)
		}
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %s must be a scalar", path, ErrInvalidJobConf, key)
		}
		conf[key] = s.AsString()
	}
	return conf, nil
}
