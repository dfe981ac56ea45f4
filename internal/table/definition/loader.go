package definition

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

// Load decodes the table definitions of one file.
func Load(data []byte, format metamodel.Format) ([]*Definition, error) {
	var f file
	switch format {
	case metamodel.FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal table definitions: %w", err)
		}
	case metamodel.FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal table definitions: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported table definition format: %s", format)
	}

	defs := make([]*Definition, 0, len(f.Tables))
	seen := make(map[string]bool, len(f.Tables))
	for _, raw := range f.Tables {
		if raw.ID != "" {
			if seen[raw.ID] {
				return nil, fmt.Errorf("%w: duplicate table %q", ErrInvalidDefinition, raw.ID)
			}
			seen[raw.ID] = true
		}
		def, err := raw.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadFile reads the table definitions of one file
func LoadFile(path string) ([]*Definition, error) {
	format, err := metamodel.FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table definitions: %w", err)
	}
	defs, err := Load(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// LoadPath loads a single definition file, or every .yaml, .yml and .json
// file of a directory in lexical order.
func LoadPath(path string) ([]*Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat table definitions: %w", err)
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	var defs []*Definition
	ids := make(map[string]string)
	for _, f := range files {
		loaded, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		for _, def := range loaded {
			if def.ID != "" {
				if prev, dup := ids[def.ID]; dup {
					return nil, fmt.Errorf("%w: table %q defined in %s and %s", ErrInvalidDefinition, def.ID, prev, f)
				}
				ids[def.ID] = f
			}
		}
		defs = append(defs, loaded...)
	}
	return defs, nil
}
