// Package mockfile parses mock definition files into sets.
package mockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mockhive/mockhive/pkg/mock"
	"gopkg.in/yaml.v3"
)

// Defaults are applied to endpoints that do not set their own status or delay.
type Defaults struct {
	Status int
	Delay  int64
}

// document is the raw shape of a definition file.
type document struct {
	Name      string        `json:"name" yaml:"name"`
	Endpoints []endpointDoc `json:"endpoints" yaml:"endpoints"`
}

type endpointDoc struct {
	Path      string           `json:"path" yaml:"path"`
	Method    string           `json:"method" yaml:"method"`
	Status    *int             `json:"status" yaml:"status"`
	Delay     *int64           `json:"delay" yaml:"delay"`
	Responses []map[string]any `json:"responses" yaml:"responses"`
}

// Load reads and parses a definition file. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON. Relative body references
// are resolved through resolver.
func Load(path string, defaults Defaults, resolver mock.ContentResolver) (*mock.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	set, err := Parse(data, format, defaults, resolver)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if set.Name == "" {
		base := filepath.Base(path)
		set.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return set, nil
}

// Parse parses definition content in the given format ("json" or "yaml").
func Parse(data []byte, format string, defaults Defaults, resolver mock.ContentResolver) (*mock.Set, error) {
	var doc document
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse definition: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse definition: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown definition format %q", format)
	}

	return buildSet(&doc, defaults, resolver)
}

// buildSet converts a decoded document into a set of endpoints with
// fully resolved responses.
func buildSet(doc *document, defaults Defaults, resolver mock.ContentResolver) (*mock.Set, error) {
	if len(doc.Endpoints) == 0 {
		return nil, fmt.Errorf("definition has no endpoints")
	}

	set := &mock.Set{Name: doc.Name}
	for i, ep := range doc.Endpoints {
		if ep.Path == "" {
			return nil, fmt.Errorf("endpoint %d: missing path", i)
		}

		status := defaults.Status
		if ep.Status != nil {
			status = *ep.Status
		}
		delay := defaults.Delay
		if ep.Delay != nil {
			delay = *ep.Delay
		}

		out := mock.Endpoint{
			Path:   ep.Path,
			Method: strings.ToUpper(ep.Method),
			Status: status,
			Delay:  delay,
		}

		// An endpoint without response objects still answers with its
		// defaults.
		responses := ep.Responses
		if len(responses) == 0 {
			responses = []map[string]any{{}}
		}
		for j, attrs := range responses {
			r, err := mock.Parse(status, delay, attrs, resolver)
			if err != nil {
				return nil, fmt.Errorf("endpoint %d (%s): response %d: %w", i, ep.Path, j, err)
			}
			out.Responses = append(out.Responses, r)
		}

		set.Endpoints = append(set.Endpoints, out)
	}
	return set, nil
}
