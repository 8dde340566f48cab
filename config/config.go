// Package config loads the TOML adapter configuration and turns each
// declared adapter into a live adapters.Adapter.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/jackfish212/gopherengine/adapters"
	"github.com/jackfish212/gopherengine/types"
)

// AdapterConfig is one [[adapter]] table. Which fields apply depends on
// Type: "fs" uses Root/Writable/Extensions, "rss" uses URL, "rdf" uses
// Source/Format/SparqlEndpoint.
type AdapterConfig struct {
	Type           string   `toml:"type"`
	Namespace      string   `toml:"namespace"`
	Root           string   `toml:"root"`
	Writable       bool     `toml:"writable"`
	Extensions     []string `toml:"extensions"`
	URL            string   `toml:"url"`
	Source         string   `toml:"source"`
	Format         string   `toml:"format"`
	SparqlEndpoint string   `toml:"sparql_endpoint"`
}

// Config is the top-level TOML document: a list of adapter declarations.
type Config struct {
	Adapters []AdapterConfig `toml:"adapter"`
}

// Load reads and parses a TOML config file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: loading config %s: %v", types.ErrParse, path, err)
	}
	return &cfg, nil
}

// CreateAdapters instantiates one adapters.Adapter per declared entry.
func (c *Config) CreateAdapters() ([]adapters.Adapter, error) {
	out := make([]adapters.Adapter, 0, len(c.Adapters))
	for _, a := range c.Adapters {
		adapter, err := createAdapter(a)
		if err != nil {
			return nil, err
		}
		out = append(out, adapter)
	}
	return out, nil
}

func createAdapter(c AdapterConfig) (adapters.Adapter, error) {
	if c.Namespace == "" {
		return nil, fmt.Errorf("%w: adapter of type %q is missing a namespace", types.ErrInternal, c.Type)
	}

	switch c.Type {
	case "fs":
		if c.Root == "" {
			return nil, fmt.Errorf("%w: fs adapter %q is missing root", types.ErrInternal, c.Namespace)
		}
		return adapters.NewFS(c.Namespace, c.Root, c.Extensions, c.Writable)
	case "rss":
		if c.URL == "" {
			return nil, fmt.Errorf("%w: rss adapter %q is missing url", types.ErrInternal, c.Namespace)
		}
		return adapters.NewRSS(c.Namespace, c.URL), nil
	case "rdf":
		format, err := parseRDFFormat(c.Format)
		if err != nil {
			return nil, err
		}
		if c.Source == "" && c.SparqlEndpoint == "" {
			return nil, fmt.Errorf("%w: rdf adapter %q needs a source, a sparql_endpoint, or both", types.ErrInternal, c.Namespace)
		}
		return adapters.NewRDF(c.Namespace, c.Source, format, c.SparqlEndpoint), nil
	default:
		return nil, fmt.Errorf("%w: unknown adapter type %q", types.ErrInternal, c.Type)
	}
}

func parseRDFFormat(s string) (adapters.RDFFormat, error) {
	switch s {
	case "", "turtle":
		return adapters.FormatTurtle, nil
	case "rdfxml":
		return adapters.FormatRDFXML, nil
	case "ntriples":
		return adapters.FormatNTriples, nil
	default:
		return 0, fmt.Errorf("%w: unknown RDF format %q", types.ErrInternal, s)
	}
}
