package decision

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the protocol document major version this build reads.
const SupportedMajor = "v1"

//go:embed protocol.schema.json
var protocolSchemaJSON []byte

var (
	protocolSchemaOnce sync.Once
	protocolSchema     *jsonschema.Schema
	protocolSchemaErr  error
)

// Format is the encoding of a protocol document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks a format from a file extension. Unknown extensions
// are read as YAML, which also accepts JSON.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Document is the serialised form of a decision graph.
type Document struct {
	Version string `json:"version" yaml:"version"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Start   string `json:"start" yaml:"start"`
	Nodes   []Node `json:"nodes" yaml:"nodes"`
}

// VersionError is returned for a missing, malformed or unsupported
// document version.
type VersionError struct {
	Version string
}

func (e *VersionError) Error() string {
	if !semver.IsValid(canonicalVersion(e.Version)) {
		return fmt.Sprintf("protocol version %q is not a semantic version", e.Version)
	}
	return fmt.Sprintf("protocol version %q not supported (want %s.x.y)", e.Version, SupportedMajor)
}

// LoadProtocol reads a protocol document from disk and builds its graph.
func LoadProtocol(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read protocol: %w", err)
	}
	g, err := ParseProtocol(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("protocol %s: %w", path, err)
	}
	return g, nil
}

// ParseProtocol decodes, schema-checks, version-checks and validates a
// protocol document.
func ParseProtocol(data []byte, format Format) (*Graph, error) {
	raw, err := normalize(data, format)
	if err != nil {
		return nil, err
	}

	schema, err := compiledProtocolSchema()
	if err != nil {
		return nil, err
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	v := canonicalVersion(doc.Version)
	if !semver.IsValid(v) || semver.Major(v) != SupportedMajor {
		return nil, &VersionError{Version: doc.Version}
	}

	g, err := NewGraph(doc.Start, doc.Nodes)
	if err != nil {
		return nil, err
	}
	g.name = doc.Name
	g.version = doc.Version
	return g, nil
}

// Document returns the serialisable form of the graph.
func (g *Graph) Document() Document {
	version := g.version
	if version == "" {
		version = "1.0.0"
	}
	return Document{
		Version: version,
		Name:    g.name,
		Start:   g.startID,
		Nodes:   g.Nodes(),
	}
}

// MarshalProtocol encodes the graph as a protocol document.
func MarshalProtocol(g *Graph, format Format) ([]byte, error) {
	doc := g.Document()
	if format == FormatJSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize converts a document into canonical JSON bytes.
func normalize(data []byte, format Format) ([]byte, error) {
	if format == FormatJSON {
		if !json.Valid(data) {
			return nil, fmt.Errorf("document is not valid JSON")
		}
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return raw, nil
}

func compiledProtocolSchema() (*jsonschema.Schema, error) {
	protocolSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(protocolSchemaJSON, &def); err != nil {
			protocolSchemaErr = fmt.Errorf("parse protocol schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://protocol.json"
		if err := c.AddResource(url, def); err != nil {
			protocolSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		protocolSchema, protocolSchemaErr = c.Compile(url)
	})
	return protocolSchema, protocolSchemaErr
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
