package catalog

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var builtinFS embed.FS

const (
	builtinPath = "data/catalog.yaml"
	catalogFile = "catalog.yaml"
)

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadBuiltin parses the catalog compiled into the binary.
func (l *FSLoader) LoadBuiltin(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := builtinFS.ReadFile(builtinPath)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(b, "builtin:"+builtinPath)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// Load reads a catalog from a YAML file, or from catalog.yaml inside a
// directory.
func (l *FSLoader) Load(ctx context.Context, path string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		path = filepath.Join(path, catalogFile)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(b, path)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return New(doc)
}

func parseDocument(b []byte, source string) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", source, err)
	}
	if err := doc.Validate(); err != nil {
		return doc, fmt.Errorf("validate %s: %w", source, err)
	}
	return doc, nil
}
