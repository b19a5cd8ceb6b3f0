package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is the only catalog document version understood by Parse.
const DocumentVersion = 1

//go:embed default.yaml
var defaultDocument []byte

// Record is one screenplay's metadata and full text.
type Record struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Genre       string `yaml:"genre" json:"genre"`
	Duration    string `yaml:"duration" json:"duration"`
	Author      string `yaml:"author" json:"author"`
	Description string `yaml:"description" json:"description"`
	Image       string `yaml:"image" json:"image"`
	Content     string `yaml:"content" json:"content"`
}

// Document is the on-disk (and on-the-wire) shape of a catalog.
type Document struct {
	Version int      `yaml:"version" json:"version"`
	Scripts []Record `yaml:"scripts" json:"scripts"`
}

// Catalog is an immutable, ordered sequence of records.
// The zero value is an empty catalog.
type Catalog struct {
	records []Record
	index   map[string]int
}

// New builds a catalog from records, preserving their order.
// The input slice is copied; later changes to it are not observed.
func New(records []Record) (*Catalog, error) {
	c := &Catalog{
		records: make([]Record, len(records)),
		index:   make(map[string]int, len(records)),
	}
	copy(c.records, records)

	for i, r := range c.records {
		if r.ID == "" {
			return nil, &LoadError{Reason: fmt.Sprintf("script at position %d has no id", i)}
		}
		if prev, dup := c.index[r.ID]; dup {
			return nil, &LoadError{Reason: fmt.Sprintf("duplicate id %q at positions %d and %d", r.ID, prev, i)}
		}
		c.index[r.ID] = i
	}

	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultDocument)
	if err != nil {
		// The embedded document is part of the build.
		panic(fmt.Sprintf("catalog: embedded default catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: "malformed catalog document", Err: err}
	}
	return FromDocument(doc)
}

// FromDocument validates a decoded document and builds a catalog from it.
func FromDocument(doc Document) (*Catalog, error) {
	if doc.Version != DocumentVersion {
		return nil, &LoadError{Reason: fmt.Sprintf("unsupported catalog version: %d (expected %d)", doc.Version, DocumentVersion)}
	}
	return New(doc.Scripts)
}

// LoadFile reads and parses the catalog file at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "cannot read catalog file", Err: err}
	}

	c, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return c, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// At returns the record at position i. It panics if i is out of range,
// like a slice index would.
func (c *Catalog) At(i int) Record {
	return c.records[i]
}

// Get looks a record up by id.
func (c *Catalog) Get(id string) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// All returns the records in catalog order. The returned slice is a copy.
func (c *Catalog) All() []Record {
	if c == nil {
		return nil
	}
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// IDs returns the record ids in catalog order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.records))
	for i, r := range c.records {
		ids[i] = r.ID
	}
	return ids
}

// Document returns the catalog in its serialisable form.
func (c *Catalog) Document() Document {
	return Document{Version: DocumentVersion, Scripts: c.All()}
}

// Marshal encodes a document as YAML in the same layout Parse reads.
func Marshal(doc Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

// DefaultDocument returns the embedded catalog file verbatim.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}
