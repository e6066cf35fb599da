package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a parsed markdown file: an editable frontmatter mapping plus the untouched body.
type Document struct {
	doc   *yaml.Node // DocumentNode wrapping root
	root  *yaml.Node // MappingNode
	body  []byte
	had   bool
	style Style
}

// Parse splits content and decodes its frontmatter.
//
// A document without frontmatter parses to an empty mapping; the first Merge adds a block.
func Parse(content []byte) (*Document, error) {
	parts, err := Split(content)
	if err != nil {
		return nil, err
	}

	d := &Document{body: parts.Body, had: parts.Had, style: parts.Style}

	var doc yaml.Node
	if len(bytes.TrimSpace(parts.Raw)) > 0 {
		if err := yaml.Unmarshal(parts.Raw, &doc); err != nil {
			return nil, fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		d.root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		d.doc = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{d.root}}
		return d, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse frontmatter: %w", ErrNotMapping)
	}
	d.doc = &doc
	d.root = root
	return d, nil
}

// HasFrontmatter reports whether the document carries a frontmatter block.
func (d *Document) HasFrontmatter() bool { return d.had }

// Body returns the markdown body after the frontmatter block.
func (d *Document) Body() []byte { return d.body }

// Has reports whether a top-level key is present.
func (d *Document) Has(key string) bool {
	return lookup(d.root, key) != nil
}

// String returns a top-level scalar value.
func (d *Document) String(key string) (string, bool) {
	return scalar(lookup(d.root, key))
}

// HasBlock reports whether key holds a nested mapping.
func (d *Document) HasBlock(key string) bool {
	n := lookup(d.root, key)
	return n != nil && n.Kind == yaml.MappingNode
}

// BlockString returns a scalar nested one level below block, e.g. wiki.title.
func (d *Document) BlockString(block, key string) (string, bool) {
	n := lookup(d.root, block)
	if n == nil || n.Kind != yaml.MappingNode {
		return "", false
	}
	return scalar(lookup(n, key))
}

// Merge applies a rendered YAML mapping on top of the frontmatter.
//
// Every top-level key in rendered replaces the existing value of that key (or is
// appended when new); keys absent from rendered are left untouched.
func (d *Document) Merge(rendered []byte) error {
	var src yaml.Node
	if err := yaml.Unmarshal(rendered, &src); err != nil {
		return fmt.Errorf("parse rendered frontmatter: %w", err)
	}
	if src.Kind == 0 || len(src.Content) == 0 {
		return nil
	}
	m := src.Content[0]
	if m.Kind != yaml.MappingNode {
		return fmt.Errorf("rendered frontmatter: %w", ErrNotMapping)
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if idx := keyIndex(d.root, key.Value); idx >= 0 {
			d.root.Content[idx+1] = value
			continue
		}
		d.root.Content = append(d.root.Content, key, value)
	}
	d.had = true
	return nil
}

// Bytes serializes the document back to markdown.
func (d *Document) Bytes() ([]byte, error) {
	if !d.had {
		return d.body, nil
	}

	var raw []byte
	if len(d.root.Content) > 0 {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d.doc); err != nil {
			_ = enc.Close()
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		raw = buf.Bytes()
		if d.style.Newline == "\r\n" {
			raw = bytes.ReplaceAll(raw, []byte("\n"), []byte("\r\n"))
		}
	}

	return Parts{Raw: raw, Body: d.body, Had: true, Style: d.style}.Join(), nil
}

// ErrNotMapping indicates frontmatter that is valid YAML but not a key/value mapping.
var ErrNotMapping = fmt.Errorf("frontmatter is not a mapping")

func keyIndex(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	idx := keyIndex(m, key)
	if idx < 0 {
		return nil
	}
	n := m.Content[idx+1]
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func scalar(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", false
	}
	return n.Value, true
}
