package markup

import "strings"

// Node is one parsed element. Values are string, Node or []any.
type Node = map[string]any

// Config controls how elements are mapped into a Node tree. It is copied
// into the Parser at construction and never mutated afterwards.
type Config struct {
	AttributePrefix string
	TextNodeName    string

	// IsArray reports whether the element at the dot-joined path must
	// always be collected into a []any, even when it occurs once.
	IsArray func(path string) bool
}

func DefaultConfig() Config {
	return Config{
		AttributePrefix: "__",
		TextNodeName:    "$text",
		IsArray:         ArrayPaths("ul", "ul.li"),
	}
}

// ArrayPaths builds an IsArray predicate matching the given paths exactly.
func ArrayPaths(paths ...string) func(path string) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[strings.TrimSpace(p)] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[path]
		return ok
	}
}

// Text returns the direct text content of n.
func (c Config) Text(n Node) (string, bool) {
	v, ok := n[c.TextNodeName]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// Attr returns the value of the named attribute of n.
func (c Config) Attr(n Node, name string) (string, bool) {
	v, ok := n[c.AttributePrefix+name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c Config) isArray(path string) bool {
	return c.IsArray != nil && c.IsArray(path)
}

// List normalises a child value into a slice: nil yields nothing, a single
// value yields one element and a []any is returned as is.
func List(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

func AsNode(v any) (Node, bool) {
	n, ok := v.(Node)
	return n, ok
}
