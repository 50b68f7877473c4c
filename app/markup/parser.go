package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Elements that never take children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Elements closed by the start tag of a sibling with the same name.
var implicitlyClosed = map[string]bool{
	"li": true, "p": true, "dt": true, "dd": true, "option": true,
}

type Parser struct {
	cfg Config
}

func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg}
}

func (p *Parser) Config() Config {
	return p.cfg
}

type element struct {
	name string
	path string
	node Node
	text []string
}

// Parse builds a Node tree from loosely structured markup. Unclosed
// elements are closed at the end of input and unmatched end tags are
// dropped, so local irregularities never fail the whole document.
func (p *Parser) Parse(text string) (Node, error) {
	root := &element{node: Node{}}
	stack := []*element{root}

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("failed to tokenize markup: %w", err)
			}
			for len(stack) > 1 {
				stack = p.closeTop(stack)
			}
			if len(root.text) > 0 {
				root.node[p.cfg.TextNodeName] = strings.Join(root.text, " ")
			}
			return root.node, nil

		case html.TextToken:
			if t := strings.TrimSpace(string(z.Text())); t != "" {
				top := stack[len(stack)-1]
				top.text = append(top.text, t)
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if implicitlyClosed[tok.Data] && stack[len(stack)-1].name == tok.Data {
				stack = p.closeTop(stack)
			}

			parent := stack[len(stack)-1]
			el := &element{
				name: tok.Data,
				path: joinPath(parent.path, tok.Data),
				node: Node{},
			}
			for _, attr := range tok.Attr {
				el.node[p.cfg.AttributePrefix+attr.Key] = attr.Val
			}
			stack = append(stack, el)

			if tt == html.SelfClosingTagToken || voidElements[tok.Data] {
				stack = p.closeTop(stack)
			}

		case html.EndTagToken:
			tok := z.Token()
			open := -1
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].name == tok.Data {
					open = i
					break
				}
			}
			if open < 0 {
				continue
			}
			for len(stack) > open {
				stack = p.closeTop(stack)
			}
		}
	}
}

func (p *Parser) closeTop(stack []*element) []*element {
	el := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	p.attach(stack[len(stack)-1], el.name, el.path, p.value(el))
	return stack
}

func (p *Parser) value(el *element) any {
	text := strings.Join(el.text, " ")
	if len(el.node) == 0 {
		return text
	}
	if text != "" {
		el.node[p.cfg.TextNodeName] = text
	}
	return el.node
}

func (p *Parser) attach(parent *element, name, path string, v any) {
	existing, ok := parent.node[name]
	switch {
	case !ok && p.cfg.isArray(path):
		parent.node[name] = []any{v}
	case !ok:
		parent.node[name] = v
	default:
		if list, isList := existing.([]any); isList {
			parent.node[name] = append(list, v)
		} else {
			parent.node[name] = []any{existing, v}
		}
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
