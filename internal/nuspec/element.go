package nuspec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// element is a namespace-agnostic XML node.
type element struct {
	name     string
	attrs    map[string]string
	text     strings.Builder
	children []*element
}

func parseTree(data []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("empty document")
	}
	return root, nil
}

// findAll returns descendants along a slash-separated path of local names,
// in document order.
func (e *element) findAll(path string) []*element {
	current := []*element{e}
	for _, step := range strings.Split(path, "/") {
		var next []*element
		for _, el := range current {
			for _, child := range el.children {
				if child.name == step {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return current
}

// findText returns the trimmed text of the first element at path, or "".
func (e *element) findText(path string) string {
	matches := e.findAll(path)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[0].text.String())
}
