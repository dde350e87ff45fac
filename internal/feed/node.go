package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlNode is a generic, order-preserving view of one XML element. Feeds
// arrive in unknown dialects, so everything downstream works on this tree
// instead of typed structs.
type xmlNode struct {
	name     string
	attrs    map[string]string // keys lowercased
	children []*xmlNode        // document order
	text     string            // concatenated character data
}

func decodeTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	// dealer feeds are frequently windows-1250/iso-8859-2
	dec.CharsetReader = charset.NewReaderLabel

	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attrs[strings.ToLower(a.Name.Local)] = a.Value
			}
			if len(stack) == 0 {
				if root == nil {
					root = n
				}
			} else {
				p := stack[len(stack)-1]
				p.children = append(p.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("malformed xml: no root element")
	}
	return root, nil
}

func (n *xmlNode) childrenNamed(name string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			out = append(out, c)
		}
	}
	return out
}

func (n *xmlNode) firstChild(name string) *xmlNode {
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

func (n *xmlNode) textValue() string {
	return cleanText(n.text)
}

func (n *xmlNode) hasElementChildren() bool {
	return len(n.children) > 0
}
