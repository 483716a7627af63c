package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// NodeKind tags the three shapes a decoded JSON value can take
type NodeKind int

const (
	KindScalar NodeKind = iota
	KindObject
	KindArray
)

// Field is one object member, kept in document order
type Field struct {
	Key   string
	Value *Node
}

// Node is an order-preserving JSON tree. Objects keep their members in document order
// together with an exact-key index and a lower-cased key index; scalars keep their raw
// JSON text.
type Node struct {
	Kind   NodeKind
	Fields []Field
	Items  []*Node
	Raw    jsontext.Value

	exact  map[string]int
	folded map[string]struct{}
}

func newObject() *Node {
	return &Node{Kind: KindObject, exact: map[string]int{}, folded: map[string]struct{}{}}
}

// set adds a member; a repeated key keeps its first position and takes the new value
func (n *Node) set(key string, v *Node) {
	if i, ok := n.exact[key]; ok {
		n.Fields[i].Value = v
		return
	}
	n.exact[key] = len(n.Fields)
	n.Fields = append(n.Fields, Field{Key: key, Value: v})
	n.folded[strings.ToLower(key)] = struct{}{}
}

// Get returns the member stored under exactly key
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind != KindObject {
		return nil, false
	}
	i, ok := n.exact[key]
	if !ok {
		return nil, false
	}
	return n.Fields[i].Value, true
}

// HasKeyFold reports whether the object has a key equal to lowerKey ignoring case.
// lowerKey must already be lower-case.
func (n *Node) HasKeyFold(lowerKey string) bool {
	if n.Kind != KindObject {
		return false
	}
	_, ok := n.folded[lowerKey]
	return ok
}

// ParseJSON decodes a single JSON document into a Node tree without recursion
func ParseJSON(data []byte) (*Node, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data),
		jsontext.AllowDuplicateNames(true),
		jsontext.AllowInvalidUTF8(true),
	)

	var (
		root    *Node
		stack   []*Node
		key     string
		haveKey bool
	)

	attach := func(n *Node) {
		if len(stack) == 0 {
			root = n
			return
		}
		parent := stack[len(stack)-1]
		if parent.Kind == KindObject {
			parent.set(key, n)
			haveKey = false
			return
		}
		parent.Items = append(parent.Items, n)
	}

	for {
		kind := dec.PeekKind()
		if kind == 0 {
			_, err := dec.ReadToken()
			if err == nil || errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("decode JSON: %w", err)
		}

		top := len(stack) > 0
		if top && stack[len(stack)-1].Kind == KindObject && !haveKey && kind != '}' {
			tok, err := dec.ReadToken()
			if err != nil {
				return nil, fmt.Errorf("decode JSON: %w", err)
			}
			key, haveKey = tok.String(), true
			continue
		}

		switch kind {
		case '{', '[':
			if _, err := dec.ReadToken(); err != nil {
				return nil, fmt.Errorf("decode JSON: %w", err)
			}
			n := &Node{Kind: KindArray}
			if kind == '{' {
				n = newObject()
			}
			attach(n)
			stack = append(stack, n)
			continue
		case '}', ']':
			if _, err := dec.ReadToken(); err != nil {
				return nil, fmt.Errorf("decode JSON: %w", err)
			}
			stack = stack[:len(stack)-1]
		default:
			v, err := dec.ReadValue()
			if err != nil {
				return nil, fmt.Errorf("decode JSON: %w", err)
			}
			attach(&Node{Kind: KindScalar, Raw: v.Clone()})
		}

		if len(stack) == 0 {
			break
		}
	}

	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode JSON: unexpected data after top-level value")
	}
	return root, nil
}

// Truthy mirrors the usual "non-empty" test: null, false, 0, "" and empty containers are falsy
func (n *Node) Truthy() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindObject:
		return len(n.Fields) > 0
	case KindArray:
		return len(n.Items) > 0
	}
	switch n.Raw.Kind() {
	case 'n', 'f':
		return false
	case 't':
		return true
	case '"':
		return len(n.Raw) > 2
	case '0':
		f, err := strconv.ParseFloat(string(n.Raw), 64)
		return err != nil || f != 0
	}
	return false
}

// Text renders a node as a plain string: strings unquoted, other scalars as their JSON
// literal, containers as compact JSON.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if n.Kind != KindScalar {
		return Compact(n, 0)
	}
	if n.Raw.Kind() == '"' {
		s, _ := jsontext.AppendUnquote(nil, n.Raw)
		return string(s)
	}
	return string(n.Raw)
}

type encodeFrame struct {
	node *Node
	next int
}

// Compact serializes n as compact JSON. When limit > 0 encoding stops once at least limit
// characters have been produced and the result is cut to exactly limit characters.
func Compact(n *Node, limit int) string {
	var buf []byte
	byteBudget := limit * 4 // a rune is at most 4 bytes
	full := func() bool { return limit > 0 && len(buf) >= byteBudget }

	writeLeaf := func(leaf *Node) {
		switch leaf.Kind {
		case KindObject:
			buf = append(buf, "{}"...)
		case KindArray:
			buf = append(buf, "[]"...)
		default:
			buf = appendScalar(buf, leaf.Raw)
		}
	}

	stack := []encodeFrame{{node: n}}
	for len(stack) > 0 && !full() {
		f := &stack[len(stack)-1]
		cur := f.node
		size := len(cur.Fields)
		if cur.Kind == KindArray {
			size = len(cur.Items)
		}

		if cur.Kind == KindScalar || size == 0 {
			writeLeaf(cur)
			stack = stack[:len(stack)-1]
			continue
		}

		if f.next == 0 {
			if cur.Kind == KindObject {
				buf = append(buf, '{')
			} else {
				buf = append(buf, '[')
			}
		}
		if f.next == size {
			if cur.Kind == KindObject {
				buf = append(buf, '}')
			} else {
				buf = append(buf, ']')
			}
			stack = stack[:len(stack)-1]
			continue
		}
		if f.next > 0 {
			buf = append(buf, ',')
		}

		var child *Node
		if cur.Kind == KindObject {
			field := cur.Fields[f.next]
			buf, _ = jsontext.AppendQuote(buf, field.Key)
			buf = append(buf, ':')
			child = field.Value
		} else {
			child = cur.Items[f.next]
		}
		f.next++
		stack = append(stack, encodeFrame{node: child})
	}

	return truncateRunes(string(buf), limit)
}

func appendScalar(dst []byte, raw jsontext.Value) []byte {
	if raw.Kind() != '"' {
		return append(dst, raw...)
	}
	// invalid UTF-8 comes back as U+FFFD alongside the error, so the output stays valid
	s, _ := jsontext.AppendUnquote(nil, raw)
	dst, _ = jsontext.AppendQuote(dst, s)
	return dst
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
