// Package yaml provides a gopkg.in/yaml.v3 backed token source. Only the
// first document of a stream is read.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/lossy/internal/engine"
)

// maxAliasDepth bounds alias expansion to keep self-referencing documents finite.
const maxAliasDepth = 64

// NewReader reads the first YAML document from r.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &source{err: err}
	}
	return NewBytes(b)
}

// NewBytes reads the first YAML document from b.
func NewBytes(b []byte) eng.TokenSource {
	s := &source{size: int64(len(b))}
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(b)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		s.err = err
		return s
	}
	if err := s.emit(&doc, 0); err != nil {
		s.err = err
		s.tokens = nil
	}
	return s
}

// source replays tokens materialized from a yaml.Node tree.
type source struct {
	tokens []eng.Token
	idx    int
	size   int64
	err    error
}

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.idx >= len(s.tokens) {
		return eng.Token{}, io.EOF
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

// Location reports the size of the input; yaml.v3 reports lines and columns
// only.
func (s *source) Location() int64 { return s.size }

func (s *source) emit(n *yaml.Node, aliasDepth int) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			s.push(eng.Token{Kind: eng.KindNull})
			return nil
		}
		return s.emit(n.Content[0], aliasDepth)
	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth || n.Alias == nil {
			return fmt.Errorf("yaml: alias %q nested too deeply", n.Value)
		}
		return s.emit(n.Alias, aliasDepth+1)
	case yaml.SequenceNode:
		s.push(eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := s.emit(c, aliasDepth); err != nil {
				return err
			}
		}
		s.push(eng.Token{Kind: eng.KindEndArray})
		return nil
	case yaml.MappingNode:
		members, err := mappingMembers(n, aliasDepth)
		if err != nil {
			return err
		}
		s.push(eng.Token{Kind: eng.KindBeginObject})
		for _, m := range members {
			if m.key.Kind == yaml.ScalarNode {
				s.push(eng.Token{Kind: eng.KindKey, String: m.key.Value})
			} else {
				s.push(eng.Token{Kind: eng.KindKey, Anonymous: true})
			}
			if err := s.emit(m.value, aliasDepth); err != nil {
				return err
			}
		}
		s.push(eng.Token{Kind: eng.KindEndObject})
		return nil
	case yaml.ScalarNode:
		s.push(scalarToken(n))
		return nil
	}
	return fmt.Errorf("yaml: unsupported node kind %d", n.Kind)
}

type member struct {
	key, value *yaml.Node
}

// mappingMembers flattens merge keys (<<) into the mapping. Keys written
// in the mapping itself win over merged ones, and among merged mappings
// the first to define a key wins.
func mappingMembers(n *yaml.Node, aliasDepth int) ([]member, error) {
	explicit := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := deref(n.Content[i])
		if k.Kind == yaml.ScalarNode && !isMerge(k) {
			explicit[k.Value] = true
		}
	}
	merged := map[string]bool{}
	var out []member
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := deref(n.Content[i])
		if !isMerge(k) {
			out = append(out, member{key: k, value: n.Content[i+1]})
			continue
		}
		sources, err := mergeSources(n.Content[i+1], aliasDepth)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			inner, err := mappingMembers(src, aliasDepth+1)
			if err != nil {
				return nil, err
			}
			for _, m := range inner {
				if m.key.Kind == yaml.ScalarNode {
					if explicit[m.key.Value] || merged[m.key.Value] {
						continue
					}
					merged[m.key.Value] = true
				}
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// mergeSources returns the mappings named by a merge value: a mapping, an
// alias to one, or a sequence of those.
func mergeSources(v *yaml.Node, aliasDepth int) ([]*yaml.Node, error) {
	if aliasDepth >= maxAliasDepth {
		return nil, fmt.Errorf("yaml: merge nested too deeply")
	}
	v = deref(v)
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}, nil
	case yaml.SequenceNode:
		out := make([]*yaml.Node, 0, len(v.Content))
		for _, c := range v.Content {
			c = deref(c)
			if c.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("yaml: map merge requires map or sequence of maps as the value")
			}
			out = append(out, c)
		}
		return out, nil
	}
	return nil, fmt.Errorf("yaml: map merge requires map or sequence of maps as the value")
}

func isMerge(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

func deref(n *yaml.Node) *yaml.Node {
	for i := 0; n.Kind == yaml.AliasNode && n.Alias != nil && i < maxAliasDepth; i++ {
		n = n.Alias
	}
	return n
}

func (s *source) push(t eng.Token) {
	t.Offset = -1
	s.tokens = append(s.tokens, t)
}

func scalarToken(n *yaml.Node) eng.Token {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return eng.Token{Kind: eng.KindBool, Bool: b}
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10)}
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatUint(u, 10)}
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: formatFloat(f)}
		}
	}
	return eng.Token{Kind: eng.KindString, String: n.Value}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
