package tree

import (
	"fmt"
	"strconv"

	yamlv2 "gopkg.in/yaml.v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML document into a Tree. Decoding goes through
// yaml.v2's MapSlice because it is the only representation that preserves
// mapping key order, which the resolver depends on for field declaration
// order and sticky-group assignment. An empty or null document yields an
// empty tree.
func DecodeYAML(data []byte) (*Tree, error) {
	var doc yamlv2.MapSlice
	if err := yamlv2.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromMapSlice(doc), nil
}

func fromMapSlice(ms yamlv2.MapSlice) *Tree {
	t := New()
	for _, item := range ms {
		t.SetKey(stringifyKey(item.Key), fromYAMLValue(item.Value))
	}
	return t
}

func fromYAMLValue(v any) any {
	switch val := v.(type) {
	case yamlv2.MapSlice:
		return fromMapSlice(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromYAMLValue(item)
		}
		return out
	case map[any]any:
		// yaml.v2 only produces this when the decode target is a plain
		// interface; normalize it anyway so callers never see it.
		t := New()
		for k, item := range val {
			t.SetKey(stringifyKey(k), fromYAMLValue(item))
		}
		return t
	case int:
		return int64(val)
	case uint64:
		if val <= 1<<62 {
			return int64(val)
		}
		return float64(val)
	default:
		return v
	}
}

// stringifyKey renders a YAML mapping key as a string. Bare numeric keys
// stay numeric-looking ("0", "1") so the resolver can recognize them.
func stringifyKey(k any) string {
	switch key := k.(type) {
	case string:
		return key
	case int:
		return strconv.Itoa(key)
	case int64:
		return strconv.FormatInt(key, 10)
	case bool:
		return strconv.FormatBool(key)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", key)
	}
}

// EncodeYAML renders a Tree back to YAML in key order, via yaml.v3 nodes.
// Used by the export command; the cache uses the JSON codec instead.
func EncodeYAML(t *Tree) ([]byte, error) {
	node, err := toYAMLNode(t)
	if err != nil {
		return nil, err
	}
	return yamlv3.Marshal(node)
}

func toYAMLNode(v any) (*yamlv3.Node, error) {
	switch val := v.(type) {
	case *Tree:
		node := &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map"}
		for _, k := range val.Keys() {
			keyNode := &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: k}
			item, _ := val.Value(k)
			valNode, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode, valNode)
		}
		return node, nil
	case []any:
		node := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			itemNode, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil
	default:
		node := &yamlv3.Node{}
		if err := node.Encode(val); err != nil {
			return nil, fmt.Errorf("encoding scalar %v: %w", val, err)
		}
		return node, nil
	}
}
