package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a document encoding
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// ParseFormat converts a format name ("json", "yaml", "yml")
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("unknown document format: %s", s)
	}
}

// FormatFromPath selects the format by file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatJSON, fmt.Errorf("cannot infer document format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Codec encodes and decodes documents in one format. Decoding rejects
// keys the document types do not declare.
type Codec interface {
	Marshal(doc *Document) ([]byte, error)
	Unmarshal(data []byte, doc *Document) error
}

// CodecFor returns the codec of a format
func CodecFor(f Format) Codec {
	if f == FormatYAML {
		return yamlCodec{}
	}
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte, doc *Document) error {
	if err := decodeJSON(data, doc); err != nil {
		return err
	}

	// encoding/json keeps the last of repeated keys; the document keeps the
	// first and remembers the rest
	entries, err := jsonTypeEntries(data)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		var rec TypeRecord
		if err := decodeJSON(e.raw, &rec); err != nil {
			return err
		}
		if seen[e.name] {
			doc.repeated = append(doc.repeated, namedRecord{name: e.name, record: rec})
			continue
		}
		seen[e.name] = true
		doc.Types[e.name] = rec
	}
	return nil
}

func decodeJSON(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

type rawEntry struct {
	name string
	raw  json.RawMessage
}

// jsonTypeEntries lists every key of the top-level types object in document
// order, repeats included
func jsonTypeEntries(data []byte) ([]rawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, err
	}

	var entries []rawEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		if !strings.EqualFold(key, "types") {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		open, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if open != json.Delim('{') {
			continue
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, err
			}
			entries = append(entries, rawEntry{name: tok.(string), raw: raw})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

type yamlCodec struct{}

func (yamlCodec) Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte, doc *Document) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	repeats := dropRepeatedTypes(&root)
	if len(repeats) == 0 {
		return decodeYAML(data, doc)
	}

	// yaml.v3 rejects repeated mapping keys, so decode without them
	stripped, err := yaml.Marshal(&root)
	if err != nil {
		return err
	}
	if err := decodeYAML(stripped, doc); err != nil {
		return err
	}
	for _, pair := range repeats {
		raw, err := yaml.Marshal(pair[1])
		if err != nil {
			return err
		}
		var rec TypeRecord
		if err := decodeYAML(raw, &rec); err != nil {
			return err
		}
		doc.repeated = append(doc.repeated, namedRecord{name: pair[0].Value, record: rec})
	}
	return nil
}

func decodeYAML(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// dropRepeatedTypes removes every key/value pair of the types mapping whose
// key was already seen and returns the removed pairs in document order
func dropRepeatedTypes(root *yaml.Node) [][2]*yaml.Node {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil
	}

	var repeats [][2]*yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "types" || top.Content[i+1].Kind != yaml.MappingNode {
			continue
		}
		types := top.Content[i+1]
		seen := make(map[string]bool)
		kept := types.Content[:0:0]
		for j := 0; j+1 < len(types.Content); j += 2 {
			key, value := types.Content[j], types.Content[j+1]
			if seen[key.Value] {
				repeats = append(repeats, [2]*yaml.Node{key, value})
				continue
			}
			seen[key.Value] = true
			kept = append(kept, key, value)
		}
		types.Content = kept
	}
	return repeats
}
