package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/store"
)

// readDocument loads a YAML or JSON mapping from path, or from stdin when
// path is "-".
func readDocument(path string, stdin io.Reader) (store.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.FromError(err, "S012").WithDetailf("Cannot read %s", path)
	}
	return parseDocument(path, data)
}

// parseDocument decodes data as YAML. JSON documents are valid YAML.
func parseDocument(name string, data []byte) (store.Record, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.FromError(err, "S012").
			WithDetailf("Failed to parse %s: %v", name, err)
	}
	if raw == nil {
		return store.Record{}, nil
	}

	rec, ok := normalize(raw).(store.Record)
	if !ok {
		return nil, errors.New("S012").
			WithDetailf("%s has a %T at its root", name, raw).
			WithExample("a: 1\nnested:\n  b: two")
	}
	return rec, nil
}

// normalize converts YAML mappings with non-string keys into Records so the
// patch engine sees one node type.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(store.Record, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}

// writeJSON prints v as indented JSON with sorted keys.
func writeJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
