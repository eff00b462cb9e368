package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Document is one editor session in an apply file: mount the group's
// editor with ID, set Fields, submit
type Document struct {
	Group  string         `json:"group" yaml:"group"`
	ID     string         `json:"id,omitempty" yaml:"id,omitempty"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// readDocuments reads every document of an apply file. YAML files may hold
// several documents; JSON and JSONC files hold one object or an array.
func readDocuments(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var docs []Document
	if isJSON(path) {
		err = decodeJSON(data, &docs)
	} else {
		docs, err = decodeYAMLDocuments(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return docs, nil
}

func isJSON(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return true
	}
	return false
}

// decodeJSON strips JSONC comments and trailing commas, then decodes a
// single object or an array of objects into out
func decodeJSON(data []byte, out *[]Document) error {
	stripped := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(stripped) > 0 && stripped[0] == '[' {
		return json.Unmarshal(stripped, out)
	}
	var doc Document
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return err
	}
	*out = []Document{doc}
	return nil
}

func decodeYAMLDocuments(data []byte) ([]Document, error) {
	var docs []Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

// decodeFile decodes a YAML, JSON or JSONC file into out
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if isJSON(path) {
		err = json.Unmarshal(jsonc.ToJSON(data), out)
	} else {
		err = yaml.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// fieldValue renders a decoded field value in the string form editors
// accept. Lists become whitespace separated text.
func fieldValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool, int, int64, float64:
		return fmt.Sprint(val), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			s, err := fieldValue(e)
			if err != nil {
				return "", err
			}
			if _, nested := e.([]any); nested {
				return "", fmt.Errorf("nested list %v", val)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("unsupported value %v of type %T", v, v)
}

// sortedFields returns the field names of doc in a stable order
func sortedFields(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
