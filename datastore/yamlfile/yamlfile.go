/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package yamlfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/suparena/portalnetwork/errors"
	"github.com/suparena/portalnetwork/storagemodels"
)

// DocumentStore implements datastore.DocumentStore on top of a YAML file.
type DocumentStore struct {
	path string
}

// New creates a store for the YAML file at path. The file is not touched until Load or Save.
func New(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// Path returns the file the store reads and writes.
func (d *DocumentStore) Path() string {
	return d.path
}

// Load reads and parses the file. A missing file yields errors.ErrNoPriorData;
// an empty file yields an empty document.
func (d *DocumentStore) Load(ctx context.Context) (*storagemodels.Section, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("yamlfile: %s: %w", d.path, errors.ErrNoPriorData)
		}
		return nil, fmt.Errorf("yamlfile: read %s: %w", d.path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("yamlfile: parse %s: %w", d.path, err)
	}
	if len(root.Content) == 0 {
		return storagemodels.NewSection(), nil
	}

	doc, err := sectionFromNode(root.Content[0])
	if err != nil {
		return nil, fmt.Errorf("yamlfile: parse %s: %w", d.path, err)
	}
	return doc, nil
}

// Save writes the document to a temporary file next to the target and renames
// it into place, so a crash never leaves a half-written document behind.
func (d *DocumentStore) Save(ctx context.Context, doc *storagemodels.Section) error {
	if doc == nil {
		return errors.NewValidationError("doc", "document is nil")
	}
	node, err := nodeFromSection(doc)
	if err != nil {
		return fmt.Errorf("yamlfile: encode: %w", err)
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("yamlfile: encode: %w", err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("yamlfile: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("yamlfile: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("yamlfile: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("yamlfile: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("yamlfile: replace %s: %w", d.path, err)
	}
	return nil
}

func sectionFromNode(n *yaml.Node) (*storagemodels.Section, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return storagemodels.NewSection(), nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}

	s := storagemodels.NewSection()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		if val.Kind == yaml.AliasNode {
			val = val.Alias
		}
		if val.Kind == yaml.MappingNode {
			child, err := sectionFromNode(val)
			if err != nil {
				return nil, err
			}
			s.Set(key, child)
			continue
		}
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: key %q: %w", val.Line, key, err)
		}
		s.Set(key, v)
	}
	return s, nil
}

func nodeFromSection(s *storagemodels.Section) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range s.Keys() {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}

		var valNode *yaml.Node
		if child := s.Section(key); child != nil {
			var err error
			if valNode, err = nodeFromSection(child); err != nil {
				return nil, err
			}
		} else {
			v, _ := s.Get(key)
			valNode = &yaml.Node{}
			if err := valNode.Encode(v); err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
		}
		n.Content = append(n.Content, keyNode, valNode)
	}
	return n, nil
}
