package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pmx/internal/errors"
)

// fileHeader tops every config file Save writes.
const fileHeader = `# pmx configuration
# This file holds the SSH password for the monitored host. Keep it private.
`

// Save writes the whole config to path, creating parent directories as
// needed. The file carries a plain-text password, so it is written 0600.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Could not create "+dir,
			"Check directory permissions.")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "Could not encode the configuration")
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Could not write "+path,
			"Check file permissions.")
	}
	return nil
}

// settableKey describes one key 'pmx config set' may change.
type settableKey struct {
	section string
	field   string
	tag     string
	check   func(value string) error
}

// settable is the closed set of runtime-tunable preferences. Connection
// settings deliberately go through 'pmx init' instead, which tests them.
var settable = map[string]settableKey{
	"poll_interval": {
		section: "preferences",
		field:   "poll_interval",
		tag:     "!!int",
		check: func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Invalid poll interval %q", v),
					"Use a number of seconds, or 0 to disable automatic polling.")
			}
			return nil
		},
	},
	"theme": {
		section: "preferences",
		field:   "theme",
		tag:     "!!str",
		check: func(v string) error {
			if !ValidThemes[v] {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Unknown theme %q", v),
					"Use 'dark' or 'light'.")
			}
			return nil
		},
	},
}

// SettableKeys returns the keys 'pmx config set' accepts, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates one settable key in the config file. The file is edited as a
// YAML node tree, so comments and the order of unrelated keys survive.
func Set(path, key, value string) error {
	spec, ok := settable[key]
	if !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown setting %q", key),
			"Settable keys: "+strings.Join(SettableKeys(), ", "))
	}
	if err := spec.check(value); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Could not read "+path,
			"Run 'pmx init' to create a config file first.")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Could not parse "+path,
			"Fix the YAML syntax, or recreate the file with 'pmx init'.")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 ||
		root.Content[0].Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfig,
			"Unexpected structure in "+path,
			"Recreate the file with 'pmx init'.")
	}
	doc := root.Content[0]

	section := findMapValue(doc, spec.section)
	if section == nil {
		section = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: spec.section},
			section)
	}

	field := findMapValue(section, spec.field)
	if field == nil {
		field = &yaml.Node{}
		section.Content = append(section.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: spec.field},
			field)
	}
	field.Kind = yaml.ScalarNode
	field.Tag = spec.tag
	field.Value = value
	field.Style = 0

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return errors.Wrap(err, "Could not encode the configuration")
	}
	enc.Close()

	if err := os.WriteFile(path, []byte(buf.String()), 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Could not write "+path,
			"Check file permissions.")
	}
	return nil
}

// findMapValue returns the value node for key in a mapping node.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
