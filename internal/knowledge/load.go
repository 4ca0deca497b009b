package knowledge

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/spboyer/modelpick/internal/profile"
	"github.com/spboyer/modelpick/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed rules/*.yaml
var referenceFS embed.FS

// document is the YAML-serialized form of a knowledge base file.
type document struct {
	Version     int        `yaml:"version"`
	Description string     `yaml:"description,omitempty"`
	Rules       []yamlRule `yaml:"rules"`
}

// yamlRule is the YAML-serialized form of a Rule.
type yamlRule struct {
	ID         string         `yaml:"id"`
	Weight     float64        `yaml:"weight"`
	When       map[string]any `yaml:"when,omitempty"`
	Candidates []string       `yaml:"candidates"`
	Rationale  string         `yaml:"rationale"`
}

// Reference returns the embedded reference knowledge base.
func Reference() (*Base, error) {
	return LoadFS(referenceFS, "rules")
}

// Load parses, schema-validates and freezes a single knowledge base document.
func Load(data []byte) (*Base, error) {
	rules, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return New(rules)
}

// LoadFile reads a knowledge base document from disk.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base %s: %w", path, err)
	}
	b, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadFS loads every *.yaml document in dir, in file name order, and
// concatenates their rules into one knowledge base. Rule IDs must be unique
// across files.
func LoadFS(fsys fs.FS, dir string) (*Base, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rules dir %q: %w", dir, err)
	}

	// Sort for deterministic load order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var all []Rule
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := dir + "/" + entry.Name()
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		rules, err := parseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		all = append(all, rules...)
	}

	return New(all)
}

func parseDocument(data []byte) ([]Rule, error) {
	if errs := validation.ValidateKnowledgeBaseBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKnowledgeBase, strings.Join(errs, "; "))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidKnowledgeBase, err)
	}

	rules := make([]Rule, 0, len(doc.Rules))
	for _, yr := range doc.Rules {
		rule, err := convertRule(yr)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidKnowledgeBase, yr.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func convertRule(yr yamlRule) (Rule, error) {
	cond := make(Condition, 0, len(yr.When))
	for key, raw := range yr.When {
		attr := profile.Attribute(key)
		v, err := profile.ParseValue(attr, raw)
		if err != nil {
			return Rule{}, err
		}
		cond = append(cond, Clause{Attribute: attr, Value: v})
	}

	return Rule{
		ID:         yr.ID,
		Weight:     yr.Weight,
		Condition:  cond,
		Candidates: yr.Candidates,
		Rationale:  yr.Rationale,
	}, nil
}

// Marshal renders a knowledge base back into its YAML document form.
func Marshal(b *Base) ([]byte, error) {
	doc := document{Version: 1, Rules: make([]yamlRule, 0, b.Len())}
	b.Each(func(r Rule) {
		yr := yamlRule{
			ID:         r.ID,
			Weight:     r.Weight,
			Candidates: r.Candidates,
			Rationale:  r.Rationale,
		}
		if len(r.Condition) > 0 {
			yr.When = make(map[string]any, len(r.Condition))
			for _, c := range r.Condition {
				yr.When[string(c.Attribute)] = c.Value.Interface()
			}
		}
		doc.Rules = append(doc.Rules, yr)
	})
	return yaml.Marshal(doc)
}
