package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Rule claims that Replacement can stand in for Source. Both sides are
// assembly text in the ':'-separated form accepted by the assembler.
type Rule struct {
	Source      string `json:"source" yaml:"source"`
	Replacement string `json:"replacement" yaml:"replacement"`
	DeadFlags   string `json:"dead_flags,omitempty" yaml:"dead_flags,omitempty"`
	BytesSaved  int    `json:"bytes_saved" yaml:"bytes_saved"`
	CyclesSaved int    `json:"cycles_saved" yaml:"cycles_saved"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s (-%d bytes, -%d cycles)", r.Source, r.Replacement, r.BytesSaved, r.CyclesSaved)
}

// Table collects rules from concurrent checkers.
type Table struct {
	mu    sync.Mutex
	rules []Rule
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a rule into the table.
func (t *Table) Add(r Rule) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = append(t.rules, r)
}

// Rules returns a copy of all rules, sorted by bytes saved (descending).
func (t *Table) Rules() []Rule {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BytesSaved != out[j].BytesSaved {
			return out[i].BytesSaved > out[j].BytesSaved
		}
		return out[i].CyclesSaved > out[j].CyclesSaved
	})
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rules)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// WriteRules writes rules to path as YAML for .yaml/.yml files and as
// indented JSON otherwise.
func WriteRules(path string, rules []Rule) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(rules)
	} else {
		data, err = json.MarshalIndent(rules, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}

// ReadRules loads a rule file written by WriteRules.
func ReadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var rules []Rule
	if isYAML(path) {
		err = yaml.Unmarshal(data, &rules)
	} else {
		err = json.Unmarshal(data, &rules)
	}
	if err != nil {
		return nil, fmt.Errorf("decode rules %s: %w", path, err)
	}
	return rules, nil
}
