package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesFile is the on-disk shape of a user category rules file. User rules
// are checked before the built-in tables, so they win on overlap.
type RulesFile struct {
	Income  []CategoryRule `yaml:"income"`
	Expense []CategoryRule `yaml:"expense"`
}

// LoadRules merges a YAML rules file into the categorizer.
func (c *Categorizer) LoadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse category rules %s: %w", path, err)
	}

	c.income = append(file.Income, c.income...)
	c.expense = append(file.Expense, c.expense...)
	return nil
}
