package querydoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a parsed query document.
type Document struct {
	Queries    []QuerySpec     `yaml:"queries"`
	Statements []StatementSpec `yaml:"statements"`
}

// QuerySpec declares a SELECT. An empty Select projects every column.
// Count turns the query into a COUNT(*) aggregate.
type QuerySpec struct {
	Name    string      `yaml:"name"`
	From    string      `yaml:"from"`
	Where   []Condition `yaml:"where"`
	OrderBy []SortSpec  `yaml:"order_by"`
	Select  []string    `yaml:"select"`
	Count   bool        `yaml:"count"`
}

// Condition is one filter on a column. Param, when set, binds the value
// under that name instead of a generated one. Values is used by in.
type Condition struct {
	Column string `yaml:"column"`
	Op     string `yaml:"op"`
	Value  any    `yaml:"value"`
	Values []any  `yaml:"values"`
	Param  string `yaml:"param"`
}

// SortSpec is one ORDER BY key.
type SortSpec struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc"`
}

// AssignSpec is one column value of an INSERT or UPDATE.
type AssignSpec struct {
	Column string `yaml:"column"`
	Value  any    `yaml:"value"`
	Param  string `yaml:"param"`
}

// StatementSpec declares exactly one of Insert, Update or Delete, each
// naming the target table.
type StatementSpec struct {
	Name   string       `yaml:"name"`
	Insert string       `yaml:"insert"`
	Update string       `yaml:"update"`
	Delete string       `yaml:"delete"`
	Values []AssignSpec `yaml:"values"`
	Set    []AssignSpec `yaml:"set"`
	Where  []Condition  `yaml:"where"`
}

// Parse decodes a query document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse query document: %w", err)
	}
	return &doc, nil
}

// Load reads and decodes a query document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query document: %w", err)
	}
	return Parse(data)
}
