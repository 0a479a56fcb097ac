package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Field is one named value a topic tries to pull out of its windows.
type Field struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	Unit  string `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// Topic is a parameterized section picker: a retrieval query plus the
// windowing knobs and the fields to extract from the assembled text.
// Qualitative topics produce a narrative summary instead of fields.
type Topic struct {
	Name           string  `yaml:"name" json:"name"`
	Query          string  `yaml:"query" json:"query"`
	TopK           int     `yaml:"top_k" json:"top_k"`
	WindowSize     int     `yaml:"window_size" json:"window_size"`
	FirstMatchOnly bool    `yaml:"first_match_only" json:"first_match_only"`
	Fields         []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
	Qualitative    bool    `yaml:"qualitative" json:"qualitative"`
}

const (
	defaultTopK       = 5
	defaultWindowSize = 3
)

func (t Topic) withDefaults() Topic {
	if t.TopK <= 0 {
		t.TopK = defaultTopK
	}
	if t.WindowSize <= 0 {
		t.WindowSize = defaultWindowSize
	}
	return t
}

// BuiltinTopics is the default extraction plan for an annual report
// pair. A topics.yaml file replaces the whole set.
func BuiltinTopics() []Topic {
	topics := []Topic{
		{
			Name:  "financial_statements",
			Query: "consolidated income statement revenue operating profit net income balance sheet total assets equity",
			Fields: []Field{
				{Key: "revenue", Label: "Revenue"},
				{Key: "operating_income", Label: "Operating income"},
				{Key: "net_income", Label: "Net income"},
				{Key: "total_assets", Label: "Total assets"},
				{Key: "total_equity", Label: "Total equity"},
				{Key: "operating_cash_flow", Label: "Operating cash flow"},
			},
		},
		{
			Name:  "shareholder_returns",
			Query: "dividend per share payout ratio share buyback repurchase shareholder returns",
			Fields: []Field{
				{Key: "dividend_per_share", Label: "Dividend per share"},
				{Key: "payout_ratio", Label: "Payout ratio", Unit: "%"},
				{Key: "buyback_amount", Label: "Share buybacks"},
			},
		},
		{
			Name:        "business_overview",
			Query:       "business overview segments products services markets customers",
			Qualitative: true,
		},
		{
			Name:        "risk_factors",
			Query:       "risk factors uncertainties competition regulation litigation",
			Qualitative: true,
		},
		{
			Name:        "strategy",
			Query:       "strategy outlook guidance growth plan medium-term targets",
			Qualitative: true,
		},
	}
	for i := range topics {
		topics[i] = topics[i].withDefaults()
	}
	return topics
}

// LoadTopics reads a topic set from a YAML file. The file holds a
// top-level `topics:` list; an empty path returns the built-in set.
func LoadTopics(path string) ([]Topic, error) {
	if path == "" {
		return BuiltinTopics(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}
	var doc struct {
		Topics []Topic `yaml:"topics"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse topics file %s: %w", path, err)
	}
	if len(doc.Topics) == 0 {
		return nil, fmt.Errorf("topics file %s defines no topics", path)
	}
	seen := make(map[string]bool, len(doc.Topics))
	for i, t := range doc.Topics {
		if t.Name == "" {
			return nil, fmt.Errorf("topics file %s: topic %d has no name", path, i)
		}
		if t.Query == "" {
			return nil, fmt.Errorf("topics file %s: topic %q has no query", path, t.Name)
		}
		if !t.Qualitative && len(t.Fields) == 0 {
			return nil, fmt.Errorf("topics file %s: topic %q has no fields and is not qualitative", path, t.Name)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("topics file %s: duplicate topic %q", path, t.Name)
		}
		seen[t.Name] = true
		doc.Topics[i] = t.withDefaults()
	}
	return doc.Topics, nil
}
