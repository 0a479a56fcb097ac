package extract

import "testing"

func testTopic() Topic {
	return Topic{
		Name:  "financial_statements",
		Query: "income statement",
		Fields: []Field{
			{Key: "revenue", Label: "Revenue"},
			{Key: "net_income", Label: "Net income"},
		},
	}.withDefaults()
}

func TestMergeYears_EachColumnFromItsOwnYear(t *testing.T) {
	topic := testTopic()
	current := TopicValues{Fields: map[string]string{"revenue": "120M", "net_income": "12M"}}
	prior := TopicValues{Fields: map[string]string{"revenue": "100M", "net_income": "10M"}}

	m := MergeYears(topic, current, prior, "2025", "2024")
	if len(m.Fields) != 2 {
		t.Fatalf("expected 2 merged fields, got %d", len(m.Fields))
	}
	rev := m.Fields[0]
	if rev.Current.Value != "120M" || rev.Current.SourceYear != "2025" {
		t.Errorf("current column wrong: %+v", rev.Current)
	}
	if rev.Prior.Value != "100M" || rev.Prior.SourceYear != "2024" {
		t.Errorf("prior column wrong: %+v", rev.Prior)
	}
}

func TestMergeYears_PriorFillsCurrentGap(t *testing.T) {
	topic := testTopic()
	current := TopicValues{Fields: map[string]string{"revenue": "", "net_income": "12M"}}
	prior := TopicValues{Fields: map[string]string{"revenue": "100M"}}

	m := MergeYears(topic, current, prior, "2025", "2024")
	rev := m.Fields[0]
	if rev.Current.Value != "100M" {
		t.Errorf("expected prior value to fill the gap, got %+v", rev.Current)
	}
	if rev.Current.SourceYear != "2024" {
		t.Errorf("borrowed value must carry its source year, got %q", rev.Current.SourceYear)
	}
}

func TestMergeYears_NullSpellingsTreatedAsMissing(t *testing.T) {
	topic := testTopic()
	current := TopicValues{Fields: map[string]string{"revenue": "null", "net_income": "N/A"}}
	prior := TopicValues{}

	m := MergeYears(topic, current, prior, "2025", "2024")
	for _, f := range m.Fields {
		if f.Current.Value != "" {
			t.Errorf("field %s: expected empty value, got %q", f.Key, f.Current.Value)
		}
	}
}

func TestMergeYears_Narratives(t *testing.T) {
	topic := Topic{Name: "strategy", Query: "strategy", Qualitative: true}.withDefaults()
	m := MergeYears(topic,
		TopicValues{Narrative: "Expand overseas."},
		TopicValues{Narrative: "Focus on domestic market."},
		"2025", "2024")
	if m.CurrentNarrative != "Expand overseas." || m.PriorNarrative != "Focus on domestic market." {
		t.Errorf("narratives not carried through: %+v", m)
	}
}
