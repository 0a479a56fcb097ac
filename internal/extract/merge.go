package extract

import "strings"

// FieldValue is one extracted value plus the year it came from.
type FieldValue struct {
	Value      string `json:"value"`
	SourceYear string `json:"source_year"`
}

// TopicValues holds what one extraction pass produced for a topic in a
// single year: field values for quantitative topics, a narrative for
// qualitative ones.
type TopicValues struct {
	Fields    map[string]string
	Narrative string
}

// MergedField pairs the current and prior values of one field.
type MergedField struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Unit    string     `json:"unit,omitempty"`
	Current FieldValue `json:"current"`
	Prior   FieldValue `json:"prior"`
}

// MergedTopic is the cross-year view of one topic.
type MergedTopic struct {
	Topic            Topic         `json:"topic"`
	Fields           []MergedField `json:"fields,omitempty"`
	CurrentNarrative string        `json:"current_narrative,omitempty"`
	PriorNarrative   string        `json:"prior_narrative,omitempty"`
}

// MergeYears combines the two yearly extractions of a topic field by
// field. Each column prefers its own year's extraction; a column whose
// extraction came back empty falls back to the other year's value,
// with the source year recorded so the report can flag the borrow.
func MergeYears(topic Topic, current, prior TopicValues, currentYear, priorYear string) MergedTopic {
	merged := MergedTopic{
		Topic:            topic,
		CurrentNarrative: current.Narrative,
		PriorNarrative:   prior.Narrative,
	}
	for _, f := range topic.Fields {
		mf := MergedField{Key: f.Key, Label: f.Label, Unit: f.Unit}
		cur := clean(current.Fields[f.Key])
		pri := clean(prior.Fields[f.Key])
		if cur != "" {
			mf.Current = FieldValue{Value: cur, SourceYear: currentYear}
		} else if pri != "" {
			mf.Current = FieldValue{Value: pri, SourceYear: priorYear}
		}
		if pri != "" {
			mf.Prior = FieldValue{Value: pri, SourceYear: priorYear}
		}
		merged.Fields = append(merged.Fields, mf)
	}
	return merged
}

// clean drops the strings models use to mean "not found".
func clean(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "null", "n/a", "na", "none", "not stated", "not disclosed", "-", "—":
		return ""
	}
	return v
}
