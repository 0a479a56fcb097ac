// Package extract turns retrieved report windows into structured
// metric values. Retrieval picks the sections, the completion provider
// reads them, and this package owns the prompts, the defensive JSON
// decoding, and the cross-year merge.
package extract

// Target describes the company pair under extraction. It is passed
// explicitly through every call so concurrent report jobs cannot
// trample each other's context.
type Target struct {
	Company  string `json:"company"`
	Language string `json:"language"`
	Currency string `json:"currency"`
}

// WithDefaults fills unset fields with neutral values.
func (t Target) WithDefaults() Target {
	if t.Language == "" {
		t.Language = "en"
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	return t
}
