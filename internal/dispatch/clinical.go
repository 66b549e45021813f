package dispatch

import "strings"

// MsgNoClinicalData is returned when a product is not in the catalog.
const MsgNoClinicalData = "No data found for that product."

// ClinicalCatalog is a read-only product summary lookup keyed by
// lower-cased product name.
type ClinicalCatalog struct {
	entries map[string]string
}

func NewClinicalCatalog(entries map[string]string) *ClinicalCatalog {
	c := &ClinicalCatalog{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		c.entries[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return c
}

// DefaultClinicalCatalog holds the built-in product summaries.
func DefaultClinicalCatalog() *ClinicalCatalog {
	return NewClinicalCatalog(map[string]string{
		"valcor":      "Valcor (VAL-123) Phase 3 trials showed a 45% reduction in primary endpoints vs. placebo...",
		"aether-d":    "Aether-D is a combination therapy approved for type-2 diabetes...",
		"solara":      "Solara is an immunomodulator currently in Phase 2 for treating rheumatoid arthritis...",
		"paracetamol": "Paracetamol is a widely used analgesic and antipyretic that provides effective relief from mild to moderate pain and fever. It is available over the counter and recommended by WHO as an essential medicine.",
		"dolo-650":    "Dolo 650 is a high-strength formulation of paracetamol (650 mg) used for managing fever and body aches. Clinically trusted in India, it is frequently prescribed during viral infections and post-vaccination symptoms.",
	})
}

// Lookup matches product names case-insensitively.
func (c *ClinicalCatalog) Lookup(product string) (string, bool) {
	v, ok := c.entries[strings.ToLower(strings.TrimSpace(product))]
	return v, ok
}
