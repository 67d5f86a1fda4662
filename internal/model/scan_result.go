package model

// Category labels used by the placeholder scan, in report order.
const (
	CategoryForums  = "Dark Web Forums"
	CategoryMarkets = "Dark Web Markets"
	CategoryPastes  = "Paste Sites"
)

// DefaultCategories returns the category labels every scan starts with.
func DefaultCategories() []string {
	return []string{CategoryForums, CategoryMarkets, CategoryPastes}
}

// Category is a labelled list of findings.
type Category struct {
	Label    string   `json:"label"`
	Findings []string `json:"findings"`
}

// ScanResult maps category labels to findings in insertion order.
// The zero value is ready to use.
type ScanResult struct {
	categories []*Category
	index      map[string]*Category
}

// NewScanResult creates a ScanResult with the given empty categories.
// Duplicate labels are created once.
func NewScanResult(labels ...string) *ScanResult {
	r := &ScanResult{}
	for _, label := range labels {
		r.category(label)
	}
	return r
}

// category returns the category for label, creating it at the end if needed.
func (r *ScanResult) category(label string) *Category {
	if r.index == nil {
		r.index = make(map[string]*Category)
	}
	if c, ok := r.index[label]; ok {
		return c
	}
	c := &Category{Label: label}
	r.categories = append(r.categories, c)
	r.index[label] = c
	return c
}

// Add appends a finding to the category, creating the category if needed.
func (r *ScanResult) Add(label, finding string) {
	c := r.category(label)
	c.Findings = append(c.Findings, finding)
}

// Categories returns copies of all categories in insertion order,
// including empty ones.
func (r *ScanResult) Categories() []Category {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, Category{
			Label:    c.Label,
			Findings: append([]string(nil), c.Findings...),
		})
	}
	return out
}

// NonEmpty returns the categories that have at least one finding.
func (r *ScanResult) NonEmpty() []Category {
	var out []Category
	for _, c := range r.Categories() {
		if len(c.Findings) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Findings returns the findings of a category, or nil if it does not exist.
func (r *ScanResult) Findings(label string) []string {
	c, ok := r.index[label]
	if !ok {
		return nil
	}
	return append([]string(nil), c.Findings...)
}

// IsEmpty reports whether no category holds a finding.
func (r *ScanResult) IsEmpty() bool {
	return r.TotalFindings() == 0
}

// TotalFindings returns the number of findings across all categories.
func (r *ScanResult) TotalFindings() int {
	total := 0
	for _, c := range r.categories {
		total += len(c.Findings)
	}
	return total
}
