package types

// DocumentType tags which kind of B+R relief document is being validated.
// The rulebook maps each type to its required section set.
type DocumentType string

// Known document types.
const (
	DocTypeProjectCard   DocumentType = "project_card"
	DocTypeAnnualSummary DocumentType = "annual_summary"
	DocTypeIPBoxReport   DocumentType = "ipbox_report"
)

// ProjectRecord holds the structured project data the document was
// generated from.
type ProjectRecord struct {
	ProjectID   string `json:"project_id,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	TaxID       string `json:"tax_id"`
	FiscalYear  int    `json:"fiscal_year"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// NexusComponents are the four cost components of the regulatory nexus
// ratio: direct qualifying costs (A), qualifying costs from unrelated
// external parties (B), from related parties (C), and the cost of acquiring
// ready-made qualifying rights (D).
type NexusComponents struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// Total returns the sum of all four components.
func (n NexusComponents) Total() float64 {
	return n.A + n.B + n.C + n.D
}

// PersonnelEntry records one person's declared B+R time allocation.
type PersonnelEntry struct {
	Name              string  `json:"name"`
	AllocationPercent float64 `json:"allocation_percent"`
}

// FinancialBreakdown holds the structured cost data backing the document.
type FinancialBreakdown struct {
	CategoryTotals map[string]float64 `json:"category_totals"`
	GrandTotal     float64            `json:"grand_total"`
	Nexus          NexusComponents    `json:"nexus_components"`
	NexusStated    float64            `json:"nexus_stated"`
	Personnel      []PersonnelEntry   `json:"personnel,omitempty"`
}
