package domain

import "time"

type LoanStatus string

const (
	LoanPending    LoanStatus = "pending"
	LoanProcessing LoanStatus = "processing"
	LoanComplete   LoanStatus = "complete"
	LoanError      LoanStatus = "error"
)

// Field wraps an extracted loan attribute with its confidence score
// (0-100) and an optional source citation. Loan attributes are never
// stored as bare values: even placeholder-filled fields carry a
// confidence signal.
type Field[T any] struct {
	Value      T      `json:"value"`
	Confidence int    `json:"confidence"`
	SourcePage int    `json:"source_page,omitempty"`
	SourceText string `json:"source_text,omitempty"`
}

type CovenantType string

const (
	CovenantFinancial CovenantType = "financial"
	CovenantReporting CovenantType = "reporting"
	CovenantGeneral   CovenantType = "general"
)

type Covenant struct {
	Type        CovenantType `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Threshold   string       `json:"threshold,omitempty"`
	Frequency   string       `json:"frequency,omitempty"`
}

type ESGTerm struct {
	Target           string `json:"target"`
	MarginAdjustment string `json:"margin_adjustment,omitempty"`
	MeasurementDate  string `json:"measurement_date,omitempty"`
}

type ChangeType string

const (
	ChangeCommercial ChangeType = "commercial"
	ChangeLegal      ChangeType = "legal"
)

type VersionChange struct {
	Field      string     `json:"field"`
	OldValue   string     `json:"old_value"`
	NewValue   string     `json:"new_value"`
	ChangeType ChangeType `json:"change_type"`
}

type LoanVersion struct {
	Version    int             `json:"version"`
	UploadedAt time.Time       `json:"uploaded_at"`
	UploadedBy string          `json:"uploaded_by"`
	FileName   string          `json:"file_name"`
	Changes    []VersionChange `json:"changes,omitempty"`
}

// Loan is the durable aggregate describing one agreement's extracted
// terms. Version history is append-only: historical versions are never
// edited in place.
type Loan struct {
	ID     string     `json:"id"`
	Status LoanStatus `json:"status"`

	Borrower       Field[string]   `json:"borrower"`
	Lenders        Field[[]string] `json:"lenders"`
	FacilityType   Field[string]   `json:"facility_type"`
	Principal      Field[string]   `json:"principal"`
	Currency       Field[string]   `json:"currency"`
	InterestMargin Field[string]   `json:"interest_margin"`
	MaturityDate   Field[string]   `json:"maturity_date"`

	RepaymentSchedule Field[string] `json:"repayment_schedule"`
	ArrangementFee    Field[string] `json:"arrangement_fee"`
	CommitmentFee     Field[string] `json:"commitment_fee"`
	PrepaymentTerms   Field[string] `json:"prepayment_terms"`

	Covenants            Field[[]Covenant] `json:"covenants"`
	ReportingObligations Field[[]string]   `json:"reporting_obligations"`

	ESGLinked Field[bool]      `json:"esg_linked"`
	ESGTerms  Field[[]ESGTerm] `json:"esg_terms"`

	Versions  []LoanVersion `json:"versions"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// AppendVersion adds a new version entry numbered after the current
// latest. Existing entries are left untouched.
func (l *Loan) AppendVersion(v LoanVersion) {
	v.Version = len(l.Versions) + 1
	l.Versions = append(l.Versions, v)
	l.UpdatedAt = v.UploadedAt
}
