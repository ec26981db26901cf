package domain

import "time"

func strField(value string, confidence, page int) Field[string] {
	return Field[string]{Value: value, Confidence: confidence, SourcePage: page}
}

// SeedLoans returns the built-in example records the store is populated
// with on first use. Returned loans are fresh copies; callers may
// mutate them freely.
func SeedLoans() []Loan {
	return []Loan{meridianSeed(), northwindSeed(), atlasSeed()}
}

func meridianSeed() Loan {
	return Loan{
		ID:             "LN-2024-001",
		Status:         LoanComplete,
		Borrower:       strField("Meridian Holdings Ltd", 98, 1),
		Lenders:        Field[[]string]{Value: []string{"Deutsche Bank AG", "BNP Paribas SA", "HSBC Bank plc"}, Confidence: 95, SourcePage: 1},
		FacilityType:   strField("Revolving Credit Facility", 99, 2),
		Principal:      strField("500,000,000", 100, 3),
		Currency:       strField("EUR", 100, 3),
		InterestMargin: strField("EURIBOR + 175 bps", 97, 4),
		MaturityDate:   strField("2029-03-15", 100, 3),

		RepaymentSchedule: strField("Bullet repayment at maturity", 94, 8),
		ArrangementFee:    strField("50 bps", 92, 12),
		CommitmentFee:     strField("35% of applicable margin on undrawn amounts", 88, 12),
		PrepaymentTerms:   strField("Voluntary prepayment permitted with 5 business days notice, no break costs for EURIBOR periods", 85, 15),

		Covenants: Field[[]Covenant]{
			Value: []Covenant{
				{Type: CovenantFinancial, Name: "Interest Cover Ratio", Description: "EBITDA to Net Interest Expense", Threshold: ">= 4.0x", Frequency: "Semi-annual"},
				{Type: CovenantFinancial, Name: "Net Leverage Ratio", Description: "Net Debt to EBITDA", Threshold: "<= 3.5x", Frequency: "Semi-annual"},
				{Type: CovenantReporting, Name: "Annual Audited Accounts", Description: "Delivery of audited consolidated financial statements", Frequency: "120 days after FY end"},
				{Type: CovenantReporting, Name: "Compliance Certificate", Description: "Officer certificate confirming covenant compliance", Frequency: "Semi-annual"},
			},
			Confidence: 91, SourcePage: 22,
		},
		ReportingObligations: Field[[]string]{
			Value: []string{
				"Annual audited financial statements within 120 days",
				"Quarterly management accounts within 45 days",
				"Compliance certificate with each financial delivery",
				"Notification of material litigation within 10 days",
			},
			Confidence: 89, SourcePage: 28,
		},

		ESGLinked: Field[bool]{Value: true, Confidence: 100, SourcePage: 35},
		ESGTerms: Field[[]ESGTerm]{
			Value: []ESGTerm{
				{Target: "Scope 1+2 emissions reduction of 25% by 2027", MarginAdjustment: "-5 bps if achieved", MeasurementDate: "2027-12-31"},
				{Target: "Gender diversity target: 40% women in senior management", MarginAdjustment: "-2.5 bps if achieved", MeasurementDate: "2026-12-31"},
			},
			Confidence: 93, SourcePage: 35,
		},

		Versions: []LoanVersion{
			{
				Version:    1,
				UploadedAt: time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC),
				UploadedBy: "j.martinez@meridian.com",
				FileName:   "Meridian_RCF_Draft_v1.pdf",
			},
			{
				Version:    2,
				UploadedAt: time.Date(2024, 1, 18, 9, 15, 0, 0, time.UTC),
				UploadedBy: "j.martinez@meridian.com",
				FileName:   "Meridian_RCF_Draft_v2.pdf",
				Changes: []VersionChange{
					{Field: "interest_margin", OldValue: "EURIBOR + 200 bps", NewValue: "EURIBOR + 175 bps", ChangeType: ChangeCommercial},
					{Field: "Net Leverage Ratio", OldValue: "<= 3.0x", NewValue: "<= 3.5x", ChangeType: ChangeCommercial},
				},
			},
			{
				Version:    3,
				UploadedAt: time.Date(2024, 1, 25, 16, 45, 0, 0, time.UTC),
				UploadedBy: "s.chen@legalteam.com",
				FileName:   "Meridian_RCF_Final.pdf",
				Changes: []VersionChange{
					{
						Field:      "prepayment_terms",
						OldValue:   "Voluntary prepayment permitted with 10 business days notice",
						NewValue:   "Voluntary prepayment permitted with 5 business days notice, no break costs for EURIBOR periods",
						ChangeType: ChangeLegal,
					},
				},
			},
		},
		CreatedAt: time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 25, 16, 45, 0, 0, time.UTC),
	}
}

func northwindSeed() Loan {
	return Loan{
		ID:             "LN-2024-002",
		Status:         LoanComplete,
		Borrower:       strField("Northwind Infrastructure Partners", 97, 1),
		Lenders:        Field[[]string]{Value: []string{"Barclays Bank PLC", "Societe Generale"}, Confidence: 96, SourcePage: 1},
		FacilityType:   strField("Term Loan Facility", 99, 2),
		Principal:      strField("250,000,000", 100, 3),
		Currency:       strField("GBP", 100, 3),
		InterestMargin: strField("SONIA + 225 bps", 96, 4),
		MaturityDate:   strField("2031-06-30", 100, 3),

		RepaymentSchedule: strField("Quarterly amortisation of 2.5% from Year 2", 92, 9),
		ArrangementFee:    strField("75 bps", 94, 14),
		CommitmentFee:     strField("40% of applicable margin", 90, 14),
		PrepaymentTerms:   strField("Make-whole provision for first 3 years, par thereafter", 87, 17),

		Covenants: Field[[]Covenant]{
			Value: []Covenant{
				{Type: CovenantFinancial, Name: "Debt Service Coverage Ratio", Description: "Operating Cash Flow to Debt Service", Threshold: ">= 1.2x", Frequency: "Quarterly"},
				{Type: CovenantFinancial, Name: "Loan to Value", Description: "Outstanding Debt to Asset Value", Threshold: "<= 65%", Frequency: "Annual"},
			},
			Confidence: 89, SourcePage: 24,
		},
		ReportingObligations: Field[[]string]{
			Value: []string{
				"Annual audited accounts within 180 days",
				"Quarterly unaudited accounts within 60 days",
				"Annual asset valuation report",
			},
			Confidence: 86, SourcePage: 30,
		},

		ESGLinked: Field[bool]{Value: false, Confidence: 100, SourcePage: 1},
		ESGTerms:  Field[[]ESGTerm]{Value: []ESGTerm{}, Confidence: 100, SourcePage: 1},

		Versions: []LoanVersion{
			{
				Version:    1,
				UploadedAt: time.Date(2024, 2, 5, 11, 20, 0, 0, time.UTC),
				UploadedBy: "m.taylor@northwind.co.uk",
				FileName:   "Northwind_TLB_Agreement.pdf",
			},
		},
		CreatedAt: time.Date(2024, 2, 5, 11, 20, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 5, 11, 20, 0, 0, time.UTC),
	}
}

func atlasSeed() Loan {
	return Loan{
		ID:             "LN-2024-003",
		Status:         LoanProcessing,
		Borrower:       strField("Atlas Renewables GmbH", 72, 1),
		Lenders:        Field[[]string]{Value: []string{"KfW IPEX-Bank GmbH"}, Confidence: 68, SourcePage: 1},
		FacilityType:   strField("Project Finance Facility", 75, 2),
		Principal:      strField("180,000,000", 82, 3),
		Currency:       strField("EUR", 100, 3),
		InterestMargin: strField("EURIBOR + 150 bps", 65, 4),
		MaturityDate:   strField("2038-12-31", 78, 3),

		RepaymentSchedule: strField("Sculpted amortisation matching project cash flows", 55, 10),
		ArrangementFee:    strField("100 bps", 60, 15),
		CommitmentFee:     strField("50% of margin during availability", 58, 15),
		PrepaymentTerms:   strField("Subject to prepayment fee schedule in Schedule 12", 45, 18),

		Covenants:            Field[[]Covenant]{Value: []Covenant{}, Confidence: 40, SourcePage: 25},
		ReportingObligations: Field[[]string]{Value: []string{}, Confidence: 35, SourcePage: 32},

		ESGLinked: Field[bool]{Value: true, Confidence: 88, SourcePage: 40},
		ESGTerms: Field[[]ESGTerm]{
			Value:      []ESGTerm{{Target: "Renewable energy generation targets", MarginAdjustment: "TBD"}},
			Confidence: 50, SourcePage: 40,
		},

		Versions: []LoanVersion{
			{
				Version:    1,
				UploadedAt: time.Date(2024, 2, 20, 8, 45, 0, 0, time.UTC),
				UploadedBy: "k.schmidt@atlas-renewables.de",
				FileName:   "Atlas_ProjectFinance_Draft.pdf",
			},
		},
		CreatedAt: time.Date(2024, 2, 20, 8, 45, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 20, 8, 45, 0, 0, time.UTC),
	}
}
