// Package underwriting turns per-document extraction results for one loan
// application into a merged borrower profile, a rule-based risk assessment,
// a cross-document consistency report and a lending decision.
//
// Everything in this package is a pure function of its inputs: no I/O, no
// logging, no state kept between calls. Input order is significant and is
// preserved end to end.
package underwriting

// DocumentType identifies the kind of loan-support document a record came from.
type DocumentType string

const (
	DocumentTypePayStub                DocumentType = "pay_stub"
	DocumentTypeBankStatement          DocumentType = "bank_statement"
	DocumentTypeTaxReturn              DocumentType = "tax_return"
	DocumentTypeCreditReport           DocumentType = "credit_report"
	DocumentTypeEmploymentVerification DocumentType = "employment_verification"
	DocumentTypeAssetStatement         DocumentType = "asset_statement"
	DocumentTypeOther                  DocumentType = "other"
)

var knownDocumentTypes = map[DocumentType]bool{
	DocumentTypePayStub:                true,
	DocumentTypeBankStatement:          true,
	DocumentTypeTaxReturn:              true,
	DocumentTypeCreditReport:           true,
	DocumentTypeEmploymentVerification: true,
	DocumentTypeAssetStatement:         true,
	DocumentTypeOther:                  true,
}

// BorrowerInfo identifies the applicant.
type BorrowerInfo struct {
	PrimaryName    string `json:"primary_name,omitempty"`
	CoBorrowerName string `json:"co_borrower_name,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
}

// Employment describes the applicant's current job.
type Employment struct {
	EmployerName     string `json:"employer_name,omitempty"`
	JobTitle         string `json:"job_title,omitempty"`
	EmploymentLength string `json:"employment_length,omitempty"`
	EmploymentType   string `json:"employment_type,omitempty"`
}

// Income amounts are in a single currency unit; monthly unless named otherwise.
type Income struct {
	BaseMonthlyIncome       *float64 `json:"base_monthly_income,omitempty"`
	AdditionalMonthlyIncome *float64 `json:"additional_monthly_income,omitempty"`
	TotalMonthlyIncome      *float64 `json:"total_monthly_income,omitempty"`
	AnnualIncome            *float64 `json:"annual_income,omitempty"`
	YearToDateIncome        *float64 `json:"ytd_income,omitempty"`
}

// Assets held by the applicant.
type Assets struct {
	CheckingBalance   *float64 `json:"checking_balance,omitempty"`
	SavingsBalance    *float64 `json:"savings_balance,omitempty"`
	InvestmentBalance *float64 `json:"investment_balance,omitempty"`
	TotalLiquidAssets *float64 `json:"total_liquid_assets,omitempty"`
}

// Debts are recurring monthly obligations.
type Debts struct {
	HousingPayment     *float64 `json:"monthly_housing_payment,omitempty"`
	AutoPayment        *float64 `json:"monthly_auto_payment,omitempty"`
	CreditCardPayment  *float64 `json:"monthly_credit_card_payment,omitempty"`
	StudentLoanPayment *float64 `json:"monthly_student_loan_payment,omitempty"`
	TotalMonthlyDebts  *float64 `json:"total_monthly_debts,omitempty"`
}

// CreditInfo holds bureau data as reported on a document.
type CreditInfo struct {
	CreditScore    *float64 `json:"credit_score,omitempty"`
	CreditBureau   string   `json:"credit_bureau,omitempty"`
	OpenAccounts   *float64 `json:"open_accounts,omitempty"`
	Delinquencies  *float64 `json:"delinquencies,omitempty"`
	CreditUtilized *float64 `json:"credit_utilization,omitempty"`
}

// LoanDetails describes the requested loan.
type LoanDetails struct {
	LoanAmount      *float64 `json:"loan_amount,omitempty"`
	LoanPurpose     string   `json:"loan_purpose,omitempty"`
	LoanTermMonths  *float64 `json:"loan_term_months,omitempty"`
	PropertyAddress string   `json:"property_address,omitempty"`
	PropertyValue   *float64 `json:"property_value,omitempty"`
}

// Profile is the set of field groups shared by partial and combined profiles.
type Profile struct {
	BorrowerInfo BorrowerInfo `json:"borrower_info"`
	Employment   Employment   `json:"employment"`
	Income       Income       `json:"income"`
	Assets       Assets       `json:"assets"`
	Debts        Debts        `json:"debts"`
	CreditInfo   CreditInfo   `json:"credit_info"`
	LoanDetails  LoanDetails  `json:"loan_details"`
}

// Extraction is metadata reported by the extractor for one document.
type Extraction struct {
	Confidence       float64 `json:"confidence"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	Completeness     float64 `json:"completeness"`
}

// PartialProfile is the typed fact set taken from a single document.
// DocumentType is never empty.
type PartialProfile struct {
	DocumentType DocumentType `json:"document_type"`
	FileName     string       `json:"file_name,omitempty"`
	Profile
	RiskFlags  []string   `json:"risk_flags,omitempty"`
	Extraction Extraction `json:"extraction"`
}

// CombinedProfile is the merged fact set for a whole application.
type CombinedProfile struct {
	Profile
	DocumentTypes     []DocumentType `json:"document_types"`
	DocumentsAnalyzed int            `json:"documents_analyzed"`
	RiskFlags         []string       `json:"risk_flags"`
	Completeness      float64        `json:"completeness"`
}
