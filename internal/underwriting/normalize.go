package underwriting

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DocumentInput is one extraction result as handed over by the caller.
type DocumentInput struct {
	FileName         string          `json:"file_name"`
	DeclaredType     string          `json:"declared_type,omitempty"`
	Text             string          `json:"text,omitempty"`
	Fields           json.RawMessage `json:"fields,omitempty"`
	Confidence       float64         `json:"confidence"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

// rawExtraction mirrors the extractor payload before values are typed.
type rawExtraction struct {
	DocumentType *string   `json:"document_type"`
	BorrowerInfo fieldMap  `json:"borrower_info"`
	Employment   fieldMap  `json:"employment"`
	Income       fieldMap  `json:"income"`
	Assets       fieldMap  `json:"assets"`
	Debts        fieldMap  `json:"debts"`
	CreditInfo   fieldMap  `json:"credit_info"`
	LoanDetails  fieldMap  `json:"loan_details"`
	RiskFlags    []*string `json:"risk_flags"`
}

// Normalize resolves the document type and types the extracted fields of a
// single document. Values that cannot be read as the expected kind are left
// absent. An error is returned only when Fields is not shaped like an
// extraction payload.
func Normalize(in DocumentInput) (PartialProfile, error) {
	var raw rawExtraction
	if trimmed := bytes.TrimSpace(in.Fields); len(trimmed) > 0 {
		if err := validateShape(in.FileName, trimmed); err != nil {
			return PartialProfile{}, err
		}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return PartialProfile{}, &InputError{
				FileName: in.FileName,
				Problems: []FieldError{{Field: "(root)", Message: err.Error()}},
			}
		}
	}

	p := PartialProfile{
		DocumentType: resolveType(raw.DocumentType, in),
		FileName:     in.FileName,
		Profile: Profile{
			BorrowerInfo: BorrowerInfo{
				PrimaryName:    raw.BorrowerInfo.text("primary_name"),
				CoBorrowerName: raw.BorrowerInfo.text("co_borrower_name"),
				Address:        raw.BorrowerInfo.text("address"),
				Phone:          raw.BorrowerInfo.text("phone"),
				Email:          raw.BorrowerInfo.text("email"),
			},
			Employment: Employment{
				EmployerName:     raw.Employment.text("employer_name"),
				JobTitle:         raw.Employment.text("job_title"),
				EmploymentLength: raw.Employment.text("employment_length"),
				EmploymentType:   raw.Employment.text("employment_type"),
			},
			Income: Income{
				BaseMonthlyIncome:       raw.Income.amount("base_monthly_income"),
				AdditionalMonthlyIncome: raw.Income.amount("additional_monthly_income"),
				TotalMonthlyIncome:      raw.Income.amount("total_monthly_income"),
				AnnualIncome:            raw.Income.amount("annual_income"),
				YearToDateIncome:        raw.Income.amount("ytd_income"),
			},
			Assets: Assets{
				CheckingBalance:   raw.Assets.amount("checking_balance"),
				SavingsBalance:    raw.Assets.amount("savings_balance"),
				InvestmentBalance: raw.Assets.amount("investment_balance"),
				TotalLiquidAssets: raw.Assets.amount("total_liquid_assets"),
			},
			Debts: Debts{
				HousingPayment:     raw.Debts.amount("monthly_housing_payment"),
				AutoPayment:        raw.Debts.amount("monthly_auto_payment"),
				CreditCardPayment:  raw.Debts.amount("monthly_credit_card_payment"),
				StudentLoanPayment: raw.Debts.amount("monthly_student_loan_payment"),
				TotalMonthlyDebts:  raw.Debts.amount("total_monthly_debts"),
			},
			CreditInfo: CreditInfo{
				CreditScore:    raw.CreditInfo.amount("credit_score"),
				CreditBureau:   raw.CreditInfo.text("credit_bureau"),
				OpenAccounts:   raw.CreditInfo.amount("open_accounts"),
				Delinquencies:  raw.CreditInfo.amount("delinquencies"),
				CreditUtilized: raw.CreditInfo.amount("credit_utilization"),
			},
			LoanDetails: LoanDetails{
				LoanAmount:      raw.LoanDetails.amount("loan_amount"),
				LoanPurpose:     raw.LoanDetails.text("loan_purpose"),
				LoanTermMonths:  raw.LoanDetails.amount("loan_term_months"),
				PropertyAddress: raw.LoanDetails.text("property_address"),
				PropertyValue:   raw.LoanDetails.amount("property_value"),
			},
		},
		RiskFlags: cleanFlags(raw.RiskFlags),
		Extraction: Extraction{
			Confidence:       clampPercent(in.Confidence),
			ProcessingTimeMs: max(in.ProcessingTimeMs, 0),
		},
	}
	p.Extraction.Completeness = Completeness(p.Profile)
	return p, nil
}

// resolveType honors the extractor's own type, then the caller's hint, then
// falls back to keyword classification.
func resolveType(extracted *string, in DocumentInput) DocumentType {
	if extracted != nil {
		if t, ok := ParseDocumentType(*extracted); ok {
			return t
		}
	}
	if t, ok := ParseDocumentType(in.DeclaredType); ok {
		return t
	}
	return Classify(in.FileName, in.Text)
}

func cleanFlags(in []*string) []string {
	var out []string
	for _, f := range in {
		if f == nil {
			continue
		}
		if s := strings.TrimSpace(*f); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// fieldMap holds one field group as decoded with json.Decoder.UseNumber.
type fieldMap map[string]any

func (m fieldMap) text(key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	}
	return ""
}

// amount reads a non-negative finite quantity. Numeric strings such as
// "$8,500.00" are accepted; anything else is reported as absent.
func (m fieldMap) amount(key string) *float64 {
	var (
		f   float64
		err error
	)
	switch v := m[key].(type) {
	case json.Number:
		f, err = v.Float64()
	case string:
		f, err = parseAmount(v)
	default:
		return nil
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

var amountCleaner = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

func parseAmount(s string) (float64, error) {
	s = amountCleaner.Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(s, 64)
}
