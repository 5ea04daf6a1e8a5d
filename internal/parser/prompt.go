package parser

import "strings"

const loanExtractionPrompt = `You are an underwriting assistant extracting facts from a mortgage loan support document.
{{HINT}}
Read every page. Return ONLY one JSON object, with no markdown and no code fences.

Top-level keys:
  "document_type": one of pay_stub, bank_statement, tax_return, credit_report, employment_verification, other
  "extracted_text": the full plain text of the document
  "confidence": your overall confidence in the extraction, 0 to 100
  "borrower_info": {"primary_name", "co_borrower_name", "address", "phone", "email"}
  "employment": {"employer_name", "job_title", "employment_length", "employment_type"}
  "income": {"base_monthly_income", "additional_monthly_income", "total_monthly_income", "annual_income", "ytd_income"}
  "assets": {"checking_balance", "savings_balance", "investment_balance", "total_liquid_assets"}
  "debts": {"monthly_housing_payment", "monthly_auto_payment", "monthly_credit_card_payment", "monthly_student_loan_payment", "total_monthly_debts"}
  "credit_info": {"credit_score", "credit_bureau", "open_accounts", "delinquencies", "credit_utilization"}
  "loan_details": {"loan_amount", "loan_purpose", "loan_term_months", "property_address", "property_value"}
  "risk_flags": short strings describing anything an underwriter should review (NSF fees, overdrafts, large unexplained deposits, gaps in employment)

Rules:
- Monetary values are plain numbers in US dollars per month unless the key says annual or ytd. No currency symbols.
- employment_length is free text as written, for example "5 years" or "8 months".
- Use null for anything the document does not state. Never guess.`

// BuildLoanExtractionPrompt returns the extraction prompt. declaredType is
// the uploader's hint and may be empty.
func BuildLoanExtractionPrompt(declaredType string) string {
	hint := ""
	if declaredType = strings.TrimSpace(declaredType); declaredType != "" {
		hint = "The uploader labelled this document as " + declaredType + "; correct the label if the content disagrees."
	}
	return strings.Replace(loanExtractionPrompt, "{{HINT}}", hint, 1)
}
