// Package export renders the loan portfolio as CSV or XLSX for offline review.
package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"loanlens/internal/domain"
)

// columns defines the header row shared by every format.
var columns = []string{
	"Loan Number",
	"Borrower Name",
	"Borrower Email",
	"Loan Amount",
	"Property Address",
	"Status",
	"Decision",
	"Risk Score",
	"Risk Level",
	"DTI Ratio",
	"Monthly Income",
	"Monthly Debts",
	"Liquid Assets",
	"Credit Score",
	"Analyzed At",
	"Created At",
}

// Columns returns a copy of the header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// applicationValues returns one cell per column. Numbers stay numeric so the
// XLSX writer can store them as such; absent values are nil.
func applicationValues(app *domain.LoanApplication) []any {
	row := make([]any, len(columns))
	row[0] = app.LoanNumber
	row[1] = app.BorrowerName
	row[2] = app.BorrowerEmail
	row[3] = app.LoanAmount
	row[4] = app.PropertyAddress
	row[5] = string(app.Status)
	row[6] = derefString(app.Decision)
	if app.RiskScore != nil {
		row[7] = *app.RiskScore
	}
	row[8] = derefString(app.RiskLevel)
	row[9] = derefFloat(app.DTIRatio)
	row[10] = derefFloat(app.MonthlyIncome)
	row[11] = derefFloat(app.MonthlyDebts)
	row[12] = derefFloat(app.LiquidAssets)
	row[13] = derefFloat(app.CreditScore)
	if app.AnalyzedAt != nil {
		row[14] = app.AnalyzedAt.UTC().Format(time.RFC3339)
	}
	row[15] = app.CreatedAt.UTC().Format(time.RFC3339)
	return row
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// formatCell renders a value for text output.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	default:
		return fmt.Sprint(x)
	}
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	multiUnderscore = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename makes name safe for a Content-Disposition header.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), ext)
}
