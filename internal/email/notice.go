package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"loanlens/internal/port"
)

var decisionHTML = template.Must(template.New("decision").
	Funcs(template.FuncMap{"join": joinComma}).
	Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Loan {{.LoanNumber}}: {{.Decision}}</h2>
  <p>Hi {{.ToName}},</p>
  <p>The automated analysis for <strong>{{.BorrowerName}}</strong> has finished.</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 4px 12px 4px 0;">Risk score</td><td><strong>{{.RiskScore}}</strong> ({{.RiskLevel}})</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Data consistency</td><td>{{.ConsistencyScore}}</td></tr>
    {{- if .MissingDocuments}}
    <tr><td style="padding: 4px 12px 4px 0;">Missing documents</td><td>{{join .MissingDocuments}}</td></tr>
    {{- end}}
  </table>
  {{- if .ApplicationURL}}
  <p style="text-align: center; margin: 30px 0;">
    <a href="{{.ApplicationURL}}" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open application</a>
  </p>
  {{- end}}
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">LoanLens underwriting assistant. The decision is advisory and requires officer review.</p>
</body>
</html>`))

func joinComma(s []string) string { return strings.Join(s, ", ") }

// RenderDecision builds the subject, HTML body and text body for a notice.
func RenderDecision(n port.DecisionNotice) (subject, htmlBody, textBody string, err error) {
	subject = fmt.Sprintf("Loan %s analysis: %s", n.LoanNumber, n.Decision)

	var buf bytes.Buffer
	if err := decisionHTML.Execute(&buf, n); err != nil {
		return "", "", "", fmt.Errorf("rendering decision email: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", n.ToName)
	fmt.Fprintf(&sb, "The automated analysis for %s (loan %s) has finished.\n\n", n.BorrowerName, n.LoanNumber)
	fmt.Fprintf(&sb, "Decision: %s\nRisk score: %d (%s)\nData consistency: %d\n", n.Decision, n.RiskScore, n.RiskLevel, n.ConsistencyScore)
	if len(n.MissingDocuments) > 0 {
		fmt.Fprintf(&sb, "Missing documents: %s\n", joinComma(n.MissingDocuments))
	}
	if n.ApplicationURL != "" {
		fmt.Fprintf(&sb, "\n%s\n", n.ApplicationURL)
	}
	sb.WriteString("\nLoanLens Underwriting")
	return subject, buf.String(), sb.String(), nil
}
