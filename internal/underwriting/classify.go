package underwriting

import "strings"

type classificationRule struct {
	docType DocumentType
	keys    []string
}

// classificationRules is evaluated top to bottom; the first rule with a
// matching key wins.
var classificationRules = []classificationRule{
	{DocumentTypePayStub, []string{"paystub", "pay_stub", "pay period"}},
	{DocumentTypeBankStatement, []string{"bank", "statement", "account balance"}},
	{DocumentTypeTaxReturn, []string{"tax", "1040"}},
	{DocumentTypeCreditReport, []string{"credit", "fico"}},
	{DocumentTypeEmploymentVerification, []string{"employment"}},
}

var documentTypeAliases = map[string]DocumentType{
	"employment_letter": DocumentTypeEmploymentVerification,
	"paystub":           DocumentTypePayStub,
}

// Classify infers a document type from the file name. When the name matches
// no rule, the extracted text is tried against the same table. Anything
// unmatched is DocumentTypeOther.
func Classify(fileName, text string) DocumentType {
	if t, ok := matchRules(fileName); ok {
		return t
	}
	if t, ok := matchRules(text); ok {
		return t
	}
	return DocumentTypeOther
}

func matchRules(s string) (DocumentType, bool) {
	if s == "" {
		return "", false
	}
	s = strings.ToLower(s)
	for _, r := range classificationRules {
		for _, k := range r.keys {
			if strings.Contains(s, k) {
				return r.docType, true
			}
		}
	}
	return "", false
}

// ParseDocumentType maps a declared type string onto a DocumentType.
// Case, surrounding space and hyphen/space separators are ignored.
func ParseDocumentType(s string) (DocumentType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	if t, ok := documentTypeAliases[s]; ok {
		return t, true
	}
	t := DocumentType(s)
	return t, knownDocumentTypes[t]
}

// RequiredDocumentTypes lists the document types every application must include.
func RequiredDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypePayStub,
		DocumentTypeBankStatement,
		DocumentTypeTaxReturn,
	}
}
