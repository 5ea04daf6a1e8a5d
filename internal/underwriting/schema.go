package underwriting

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed extraction.schema.json
var extractionSchemaJSON string

var extractionSchema = mustCompileSchema(extractionSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("underwriting: compiling extraction schema: %v", err))
	}
	return s
}

// ErrMalformedInput is the sentinel wrapped by every InputError.
var ErrMalformedInput = errors.New("malformed document input")

// FieldError is a single shape violation at a JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InputError reports a document whose extracted fields do not have the
// expected shape at all (not merely missing or unparseable values).
type InputError struct {
	FileName string
	Problems []FieldError
}

func (e *InputError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed extracted fields")
	if e.FileName != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.FileName)
	}
	for i, p := range e.Problems {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(p.Field)
		sb.WriteString(": ")
		sb.WriteString(p.Message)
	}
	return sb.String()
}

func (e *InputError) Unwrap() error { return ErrMalformedInput }

// validateShape checks raw extractor output against the embedded schema.
func validateShape(fileName string, raw []byte) error {
	res, err := extractionSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &InputError{FileName: fileName, Problems: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if res.Valid() {
		return nil
	}
	problems := make([]FieldError, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		problems = append(problems, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return &InputError{FileName: fileName, Problems: problems}
}
