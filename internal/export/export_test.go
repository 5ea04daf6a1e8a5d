package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"loanlens/internal/domain"
	"loanlens/internal/export"
)

func portfolio() []domain.LoanApplication {
	score := 85
	level := "Good"
	decision := "APPROVED"
	dti := 28.0
	income := 8500.0
	analyzed := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	return []domain.LoanApplication{
		{
			ID: uuid.New(), LoanNumber: "LN-1001", BorrowerName: "Michael Martinez",
			BorrowerEmail: "m.martinez@example.com", LoanAmount: 450000,
			Status: domain.ApplicationStatusReview, RiskScore: &score, RiskLevel: &level,
			Decision: &decision, DTIRatio: &dti, MonthlyIncome: &income, AnalyzedAt: &analyzed,
			CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: uuid.New(), LoanNumber: "LN-1002", BorrowerName: "Ann Lee", LoanAmount: 120000,
			Status:    domain.ApplicationStatusOpen,
			CreatedAt: time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, portfolio()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), export.BOM))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, export.Columns(), rows[0])
	assert.Equal(t, "LN-1001", rows[1][0])
	assert.Equal(t, "450000.00", rows[1][3])
	assert.Equal(t, "APPROVED", rows[1][6])
	assert.Equal(t, "85", rows[1][7])
	assert.Equal(t, "28.00", rows[1][9])
	assert.Equal(t, "", rows[1][13], "absent credit score")
	assert.Equal(t, "2024-06-03T10:00:00Z", rows[1][14])

	assert.Equal(t, "open", rows[2][5])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][14])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, portfolio()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetName}, f.GetSheetList())
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Loan Number", rows[0][0])
	assert.Equal(t, "Michael Martinez", rows[1][1])
	assert.Equal(t, "85", rows[1][7])

	amount, err := f.GetCellValue(export.SheetName, "D3")
	require.NoError(t, err)
	assert.Equal(t, "120000", amount)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "loan_portfolio_2024-06-03.xlsx", export.BuildFilename("loan portfolio", "xlsx", now))
	assert.Equal(t, "a_b_2024-06-03.csv", export.BuildFilename("a // b", "csv", now))
	assert.Equal(t, "abc", export.SanitizeFilename("__abc__"))
}
