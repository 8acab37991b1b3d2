package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hireflow/pkg/models"
)

func TestWriteCandidates(t *testing.T) {
	candidates := []models.Candidate{
		{
			Name: "Ada Lovelace", Email: "ada@example.com", Location: "London", Position: "Analyst",
			Experience: "5 years", Skills: []string{"Math", "Engines"}, Status: models.CandidateStatusOffer,
			AppliedDate: "2026-03-01", Evaluation: models.Evaluation{Overall: 4.5},
		},
		{
			Name: "Alan Turing", Email: "alan@example.com", Location: "Manchester", Position: "Cryptographer",
			Experience: "8 years", Skills: []string{}, Status: models.CandidateStatusApplied, AppliedDate: "2026-03-02",
		},
	}
	generated := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, candidates, generated))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{CandidatesSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, candidateHeaders, rows[0])
	assert.Equal(t, "Ada Lovelace", rows[1][0])
	assert.Equal(t, "Math, Engines", rows[1][6])
	assert.Equal(t, "offer", rows[1][7])
	assert.Equal(t, "4.5", rows[1][9])

	total, err := f.GetCellValue(SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	stamp, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04T10:00:00Z", stamp)

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Contains(t, summary, []string{"applied", "1"})
	assert.Contains(t, summary, []string{"offer", "1"})
	assert.Contains(t, summary, []string{"withdrawn", "0"})
}

func TestWriteCandidatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
