package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
	"github.com/synaptica-ai/hospital-dataset/pkg/encounter"
)

func generate(t *testing.T, count int) []encounter.Record {
	t.Helper()
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	gen := encounter.NewGenerator(
		encounter.NewSources(encounter.DefaultSeed, encounter.DefaultSeed),
		encounter.WithClock(func() time.Time { return now }),
	)
	records, err := gen.Generate(count)
	require.NoError(t, err)
	return records
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteThenReadBack(t *testing.T) {
	records := generate(t, 25)
	path := filepath.Join(t.TempDir(), "hospital_dataset.csv")

	require.NoError(t, Write(records, path))

	rows := readAll(t, path)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, []string{
		"Patient_ID", "Age", "Gender", "Department", "Admission_Date",
		"Discharge_Date", "Diagnosis", "Treatment_Cost", "Insurance_Covered",
		"Length_of_Stay", "Outcome",
	}, rows[0])
	assert.Equal(t, "P100000", rows[1][0])
	assert.Equal(t, "P100024", rows[len(rows)-1][0])
}

func TestRowFormatting(t *testing.T) {
	rec := encounter.Record{
		PatientID:        "P100007",
		Age:              64,
		Gender:           encounter.GenderFemale,
		Department:       "Oncology",
		AdmissionDate:    time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
		DischargeDate:    time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Diagnosis:        "Leukemia",
		TreatmentCost:    decimal.NewFromInt(4200),
		InsuranceCovered: encounter.InsuranceYes,
		LengthOfStay:     7,
		Outcome:          encounter.OutcomeReferred,
	}
	assert.Equal(t, []string{
		"P100007", "64", "Female", "Oncology", "2024-01-03", "2024-01-10",
		"Leukemia", "4200.00", "Yes", "7", "Referred",
	}, Row(rec))
}

func TestWriteQuotesEmbeddedCommas(t *testing.T) {
	rec := generate(t, 1)[0]
	rec.Diagnosis = "Fracture, compound"
	path := filepath.Join(t.TempDir(), "quoted.csv")

	require.NoError(t, Write([]encounter.Record{rec}, path))
	rows := readAll(t, path)
	assert.Equal(t, "Fracture, compound", rows[1][6])
}

func TestWriteOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hospital_dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	require.NoError(t, Write(generate(t, 3), path))
	assert.Len(t, readAll(t, path), 4)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "hospital_dataset.csv")

	err := Write(generate(t, 2), path)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.IOError))
}
