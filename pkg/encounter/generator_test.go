package encounter

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
)

var fixedNow = time.Date(2024, time.March, 15, 17, 30, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	return NewGenerator(NewSources(DefaultSeed, DefaultSeed), WithClock(func() time.Time { return fixedNow }))
}

func TestGenerateReturnsRequestedCount(t *testing.T) {
	for _, count := range []int{1, 5, 100, DefaultCount} {
		records, err := newTestGenerator().Generate(count)
		require.NoError(t, err)
		assert.Len(t, records, count)
	}
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		_, err := newTestGenerator().Generate(count)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.InvalidArgument))
	}
}

func TestGenerateSingleRecordID(t *testing.T) {
	records, err := newTestGenerator().Generate(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P100000", records[0].PatientID)
}

func TestGenerateSequentialIDs(t *testing.T) {
	records, err := newTestGenerator().Generate(5)
	require.NoError(t, err)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("P10000%d", i), rec.PatientID)
	}
}

func TestGenerateRecordInvariants(t *testing.T) {
	records, err := newTestGenerator().Generate(DefaultCount)
	require.NoError(t, err)

	today := dateOf(fixedNow)
	windowStart := today.AddDate(-1, 0, 0)
	floor := decimal.NewFromInt(100)
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		_, dup := seen[rec.PatientID]
		require.False(t, dup, "duplicate patient id %s", rec.PatientID)
		seen[rec.PatientID] = struct{}{}

		assert.GreaterOrEqual(t, rec.Age, 1)
		assert.LessOrEqual(t, rec.Age, 99)
		assert.Contains(t, genders, rec.Gender)
		assert.Contains(t, departments, rec.Department)
		assert.Contains(t, DiagnosesFor(rec.Department), rec.Diagnosis)
		assert.Contains(t, insurance, rec.InsuranceCovered)
		assert.Contains(t, Outcomes(), rec.Outcome)

		assert.GreaterOrEqual(t, rec.LengthOfStay, 1)
		days := int(rec.DischargeDate.Sub(rec.AdmissionDate).Hours() / 24)
		assert.Equal(t, rec.LengthOfStay, days)

		assert.False(t, rec.AdmissionDate.Before(windowStart))
		assert.False(t, rec.AdmissionDate.After(today))

		assert.True(t, rec.TreatmentCost.GreaterThanOrEqual(floor), "cost %s below floor", rec.TreatmentCost)
		assert.True(t, rec.TreatmentCost.Equal(rec.TreatmentCost.Round(2)))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := newTestGenerator().Generate(100)
	require.NoError(t, err)
	second, err := newTestGenerator().Generate(100)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].PatientID, second[i].PatientID)
		assert.Equal(t, first[i].Age, second[i].Age)
		assert.Equal(t, first[i].Gender, second[i].Gender)
		assert.Equal(t, first[i].Department, second[i].Department)
		assert.Equal(t, first[i].Diagnosis, second[i].Diagnosis)
		assert.True(t, first[i].AdmissionDate.Equal(second[i].AdmissionDate))
		assert.True(t, first[i].DischargeDate.Equal(second[i].DischargeDate))
		assert.True(t, first[i].TreatmentCost.Equal(second[i].TreatmentCost))
		assert.Equal(t, first[i].InsuranceCovered, second[i].InsuranceCovered)
		assert.Equal(t, first[i].LengthOfStay, second[i].LengthOfStay)
		assert.Equal(t, first[i].Outcome, second[i].Outcome)
	}
}

func TestGenerateDifferentSeedsDiverge(t *testing.T) {
	clock := WithClock(func() time.Time { return fixedNow })
	a, err := NewGenerator(NewSources(1, 1), clock).Generate(50)
	require.NoError(t, err)
	b, err := NewGenerator(NewSources(2, 2), clock).Generate(50)
	require.NoError(t, err)

	same := true
	for i := range a {
		if a[i].Age != b[i].Age || a[i].Department != b[i].Department || !a[i].AdmissionDate.Equal(b[i].AdmissionDate) {
			same = false
			break
		}
	}
	assert.False(t, same)
}

func TestOutcomeWeightsRoughlyHold(t *testing.T) {
	records, err := newTestGenerator().Generate(5000)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.Outcome]++
	}
	recovered := float64(counts[OutcomeRecovered]) / float64(len(records))
	assert.InDelta(t, 0.85, recovered, 0.04)
	assert.Positive(t, counts[OutcomeReferred])
	assert.Positive(t, counts[OutcomeDeceased])
	assert.Greater(t, counts[OutcomeReferred], counts[OutcomeDeceased])
}

func TestDiagnosesForUnknownDepartment(t *testing.T) {
	assert.Nil(t, DiagnosesFor("Dermatology"))
	assert.Equal(t, []string{"Heart Disease", "Hypertension", "Arrhythmia"}, DiagnosesFor("Cardiology"))
	assert.Len(t, Departments(), 7)
}

func TestNewArchivedRecordFormatsCost(t *testing.T) {
	records, err := newTestGenerator().Generate(1)
	require.NoError(t, err)

	row := NewArchivedRecord("run-1", records[0], fixedNow)
	assert.Equal(t, "run-1", row.RunID)
	assert.Equal(t, records[0].PatientID, row.PatientID)
	assert.Equal(t, records[0].TreatmentCost.StringFixed(2), row.TreatmentCost)
	assert.True(t, time.Time(row.AdmissionDate).Equal(records[0].AdmissionDate))
	assert.Equal(t, "synthetic_encounters", row.TableName())
}

func TestGenerateZeroFakerSeedIsReproducible(t *testing.T) {
	clock := WithClock(func() time.Time { return fixedNow })

	a, err := NewGenerator(NewSources(0, 0), clock).Generate(20)
	require.NoError(t, err)
	b, err := NewGenerator(NewSources(0, 0), clock).Generate(20)
	require.NoError(t, err)
	c, err := NewGenerator(NewSources(0, DefaultSeed), clock).Generate(20)
	require.NoError(t, err)

	for i := range a {
		assert.True(t, a[i].AdmissionDate.Equal(b[i].AdmissionDate), "record %d", i)
		assert.True(t, a[i].AdmissionDate.Equal(c[i].AdmissionDate), "record %d", i)
	}
}

func TestGenerateAdmissionWindowIncludesToday(t *testing.T) {
	records, err := newTestGenerator().Generate(5000)
	require.NoError(t, err)

	today := dateOf(fixedNow)
	windowStart := today.AddDate(-1, 0, 0)
	sawToday := false
	for _, rec := range records {
		assert.False(t, rec.AdmissionDate.After(today), rec.PatientID)
		assert.False(t, rec.AdmissionDate.Before(windowStart), rec.PatientID)
		if rec.AdmissionDate.Equal(today) {
			sawToday = true
		}
	}
	assert.True(t, sawToday, "no admission dated %s", today.Format(time.DateOnly))
}

func TestGenerateSecondCallContinuesStream(t *testing.T) {
	g := newTestGenerator()
	first, err := g.Generate(10)
	require.NoError(t, err)
	second, err := g.Generate(10)
	require.NoError(t, err)

	// Ids restart per call, the draws do not.
	assert.Equal(t, first[0].PatientID, second[0].PatientID)
	assert.NotEqual(t, drawsOf(first), drawsOf(second))

	fresh, err := newTestGenerator().Generate(10)
	require.NoError(t, err)
	assert.Equal(t, drawsOf(first), drawsOf(fresh))
}

func drawsOf(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, fmt.Sprintf("%d|%s|%s|%s|%s|%s|%d",
			rec.Age, rec.Gender, rec.Diagnosis, rec.AdmissionDate.Format(time.DateOnly),
			rec.TreatmentCost.StringFixed(2), rec.Outcome, rec.LengthOfStay))
	}
	return out
}
