package encounter

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCount = 1000

	patientIDBase = 100000
)

// Record is one synthetic hospital visit. Dates are calendar dates at UTC midnight.
type Record struct {
	PatientID        string          `json:"patient_id"`
	Age              int             `json:"age"`
	Gender           string          `json:"gender"`
	Department       string          `json:"department"`
	AdmissionDate    time.Time       `json:"admission_date"`
	DischargeDate    time.Time       `json:"discharge_date"`
	Diagnosis        string          `json:"diagnosis"`
	TreatmentCost    decimal.Decimal `json:"treatment_cost"`
	InsuranceCovered string          `json:"insurance_covered"`
	LengthOfStay     int             `json:"length_of_stay"`
	Outcome          string          `json:"outcome"`
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
