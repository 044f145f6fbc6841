package encounter

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const archiveBatchSize = 500

// ArchivedRecord is the archive row for one generated record of one run.
type ArchivedRecord struct {
	RunID            string         `gorm:"primaryKey;column:run_id" json:"run_id"`
	PatientID        string         `gorm:"primaryKey;column:patient_id" json:"patient_id"`
	Age              int            `gorm:"column:age" json:"age"`
	Gender           string         `gorm:"column:gender" json:"gender"`
	Department       string         `gorm:"column:department;index" json:"department"`
	AdmissionDate    datatypes.Date `gorm:"column:admission_date" json:"admission_date"`
	DischargeDate    datatypes.Date `gorm:"column:discharge_date" json:"discharge_date"`
	Diagnosis        string         `gorm:"column:diagnosis" json:"diagnosis"`
	TreatmentCost    string         `gorm:"column:treatment_cost;type:numeric(12,2)" json:"treatment_cost"`
	InsuranceCovered string         `gorm:"column:insurance_covered" json:"insurance_covered"`
	LengthOfStay     int            `gorm:"column:length_of_stay" json:"length_of_stay"`
	Outcome          string         `gorm:"column:outcome" json:"outcome"`
	CreatedAt        time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ArchivedRecord) TableName() string {
	return "synthetic_encounters"
}

func NewArchivedRecord(runID string, rec Record, createdAt time.Time) ArchivedRecord {
	return ArchivedRecord{
		RunID:            runID,
		PatientID:        rec.PatientID,
		Age:              rec.Age,
		Gender:           rec.Gender,
		Department:       rec.Department,
		AdmissionDate:    datatypes.Date(rec.AdmissionDate),
		DischargeDate:    datatypes.Date(rec.DischargeDate),
		Diagnosis:        rec.Diagnosis,
		TreatmentCost:    rec.TreatmentCost.StringFixed(2),
		InsuranceCovered: rec.InsuranceCovered,
		LengthOfStay:     rec.LengthOfStay,
		Outcome:          rec.Outcome,
		CreatedAt:        createdAt,
	}
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ArchivedRecord{})
}

func (r *Repository) SaveBatch(ctx context.Context, runID string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]ArchivedRecord, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NewArchivedRecord(runID, rec, now))
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, archiveBatchSize).Error
}
