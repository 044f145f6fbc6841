package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
	"github.com/synaptica-ai/hospital-dataset/pkg/encounter"
)

const dateLayout = "2006-01-02"

// Columns is the header row, in output order.
var Columns = []string{
	"Patient_ID",
	"Age",
	"Gender",
	"Department",
	"Admission_Date",
	"Discharge_Date",
	"Diagnosis",
	"Treatment_Cost",
	"Insurance_Covered",
	"Length_of_Stay",
	"Outcome",
}

func Row(rec encounter.Record) []string {
	return []string{
		rec.PatientID,
		strconv.Itoa(rec.Age),
		rec.Gender,
		rec.Department,
		rec.AdmissionDate.Format(dateLayout),
		rec.DischargeDate.Format(dateLayout),
		rec.Diagnosis,
		rec.TreatmentCost.StringFixed(2),
		rec.InsuranceCovered,
		strconv.Itoa(rec.LengthOfStay),
		rec.Outcome,
	}
}

// Write serializes records as CSV to path. The data lands in a temp file next
// to path first and is renamed into place once fully flushed.
func Write(records []encounter.Record, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperr.Wrap(apperr.IOError, "write", err, fmt.Sprintf("failed to create dataset file in %s", dir))
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		tmp.Close()
		return apperr.Wrap(apperr.IOError, "write", err, "failed to write header")
	}
	for _, rec := range records {
		if err := w.Write(Row(rec)); err != nil {
			tmp.Close()
			return apperr.Wrap(apperr.IOError, "write", err, fmt.Sprintf("failed to write record %s", rec.PatientID))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return apperr.Wrap(apperr.IOError, "write", err, "failed to flush dataset")
	}
	if err := tmp.Close(); err != nil {
		return apperr.Wrap(apperr.IOError, "write", err, "failed to close dataset file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperr.Wrap(apperr.IOError, "write", err, "failed to set dataset permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperr.Wrap(apperr.IOError, "write", err, fmt.Sprintf("failed to move dataset into %s", path))
	}
	return nil
}
