package encounter

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"

	InsuranceYes = "Yes"
	InsuranceNo  = "No"

	OutcomeRecovered = "Recovered"
	OutcomeReferred  = "Referred"
	OutcomeDeceased  = "Deceased"
)

var genders = []string{GenderMale, GenderFemale, GenderOther}

var insurance = []string{InsuranceYes, InsuranceNo}

// departments keeps the sampling order stable; map iteration would not.
var departments = []string{
	"Cardiology",
	"Neurology",
	"Orthopedics",
	"Pediatrics",
	"Oncology",
	"Emergency",
	"Gastroenterology",
}

var diagnoses = map[string][]string{
	"Cardiology":       {"Heart Disease", "Hypertension", "Arrhythmia"},
	"Neurology":        {"Stroke", "Epilepsy", "Migraine"},
	"Orthopedics":      {"Fracture", "Arthritis", "Dislocation"},
	"Pediatrics":       {"Flu", "Asthma", "Infection"},
	"Oncology":         {"Lung Cancer", "Breast Cancer", "Leukemia"},
	"Emergency":        {"Accident", "Burn", "Poisoning"},
	"Gastroenterology": {"Ulcer", "Hepatitis", "IBS"},
}

type weightedOutcome struct {
	value  string
	weight float64
}

var outcomes = []weightedOutcome{
	{OutcomeRecovered, 0.85},
	{OutcomeReferred, 0.10},
	{OutcomeDeceased, 0.05},
}

func Departments() []string {
	return append([]string(nil), departments...)
}

// DiagnosesFor returns the diagnoses a department may record, or nil for an unknown department.
func DiagnosesFor(department string) []string {
	list, ok := diagnoses[department]
	if !ok {
		return nil
	}
	return append([]string(nil), list...)
}

func Outcomes() []string {
	out := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o.value)
	}
	return out
}
