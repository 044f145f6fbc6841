package encounter

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
)

const (
	DefaultSeed = 42

	meanStay       = 5.0
	costMean       = 3000.0
	costStdDev     = 1000.0
	costStayFactor = 5.0
)

var minTreatmentCost = decimal.NewFromInt(100)

// Sources holds the two random handles the generator draws from: Rand for
// categorical, integer and distribution sampling, Faker for fake-data fields.
type Sources struct {
	Rand  *rand.Rand
	Faker *gofakeit.Faker
}

// NewSources seeds both handles. gofakeit treats a zero seed as "seed randomly",
// so a zero fakerSeed falls back to DefaultSeed to keep runs reproducible.
func NewSources(generalSeed, fakerSeed uint64) Sources {
	if fakerSeed == 0 {
		fakerSeed = DefaultSeed
	}
	return Sources{
		Rand:  rand.New(rand.NewPCG(generalSeed, generalSeed)),
		Faker: gofakeit.New(fakerSeed),
	}
}

type Generator struct {
	src  Sources
	stay distuv.Poisson
	cost distuv.Normal
	now  func() time.Time
}

type Option func(*Generator)

// WithClock pins "today" for the admission window.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(src Sources, opts ...Option) *Generator {
	g := &Generator{
		src:  src,
		stay: distuv.Poisson{Lambda: meanStay, Src: src.Rand},
		cost: distuv.Normal{Mu: costMean, Sigma: costStdDev, Src: src.Rand},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns count records in generation order. The draws consume the
// sources, so a second call on the same Generator continues the sequence.
func (g *Generator) Generate(count int) ([]Record, error) {
	if count <= 0 {
		return nil, apperr.New(apperr.InvalidArgument, "generate", fmt.Sprintf("count must be positive, got %d", count))
	}

	today := dateOf(g.now())
	windowStart := today.AddDate(-1, 0, 0)
	windowEnd := today.AddDate(0, 0, 1).Add(-time.Nanosecond)

	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, g.next(i, windowStart, windowEnd))
	}
	return records, nil
}

func (g *Generator) next(i int, windowStart, windowEnd time.Time) Record {
	r := g.src.Rand

	age := r.IntN(99) + 1
	gender := pick(r, genders)
	department := pick(r, departments)
	diagnosis := pick(r, diagnoses[department])

	admission := dateOf(g.src.Faker.DateRange(windowStart, windowEnd))
	stay := int(g.stay.Rand()) + 1
	discharge := admission.AddDate(0, 0, stay)

	cost := decimal.NewFromFloat(g.cost.Rand() * (float64(stay) / costStayFactor)).Round(2)
	if cost.LessThan(minTreatmentCost) {
		cost = minTreatmentCost
	}

	return Record{
		PatientID:        fmt.Sprintf("P%d", patientIDBase+i),
		Age:              age,
		Gender:           gender,
		Department:       department,
		AdmissionDate:    admission,
		DischargeDate:    discharge,
		Diagnosis:        diagnosis,
		TreatmentCost:    cost,
		InsuranceCovered: pick(r, insurance),
		LengthOfStay:     stay,
		Outcome:          pickOutcome(r),
	}
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}

func pickOutcome(r *rand.Rand) string {
	var total float64
	for _, o := range outcomes {
		total += o.weight
	}
	x := r.Float64() * total
	for _, o := range outcomes {
		if x < o.weight {
			return o.value
		}
		x -= o.weight
	}
	return outcomes[len(outcomes)-1].value
}
