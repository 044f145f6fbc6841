package capability

import (
	"fmt"
	"os/exec"
	"strings"

	goGit "github.com/go-git/go-git/v5"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
)

// Requirement is one external capability the run depends on.
type Requirement struct {
	Name     string
	Guidance string
	Probe    func() error
}

type Missing struct {
	Name     string
	Guidance string
	Err      error
}

type Result struct {
	Checked []string
	Missing []Missing
}

func (r Result) OK() bool {
	return len(r.Missing) == 0
}

// Err reports every missing capability as a single MissingDependency error, or nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, 0, len(r.Missing))
	for _, m := range r.Missing {
		lines = append(lines, fmt.Sprintf("%s not available (%v). %s", m.Name, m.Err, m.Guidance))
	}
	return apperr.New(apperr.MissingDependency, "preflight", strings.Join(lines, "; "))
}

// Check probes every requirement; it does not stop at the first failure.
func Check(reqs ...Requirement) Result {
	var res Result
	for _, req := range reqs {
		res.Checked = append(res.Checked, req.Name)
		if err := req.Probe(); err != nil {
			res.Missing = append(res.Missing, Missing{Name: req.Name, Guidance: req.Guidance, Err: err})
		}
	}
	return res
}

func Binary(name, guidance string) Requirement {
	return Requirement{
		Name:     name,
		Guidance: guidance,
		Probe: func() error {
			_, err := exec.LookPath(name)
			return err
		},
	}
}

// Repository requires dir to sit inside a git working tree.
func Repository(dir string) Requirement {
	return Requirement{
		Name:     "git repository",
		Guidance: fmt.Sprintf("Run the publisher from inside a git working tree or set GIT_WORKDIR (currently %q).", dir),
		Probe: func() error {
			_, err := goGit.PlainOpenWithOptions(dir, &goGit.PlainOpenOptions{DetectDotGit: true})
			return err
		},
	}
}
