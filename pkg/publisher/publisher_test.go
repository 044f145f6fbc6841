package publisher

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
)

type fakeVCS struct {
	calls     []string
	failOn    string
	message   string
	branch    string
	stepError error
}

func (f *fakeVCS) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return f.stepError
	}
	return nil
}

func (f *fakeVCS) Stage(ctx context.Context) error {
	return f.step(StepStage)
}

func (f *fakeVCS) Commit(ctx context.Context, message string) error {
	f.message = message
	return f.step(StepCommit)
}

func (f *fakeVCS) Push(ctx context.Context, branch string) error {
	f.branch = branch
	return f.step(StepPush)
}

func TestPublishRunsAllStepsInOrder(t *testing.T) {
	vcs := &fakeVCS{}
	var out bytes.Buffer

	err := New(vcs, WithOutput(&out)).Publish(context.Background(), "Add generated hospital dataset", "")
	require.NoError(t, err)

	assert.Equal(t, []string{StepStage, StepCommit, StepPush}, vcs.calls)
	assert.Equal(t, "Add generated hospital dataset", vcs.message)
	assert.Equal(t, DefaultBranch, vcs.branch)
	assert.Equal(t,
		"Staged all changes.\n"+
			"Committed changes with message: Add generated hospital dataset\n"+
			"Pushed changes to remote branch 'main'.\n",
		out.String())
}

func TestPublishPushFailureKeepsEarlierSteps(t *testing.T) {
	vcs := &fakeVCS{failOn: StepPush, stepError: errors.New("remote rejected")}
	var out bytes.Buffer

	err := New(vcs, WithOutput(&out)).Publish(context.Background(), "msg", "release")
	require.Error(t, err)

	assert.True(t, apperr.IsKind(err, apperr.ExternalCommandFailure))
	assert.Equal(t, StepPush, apperr.OpOf(err))
	assert.Contains(t, err.Error(), "remote rejected")
	assert.Equal(t, []string{StepStage, StepCommit, StepPush}, vcs.calls)
	assert.Equal(t, "release", vcs.branch)
	assert.NotContains(t, out.String(), "Pushed")
}

func TestPublishStopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		failOn string
		calls  []string
	}{
		{StepStage, []string{StepStage}},
		{StepCommit, []string{StepStage, StepCommit}},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			vcs := &fakeVCS{failOn: tt.failOn, stepError: errors.New("exit status 1")}

			err := New(vcs, WithOutput(&bytes.Buffer{})).Publish(context.Background(), "msg", "main")
			require.Error(t, err)
			assert.Equal(t, tt.failOn, apperr.OpOf(err))
			assert.Equal(t, tt.calls, vcs.calls)
		})
	}
}
