package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/logger"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/models"
	"github.com/synaptica-ai/hospital-dataset/pkg/dataset"
	"github.com/synaptica-ai/hospital-dataset/pkg/encounter"
	"github.com/synaptica-ai/hospital-dataset/pkg/observability/metrics"
)

const eventSource = "dataset-publisher"

type Generator interface {
	Generate(count int) ([]encounter.Record, error)
}

type Publisher interface {
	Publish(ctx context.Context, message, branch string) error
}

type Archive interface {
	SaveBatch(ctx context.Context, runID string, records []encounter.Record) error
}

type ManifestSink interface {
	Save(ctx context.Context, manifest models.Manifest) error
}

type EventSink interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type Plan struct {
	Count         int
	OutputPath    string
	CommitMessage string
	Branch        string
	Publish       bool
}

type Summary struct {
	RunID      string
	Count      int
	OutputPath string
	Archived   bool
	Published  bool
	FailedStep string
	Warnings   []string
}

// Runner wires one generation run. Archive, Manifests and Events are optional.
type Runner struct {
	Generator Generator
	Publisher Publisher
	Archive   Archive
	Manifests ManifestSink
	Events    EventSink
	Out       io.Writer
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *Runner) Run(ctx context.Context, plan Plan) (Summary, error) {
	summary := Summary{RunID: uuid.New().String(), OutputPath: plan.OutputPath}
	log := logger.WithField("run_id", summary.RunID)
	startedAt := time.Now().UTC()

	records, err := r.Generator.Generate(plan.Count)
	if err != nil {
		metrics.ObserveRun(false, time.Now())
		return summary, fmt.Errorf("failed to generate dataset: %w", err)
	}
	summary.Count = len(records)
	metrics.ObserveGenerated(len(records))
	log.WithField("count", len(records)).Info("dataset generated")

	if err := dataset.Write(records, plan.OutputPath); err != nil {
		metrics.ObserveRun(false, time.Now())
		return summary, fmt.Errorf("failed to save dataset: %w", err)
	}
	fmt.Fprintf(r.out(), "✅ Dataset saved as '%s'\n", plan.OutputPath)

	if r.Archive != nil {
		if err := r.Archive.SaveBatch(ctx, summary.RunID, records); err != nil {
			summary.warn(log, "failed to archive records", err)
		} else {
			summary.Archived = true
		}
	}

	var publishErr error
	if plan.Publish && r.Publisher != nil {
		publishErr = r.Publisher.Publish(ctx, plan.CommitMessage, plan.Branch)
		if publishErr != nil {
			summary.FailedStep = apperr.OpOf(publishErr)
			metrics.ObservePublishFailure()
		} else {
			summary.Published = true
		}
	}

	manifest := models.Manifest{
		RunID:         summary.RunID,
		RecordCount:   summary.Count,
		OutputPath:    plan.OutputPath,
		CommitMessage: plan.CommitMessage,
		Branch:        plan.Branch,
		Published:     summary.Published,
		FailedStep:    summary.FailedStep,
		Archived:      summary.Archived,
		GeneratedAt:   startedAt,
		FinishedAt:    time.Now().UTC(),
	}
	if publishErr != nil {
		manifest.Error = publishErr.Error()
	}

	if r.Manifests != nil {
		if err := r.Manifests.Save(ctx, manifest); err != nil {
			summary.warn(log, "failed to store run manifest", err)
		}
	}

	if r.Events != nil && plan.Publish {
		eventType := models.EventDatasetPublished
		if publishErr != nil {
			eventType = models.EventDatasetPublishFailed
		}
		if err := r.Events.PublishEvent(ctx, eventType, eventSource, manifest.EventData()); err != nil {
			summary.warn(log, "failed to emit dataset event", err)
		}
	}

	metrics.ObserveRun(publishErr == nil, time.Now())
	if publishErr != nil {
		return summary, fmt.Errorf("failed to publish dataset: %w", publishErr)
	}
	return summary, nil
}

func (s *Summary) warn(log *logrus.Entry, msg string, err error) {
	log.WithError(err).Warn(msg)
	s.Warnings = append(s.Warnings, fmt.Sprintf("%s: %v", msg, err))
}
