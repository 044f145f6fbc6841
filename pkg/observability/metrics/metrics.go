package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

var (
	recordsGenerated    atomic.Int64
	publishStepFailures atomic.Int64
	lastRunSuccess      atomic.Int64
	lastRunTimestamp    atomic.Int64
)

func ObserveGenerated(count int) {
	recordsGenerated.Store(int64(count))
}

func ObservePublishFailure() {
	publishStepFailures.Add(1)
}

func ObserveRun(success bool, at time.Time) {
	if success {
		lastRunSuccess.Store(1)
	} else {
		lastRunSuccess.Store(0)
	}
	lastRunTimestamp.Store(at.Unix())
}

func WritePrometheus(w io.Writer) {
	fmt.Fprintf(w, "# HELP synaptica_dataset_records_generated Number of encounter records generated by the latest run.\n")
	fmt.Fprintf(w, "# TYPE synaptica_dataset_records_generated gauge\n")
	fmt.Fprintf(w, "synaptica_dataset_records_generated %d\n", recordsGenerated.Load())

	fmt.Fprintf(w, "# HELP synaptica_dataset_publish_step_failures_total Number of failed stage/commit/push steps.\n")
	fmt.Fprintf(w, "# TYPE synaptica_dataset_publish_step_failures_total counter\n")
	fmt.Fprintf(w, "synaptica_dataset_publish_step_failures_total %d\n", publishStepFailures.Load())

	fmt.Fprintf(w, "# HELP synaptica_dataset_last_run_success Whether the latest run finished without error.\n")
	fmt.Fprintf(w, "# TYPE synaptica_dataset_last_run_success gauge\n")
	fmt.Fprintf(w, "synaptica_dataset_last_run_success %d\n", lastRunSuccess.Load())

	fmt.Fprintf(w, "# HELP synaptica_dataset_last_run_timestamp_seconds Unix time the latest run finished.\n")
	fmt.Fprintf(w, "# TYPE synaptica_dataset_last_run_timestamp_seconds gauge\n")
	fmt.Fprintf(w, "synaptica_dataset_last_run_timestamp_seconds %d\n", lastRunTimestamp.Load())
}

// WriteTextfile renders the metrics for the node_exporter textfile collector,
// replacing path atomically.
func WriteTextfile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".metrics.*.prom")
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	WritePrometheus(tmp)
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close metrics file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set metrics file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move metrics file into %s: %w", path, err)
	}
	return nil
}
