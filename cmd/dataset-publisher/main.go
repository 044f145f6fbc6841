package main

import (
	"context"
	"fmt"
	"os"

	"github.com/synaptica-ai/hospital-dataset/pkg/capability"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/config"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/database"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/kafka"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/logger"
	"github.com/synaptica-ai/hospital-dataset/pkg/encounter"
	"github.com/synaptica-ai/hospital-dataset/pkg/observability/metrics"
	"github.com/synaptica-ai/hospital-dataset/pkg/pipeline"
	"github.com/synaptica-ai/hospital-dataset/pkg/publisher"
	"github.com/synaptica-ai/hospital-dataset/pkg/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		logger.Log.WithError(err).Error("failed to load configuration")
		return 1
	}

	if cfg.PublishEnabled {
		if err := preflight(cfg).Err(); err != nil {
			fmt.Println("Error:", err)
			logger.Log.WithError(err).Error("required capability missing")
			return 1
		}
	}

	ctx := context.Background()
	runner := &pipeline.Runner{
		Generator: encounter.NewGenerator(encounter.NewSources(cfg.RandomSeed, cfg.FakerSeed)),
	}

	if cfg.PublishEnabled {
		vcs, err := newVCS(cfg)
		if err != nil {
			fmt.Println("Error:", err)
			logger.Log.WithError(err).Error("failed to set up version control")
			return 1
		}
		runner.Publisher = publisher.New(vcs)
	}

	if cfg.ArchiveEnabled {
		db, err := database.GetPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Warn("archive disabled: postgres unavailable")
		} else {
			defer database.ClosePostgres()
			repo := encounter.NewRepository(db)
			if err := repo.AutoMigrate(); err != nil {
				logger.Log.WithError(err).Warn("archive disabled: failed to migrate encounter table")
			} else {
				runner.Archive = repo
			}
		}
	}

	if cfg.ManifestEnabled {
		client, err := database.GetRedis(cfg)
		if err != nil {
			logger.Log.WithError(err).Warn("run manifests disabled: redis unavailable")
		} else {
			defer database.CloseRedis()
			runner.Manifests = storage.NewManifestStore(client, cfg.ManifestTTL)
		}
	}

	if cfg.EventsEnabled {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		defer producer.Close()
		runner.Events = producer
	}

	summary, err := runner.Run(ctx, pipeline.Plan{
		Count:         cfg.RowCount,
		OutputPath:    cfg.OutputPath,
		CommitMessage: cfg.CommitMessage,
		Branch:        cfg.GitBranch,
		Publish:       cfg.PublishEnabled,
	})

	if cfg.MetricsTextfile != "" {
		if mErr := metrics.WriteTextfile(cfg.MetricsTextfile); mErr != nil {
			logger.Log.WithError(mErr).Warn("failed to write metrics textfile")
		}
	}

	if err != nil {
		if apperr.IsKind(err, apperr.ExternalCommandFailure) {
			fmt.Println("Git error:", err)
		} else {
			fmt.Println("Error:", err)
		}
		logger.Log.WithError(err).WithField("run_id", summary.RunID).Error("run failed")
		return 1
	}

	logger.Log.WithFields(map[string]interface{}{
		"run_id":    summary.RunID,
		"count":     summary.Count,
		"published": summary.Published,
		"warnings":  len(summary.Warnings),
	}).Info("run finished")
	return 0
}

func preflight(cfg *config.Config) capability.Result {
	reqs := []capability.Requirement{capability.Repository(cfg.GitWorkDir)}
	if cfg.VCSBackend == config.BackendCLI {
		reqs = append(reqs, capability.Binary(cfg.GitBinary, "Install git (https://git-scm.com/downloads) or set VCS_BACKEND=gogit."))
	}
	return capability.Check(reqs...)
}

func newVCS(cfg *config.Config) (publisher.VCS, error) {
	if cfg.VCSBackend == config.BackendGoGit {
		return publisher.NewGoGit(publisher.GoGitOptions{
			Dir:         cfg.GitWorkDir,
			Remote:      cfg.GitRemote,
			Username:    cfg.GitUsername,
			Token:       cfg.GitToken,
			AuthorName:  cfg.GitAuthorName,
			AuthorEmail: cfg.GitAuthorEmail,
		})
	}
	return publisher.NewGitCLI(publisher.GitCLIOptions{
		Binary: cfg.GitBinary,
		Dir:    cfg.GitWorkDir,
		Remote: cfg.GitRemote,
	}), nil
}
