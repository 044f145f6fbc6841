package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/logger"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/models"
)

const (
	manifestKeyPrefix = "dataset:runs:"
	latestManifestKey = "dataset:runs:latest"
)

// ManifestStore keeps run manifests in Redis so operators can see what the
// last runs produced and where publishing stopped.
type ManifestStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewManifestStore(client redis.Cmdable, ttl time.Duration) *ManifestStore {
	return &ManifestStore{client: client, ttl: ttl}
}

func manifestKey(runID string) string {
	return manifestKeyPrefix + runID
}

func (s *ManifestStore) Save(ctx context.Context, manifest models.Manifest) error {
	data, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	key := manifestKey(manifest.RunID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, s.ttl)
	pipe.Set(ctx, latestManifestKey, manifest.RunID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store manifest %s: %w", manifest.RunID, err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"key":  key,
		"size": len(data),
	}).Debug("Manifest stored")
	return nil
}

func (s *ManifestStore) Get(ctx context.Context, runID string) (models.Manifest, error) {
	var manifest models.Manifest
	data, err := s.client.Get(ctx, manifestKey(runID)).Bytes()
	if err != nil {
		return manifest, fmt.Errorf("failed to load manifest %s: %w", runID, err)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("failed to decode manifest %s: %w", runID, err)
	}
	return manifest, nil
}

func (s *ManifestStore) Latest(ctx context.Context) (models.Manifest, error) {
	runID, err := s.client.Get(ctx, latestManifestKey).Result()
	if err != nil {
		return models.Manifest{}, fmt.Errorf("failed to load latest run id: %w", err)
	}
	return s.Get(ctx, runID)
}
