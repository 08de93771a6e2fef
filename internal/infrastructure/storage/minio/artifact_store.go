package minio

import (
	"context"
	"fmt"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// ArtifactStore persists rendered structure images under a per-request
// prefix.  It satisfies the orchestrator's ArtifactStore contract.
type ArtifactStore struct {
	client  *Client
	metrics *appmetrics.AppMetrics
}

// NewArtifactStore wraps a connected Client.
func NewArtifactStore(client *Client, metrics *appmetrics.AppMetrics) *ArtifactStore {
	return &ArtifactStore{client: client, metrics: metrics}
}

// artifactKey builds the object key for a request's image of the given kind.
func artifactKey(requestID, kind string) string {
	return fmt.Sprintf("analysis/%s/%s.png", requestID, kind)
}

// StoreImage archives one image and returns its object key.
func (s *ArtifactStore) StoreImage(ctx context.Context, requestID, kind string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.New(apperrors.ErrCodeValidation, "artifact is empty")
	}

	key := artifactKey(requestID, kind)
	err := s.client.putObject(ctx, key, data, "image/png")
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failure"
		}
		s.metrics.ArtifactsArchived.WithLabelValues(kind, status).Inc()
	}
	if err != nil {
		return "", err
	}

	s.client.logger.Debug("artifact archived",
		logging.String("key", key),
		logging.Int("bytes", len(data)))
	return key, nil
}
