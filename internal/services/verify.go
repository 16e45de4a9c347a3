package services

import (
	"context"
	"strings"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
)

// ArtifactVerifier is the pluggable verification collaborator for
// artifact-based social tasks. Given the linked platform identity, the task's
// rule set, and an optional caller-supplied candidate, it returns the id of a
// qualifying artifact or ErrArtifactNotFound.
//
// Real platform verification (API lookups, hashtag matching against live
// tweets) lives behind this interface and outside the engine.
type ArtifactVerifier interface {
	VerifyTweet(ctx context.Context, platformUserID string, rules domain.TaskMetadata, candidateID string) (string, error)
}

// StaticTweetVerifier accepts the caller-supplied tweet id after shape checks
// only. It stands in for the real platform client in development and tests;
// the dedup key still guarantees the artifact backs at most one reward.
type StaticTweetVerifier struct{}

// VerifyTweet returns the candidate id when present, ErrArtifactNotFound
// otherwise.
func (StaticTweetVerifier) VerifyTweet(_ context.Context, _ string, _ domain.TaskMetadata, candidateID string) (string, error) {
	id := strings.TrimSpace(candidateID)
	if id == "" {
		return "", ErrArtifactNotFound
	}
	return id, nil
}
