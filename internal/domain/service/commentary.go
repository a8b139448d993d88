package service

import (
	"context"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
)

// Commentator produces free-text commentary for a computed analysis via the
// external text-generation service.
type Commentator interface {
	Commentary(ctx context.Context, req *models.CommentaryRequest) (models.Commentary, error)
}
