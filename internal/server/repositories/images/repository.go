package images

import (
	"context"

	"github.com/feepo/feepo/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, userID string, images []models.Image) error
	GetByUserID(ctx context.Context, userID string) ([]models.Image, error)
	GetByUsername(ctx context.Context, username string) ([]models.Image, error)
}
