package users

import (
	"context"

	"github.com/feepo/feepo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// List returns public profile fields only; Hash and Salt stay nil.
	List(ctx context.Context) ([]*models.User, error)
	SetProfilePic(ctx context.Context, userID, profilePicURL string) (*models.User, error)
}
