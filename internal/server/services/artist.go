package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/feepo/feepo/internal/dbx"
	"github.com/feepo/feepo/internal/server/models"
	"github.com/feepo/feepo/internal/server/repositories/repomanager"
)

// ArtistService exposes the artist catalogue: listing registered
// artists, looking one up by username, and managing the images
// attached to an account.
type ArtistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewArtistService(db *sql.DB, m repomanager.RepositoryManager) *ArtistService {
	return &ArtistService{db: db, repomanager: m}
}

// List returns every artist with public profile fields only.
func (s *ArtistService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Get looks up a single artist by username.
func (s *ArtistService) Get(ctx context.Context, username string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// Images returns the images uploaded by the named artist, oldest first.
func (s *ArtistService) Images(ctx context.Context, username string) ([]models.Image, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return s.repomanager.Images(s.db).GetByUsername(ctx, username)
}

// AddImages appends images to the caller's account and returns the full
// image list afterwards. Append and read-back run in one transaction so
// the returned list reflects exactly the state this call produced.
func (s *ArtistService) AddImages(ctx context.Context, userID string, imgs []models.Image) ([]models.Image, error) {
	var result []models.Image
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Images(tx)
		if err := repo.Append(ctx, userID, imgs); err != nil {
			return err
		}
		var err error
		result, err = repo.GetByUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetProfilePic updates the caller's profile picture URL and returns
// the updated record.
func (s *ArtistService) SetProfilePic(ctx context.Context, userID, profilePicURL string) (*models.User, error) {
	return s.repomanager.Users(s.db).SetProfilePic(ctx, userID, profilePicURL)
}
