package images

import (
	"context"
	"fmt"

	"github.com/feepo/feepo/internal/dbx"
	"github.com/feepo/feepo/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, userID string, images []models.Image) error {
	query :=
		`INSERT INTO user_images (user_id, image_url)
		 VALUES ($1, $2)
		 `

	for _, img := range images {
		if _, err := r.db.ExecContext(ctx, query, userID, img.ImageURL); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) ([]models.Image, error) {
	query :=
		`SELECT image_url FROM user_images
		 WHERE user_id = $1
		 ORDER BY id
		 `

	return r.queryImages(ctx, query, userID)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) ([]models.Image, error) {
	query :=
		`SELECT i.image_url FROM user_images i
		 JOIN users u ON u.id = i.user_id
		 WHERE u.username = $1
		 ORDER BY i.id
		 `

	return r.queryImages(ctx, query, username)
}

func (r *PostgresRepository) queryImages(ctx context.Context, query string, arg string) ([]models.Image, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Image{}
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ImageURL); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
