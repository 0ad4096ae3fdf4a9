package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feepo/feepo/internal/common"
	"github.com/feepo/feepo/internal/dbx"
	"github.com/feepo/feepo/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Unique constraint names from the users migration. Violations at insert
// time are the authoritative uniqueness guard; pre-checks are advisory.
const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()

	query :=
		`INSERT INTO users (id, username, email, profile_pic_url, hash, salt)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.ProfilePicURL, user.Hash, user.Salt).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case usernameConstraint:
				return nil, common.ErrUsernameTaken
			case emailConstraint:
				return nil, common.ErrEmailTaken
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username", username)
}

func (r *PostgresRepository) getOne(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(
		`SELECT id, username, email, profile_pic_url, hash, salt, created_at FROM users
		 WHERE %s = $1
		 `, column)

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.ProfilePicURL, &user.Hash, &user.Salt, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, username, email, profile_pic_url, created_at FROM users
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.ProfilePicURL, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetProfilePic(ctx context.Context, userID, profilePicURL string) (*models.User, error) {
	query :=
		`UPDATE users SET profile_pic_url = $2
		 WHERE id = $1
		 RETURNING id, username, email, profile_pic_url, created_at
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userID, profilePicURL).Scan(
		&user.ID, &user.Username, &user.Email, &user.ProfilePicURL, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
