package users

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/feepo/feepo/internal/common"
	"github.com/feepo/feepo/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "test0", "test0@test.com", nil, []byte{1}, []byte{2}).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	user, err := repo.Create(context.Background(), &models.User{
		Username: "test0",
		Email:    "test0@test.com",
		Hash:     []byte{1},
		Salt:     []byte{2},
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID, "repository must assign an id")
	require.Equal(t, now, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username taken", usernameConstraint, common.ErrUsernameTaken},
		{"email taken", emailConstraint, common.ErrEmailTaken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMock(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			_, err := repo.Create(context.Background(), &models.User{Username: "x", Email: "x@x.com"})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, profile_pic_url, hash, salt, created_at FROM users")).
		WithArgs("missing@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "profile_pic_url", "hash", "salt", "created_at"}))

	_, err := repo.GetByEmail(context.Background(), "missing@test.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByUsername_NullProfilePic(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "profile_pic_url", "hash", "salt", "created_at"}).
		AddRow("id-1", "test0", "test0@test.com", nil, []byte{1}, []byte{2}, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("test0").
		WillReturnRows(rows)

	user, err := repo.GetByUsername(context.Background(), "test0")
	require.NoError(t, err)
	require.Nil(t, user.ProfilePicURL)
	require.Equal(t, "test0", user.Username)
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), "id-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestList_PublicFieldsOnly(t *testing.T) {
	repo, mock := newMock(t)

	pic := "http://example.com/p.jpg"
	rows := sqlmock.NewRows([]string{"id", "username", "email", "profile_pic_url", "created_at"}).
		AddRow("id-1", "alice", "alice@test.com", pic, time.Now()).
		AddRow("id-2", "bob", "bob@test.com", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, profile_pic_url, created_at FROM users")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Nil(t, list[0].Hash, "listing must not load credentials")
	require.Nil(t, list[0].Salt)
	require.Equal(t, pic, *list[0].ProfilePicURL)
	require.Nil(t, list[1].ProfilePicURL)
}

func TestSetProfilePic_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET profile_pic_url")).
		WithArgs("id-404", "http://example.com/p.jpg").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "profile_pic_url", "created_at"}))

	_, err := repo.SetProfilePic(context.Background(), "id-404", "http://example.com/p.jpg")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
