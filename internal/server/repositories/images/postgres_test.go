package images

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/feepo/feepo/internal/server/models"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestAppend_InsertsEachImage(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_images")).
		WithArgs("uid-1", "http://example.com/a.jpg").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_images")).
		WithArgs("uid-1", "http://example.com/b.jpg").
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.Append(context.Background(), "uid-1", []models.Image{
		{ImageURL: "http://example.com/a.jpg"},
		{ImageURL: "http://example.com/b.jpg"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_StopsOnError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_images")).
		WillReturnError(errors.New("boom"))

	err := repo.Append(context.Background(), "uid-1", []models.Image{
		{ImageURL: "http://example.com/a.jpg"},
		{ImageURL: "http://example.com/b.jpg"},
	})
	require.Error(t, err)
}

func TestGetByUsername_Empty(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_images")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"image_url"}))

	got, err := repo.GetByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, got, "empty result must be an empty slice, not nil")
	require.Len(t, got, 0)
}

func TestGetByUserID_ReturnsInInsertionOrder(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"image_url"}).
		AddRow("http://example.com/1.jpg").
		AddRow("http://example.com/2.jpg")
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_images")).
		WithArgs("uid-1").
		WillReturnRows(rows)

	got, err := repo.GetByUserID(context.Background(), "uid-1")
	require.NoError(t, err)
	require.Equal(t, []models.Image{
		{ImageURL: "http://example.com/1.jpg"},
		{ImageURL: "http://example.com/2.jpg"},
	}, got)
}
