// Package repomanager hands out repository implementations bound to a
// database handle or transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/feepo/feepo/internal/dbx"
	"github.com/feepo/feepo/internal/server/repositories/images"
	"github.com/feepo/feepo/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Images(db dbx.DBTX) images.Repository
}
