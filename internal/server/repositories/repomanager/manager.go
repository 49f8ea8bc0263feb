// Package repomanager provides a factory for repositories bound to a
// specific DB handle, so services can use the same repository code with
// *sql.DB or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dunkey/dunkey-server/internal/dbx"
	"github.com/dunkey/dunkey-server/internal/server/repositories/entries"
	"github.com/dunkey/dunkey-server/internal/server/repositories/refreshtokens"
	"github.com/dunkey/dunkey-server/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Entries(db dbx.DBTX) entries.Repository
}
