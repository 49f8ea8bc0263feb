package services

import (
	"context"

	"github.com/dunkey/dunkey-server/internal/logging"
)

// Audit records security-relevant events as structured log entries.
// It is fire-and-forget: nothing here can fail a vault operation.
// Events carry identifiers and website names, never passwords, hashes or
// key material.
type Audit struct {
	log logging.Logger
}

func NewAudit(l logging.Logger) *Audit {
	return &Audit{log: l.With("channel", "audit")}
}

func (a *Audit) UserRegistered(ctx context.Context, username, email string) {
	a.log.Info(ctx, "user registered", "username", username, "email", email)
}

func (a *Audit) LoginSucceeded(ctx context.Context, username string) {
	a.log.Info(ctx, "login succeeded", "username", username)
}

func (a *Audit) LoginFailed(ctx context.Context, username string) {
	a.log.Warn(ctx, "login failed", "username", username)
}

func (a *Audit) PasswordChanged(ctx context.Context, userID string) {
	a.log.Info(ctx, "login password changed", "user_id", userID)
}

func (a *Audit) MasterPasswordSet(ctx context.Context, userID string) {
	a.log.Info(ctx, "master password set", "user_id", userID)
}

func (a *Audit) AccountDeleted(ctx context.Context, userID string) {
	a.log.Info(ctx, "account deleted", "user_id", userID)
}

func (a *Audit) EntryCreated(ctx context.Context, ownerID, website string) {
	a.log.Info(ctx, "vault entry created", "owner_id", ownerID, "website", website)
}

func (a *Audit) EntryEdited(ctx context.Context, ownerID, entryID string) {
	a.log.Info(ctx, "vault entry edited", "owner_id", ownerID, "entry_id", entryID)
}

func (a *Audit) EntryDeleted(ctx context.Context, ownerID, entryID string) {
	a.log.Info(ctx, "vault entry deleted", "owner_id", ownerID, "entry_id", entryID)
}
