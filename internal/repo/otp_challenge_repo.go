package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/shareview/shareview/internal/model"
	"github.com/shareview/shareview/internal/pkg/dbutil"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
)

var otpChallengeColumns = []string{
	"id", "link_token", "email", "code_hash", "state", "attempts_remaining", "ctime", "expires_at",
}

type OTPChallengeRepo struct {
	db *sql.DB
}

func NewOTPChallengeRepo(db *sql.DB) *OTPChallengeRepo {
	return &OTPChallengeRepo{db: db}
}

// Replace installs a fresh challenge for the (link, email) pair,
// superseding any prior one. Delete and insert run in one transaction
// so a concurrent verify sees either the old challenge or the new one,
// never a mix.
func (r *OTPChallengeRepo) Replace(ctx context.Context, challenge *model.OTPChallenge) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	delSQL, delArgs, err := builder.BuildDelete("otp_challenges", map[string]interface{}{
		"link_token": challenge.LinkToken,
		"email":      challenge.Email,
	})
	if err != nil {
		return err
	}
	delSQL, delArgs = dbutil.Finalize(delSQL, delArgs)
	if _, err := tx.ExecContext(ctx, delSQL, delArgs...); err != nil {
		return err
	}

	data := map[string]interface{}{
		"id":                 challenge.ID,
		"link_token":         challenge.LinkToken,
		"email":              challenge.Email,
		"code_hash":          challenge.CodeHash,
		"state":              challenge.State,
		"attempts_remaining": challenge.AttemptsRemaining,
		"ctime":              challenge.Ctime,
		"expires_at":         challenge.ExpiresAt,
	}
	insSQL, insArgs, err := builder.BuildInsert("otp_challenges", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	insSQL, insArgs = dbutil.Finalize(insSQL, insArgs)
	if _, err := tx.ExecContext(ctx, insSQL, insArgs...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return tx.Commit()
}

func (r *OTPChallengeRepo) GetPending(ctx context.Context, linkToken, email string) (*model.OTPChallenge, error) {
	where := map[string]interface{}{
		"link_token": linkToken,
		"email":      email,
		"state":      model.ChallengeStatePending,
	}
	sqlStr, args, err := builder.BuildSelect("otp_challenges", where, otpChallengeColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var challenge model.OTPChallenge
	if err := rows.Scan(
		&challenge.ID, &challenge.LinkToken, &challenge.Email, &challenge.CodeHash,
		&challenge.State, &challenge.AttemptsRemaining, &challenge.Ctime, &challenge.ExpiresAt,
	); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// Consume marks a pending challenge spent. The state predicate makes it
// a compare-and-swap: of two racing verifiers only one gets the row.
func (r *OTPChallengeRepo) Consume(ctx context.Context, id string) error {
	where := map[string]interface{}{"id": id, "state": model.ChallengeStatePending}
	update := map[string]interface{}{"state": model.ChallengeStateConsumed}
	sqlStr, args, err := builder.BuildUpdate("otp_challenges", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// DecrementAttempts burns one attempt off a pending challenge. The
// guard keeps the counter from going below zero under concurrent
// failed verifications.
func (r *OTPChallengeRepo) DecrementAttempts(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE otp_challenges SET attempts_remaining = attempts_remaining - 1 WHERE id = $1 AND state = $2 AND attempts_remaining > 0",
		id, model.ChallengeStatePending)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// DeleteExpired removes challenges that can never succeed again:
// past their TTL or already consumed.
func (r *OTPChallengeRepo) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM otp_challenges WHERE expires_at <= $1 OR state = $2",
		now, model.ChallengeStateConsumed)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
