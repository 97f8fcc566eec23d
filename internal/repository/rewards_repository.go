package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// RewardsRepo provides access to the rewards table, one row per user.
// Rows are created lazily; the unique user_id index keeps concurrent
// first-access creation idempotent. Balance movements run through
// increment/decrement statements (or Tx variants) so two requests
// never overwrite each other's counters.
type RewardsRepo struct {
	db *sql.DB
}

// NewRewardsRepo returns a RewardsRepo bound to the given database.
func NewRewardsRepo(db *sql.DB) *RewardsRepo { return &RewardsRepo{db: db} }

const rewardsColumns = "id, user_id, current_points, total_earned, total_redeemed, created_at, updated_at"

func scanRewards(row interface{ Scan(...any) error }) (model.Rewards, error) {
	var rw model.Rewards
	err := row.Scan(&rw.ID, &rw.UserID, &rw.CurrentPoints, &rw.TotalEarned, &rw.TotalRedeemed,
		&rw.CreatedAt, &rw.UpdatedAt)
	return rw, err
}

// GetOrCreate fetches the user's ledger, creating a zero-counter row
// on first access. A concurrent create is absorbed by re-reading
// after the duplicate error.
func (r *RewardsRepo) GetOrCreate(ctx context.Context, userID string) (model.Rewards, error) {
	rw, err := r.get(ctx, r.db, userID)
	if err == nil {
		return rw, nil
	}
	if err != sql.ErrNoRows {
		return model.Rewards{}, err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO rewards (id, user_id, current_points, total_earned, total_redeemed) VALUES (?,?,0,0,0)",
		uuid.NewString(), userID)
	if err != nil && !isDuplicate(err) {
		return model.Rewards{}, err
	}
	rw, err = r.get(ctx, r.db, userID)
	if err == sql.ErrNoRows {
		return model.Rewards{}, ErrNotFound
	}
	return rw, err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *RewardsRepo) get(ctx context.Context, q queryRower, userID string) (model.Rewards, error) {
	return scanRewards(q.QueryRowContext(ctx,
		"SELECT "+rewardsColumns+" FROM rewards WHERE user_id = ?", userID))
}

// GetForUpdateTx locks the user's ledger row inside a transaction so a
// balance check and the following movement cannot race a concurrent
// redemption. ErrNotFound when the ledger does not exist yet.
func (r *RewardsRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, userID string) (model.Rewards, error) {
	rw, err := scanRewards(tx.QueryRowContext(ctx,
		"SELECT "+rewardsColumns+" FROM rewards WHERE user_id = ? FOR UPDATE", userID))
	if err == sql.ErrNoRows {
		return model.Rewards{}, ErrNotFound
	}
	return rw, err
}

// CreditTx adds earned points, creating the ledger in the same
// statement when it does not exist yet.
func (r *RewardsRepo) CreditTx(ctx context.Context, tx *sql.Tx, userID string, points int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO rewards (id, user_id, current_points, total_earned, total_redeemed)
		 VALUES (?,?,?,?,0)
		 ON DUPLICATE KEY UPDATE
		   current_points = current_points + VALUES(current_points),
		   total_earned = total_earned + VALUES(total_earned)`,
		uuid.NewString(), userID, points, points)
	return err
}

// ReverseTx takes back earned points after a cancellation, shrinking
// both the balance and the lifetime earned counter.
func (r *RewardsRepo) ReverseTx(ctx context.Context, tx *sql.Tx, userID string, points int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE rewards SET current_points = current_points - ?, total_earned = total_earned - ? WHERE user_id = ?",
		points, points, userID)
	return err
}

// RedeemTx spends points: the balance shrinks, lifetime redeemed
// grows. The caller holds the row lock and has checked the balance.
func (r *RewardsRepo) RedeemTx(ctx context.Context, tx *sql.Tx, userID string, points int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE rewards SET current_points = current_points - ?, total_redeemed = total_redeemed + ? WHERE user_id = ?",
		points, points, userID)
	return err
}
