package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// ReviewRepo provides access to the reviews table. The unique
// (user_id, coffee_id) index enforces the one-review-per-coffee rule.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewColumns = "id, user_id, coffee_id, rating, comment, created_at, updated_at"

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var rv model.Review
	var comment sql.NullString
	err := row.Scan(&rv.ID, &rv.UserID, &rv.CoffeeID, &rv.Rating, &comment, &rv.CreatedAt, &rv.UpdatedAt)
	rv.Comment = comment.String
	return rv, err
}

// Create inserts a review. A second review for the same (user, coffee)
// pair yields ErrConflict; a vanished coffee yields
// ErrInvalidReference.
func (r *ReviewRepo) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (id, user_id, coffee_id, rating, comment) VALUES (?,?,?,?,?)",
		rv.ID, rv.UserID, rv.CoffeeID, rv.Rating, rv.Comment)
	if err != nil {
		if isDuplicate(err) {
			return model.Review{}, ErrConflict
		}
		if isForeignKeyViolation(err) {
			return model.Review{}, ErrInvalidReference
		}
		return model.Review{}, err
	}
	return r.GetByID(ctx, rv.ID)
}

// GetByID fetches one review, ErrNotFound when absent.
func (r *ReviewRepo) GetByID(ctx context.Context, id string) (model.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Review{}, ErrNotFound
	}
	return rv, err
}

// ListByUser returns the user's reviews, newest first, with each
// review's coffee attached.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Review, error) {
	const q = `SELECT rv.id, rv.user_id, rv.coffee_id, rv.rating, rv.comment, rv.created_at, rv.updated_at,
	                  co.id, co.name, co.description, co.price, co.category_id, co.available, co.image_url, co.created_at, co.updated_at
	           FROM reviews rv
	           JOIN coffees co ON co.id = rv.coffee_id
	           WHERE rv.user_id = ?
	           ORDER BY rv.created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		var co model.Coffee
		var comment, imageURL sql.NullString
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.CoffeeID, &rv.Rating, &comment, &rv.CreatedAt, &rv.UpdatedAt,
			&co.ID, &co.Name, &co.Description, &co.Price, &co.CategoryID, &co.Available, &imageURL, &co.CreatedAt, &co.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rv.Comment = comment.String
		co.ImageURL = imageURL.String
		rv.Coffee = &co
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListByCoffee returns a coffee's reviews, newest first, with each
// reviewer attached.
func (r *ReviewRepo) ListByCoffee(ctx context.Context, coffeeID string, limit, offset int) ([]model.Review, error) {
	const q = `SELECT rv.id, rv.user_id, rv.coffee_id, rv.rating, rv.comment, rv.created_at, rv.updated_at,
	                  u.id, u.provider_id, u.email, u.name, u.phone, u.role, u.created_at, u.updated_at
	           FROM reviews rv
	           JOIN users u ON u.id = rv.user_id
	           WHERE rv.coffee_id = ?
	           ORDER BY rv.created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, coffeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		var u model.User
		var comment sql.NullString
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.CoffeeID, &rv.Rating, &comment, &rv.CreatedAt, &rv.UpdatedAt,
			&u.ID, &u.ProviderID, &u.Email, &u.Name, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rv.Comment = comment.String
		rv.User = &u
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Update replaces rating and comment and returns the fresh row.
func (r *ReviewRepo) Update(ctx context.Context, id string, rating int, comment string) (model.Review, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET rating = ?, comment = ? WHERE id = ?", rating, comment, id); err != nil {
		return model.Review{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review, ErrNotFound when absent.
func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
