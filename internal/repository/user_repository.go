package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// UserRepo provides access to the users table. Users are provisioned
// lazily by the identity resolver; the unique provider_id index makes
// GetOrCreate idempotent under concurrent first requests.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, provider_id, email, name, phone, role, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.ProviderID, &u.Email, &u.Name, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByProviderID fetches a user by the identity provider's subject
// identifier, ErrNotFound when absent.
func (r *UserRepo) GetByProviderID(ctx context.Context, providerID string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE provider_id = ?", providerID))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by primary key, ErrNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Create inserts a user record. When a concurrent request already
// provisioned the same subject, the existing row is returned instead
// of a duplicate error.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, provider_id, email, name, phone, role) VALUES (?,?,?,?,?,?)",
		u.ID, u.ProviderID, u.Email, u.Name, u.Phone, u.Role)
	if err != nil {
		if isDuplicate(err) {
			return r.GetByProviderID(ctx, u.ProviderID)
		}
		return model.User{}, err
	}
	return r.GetByProviderID(ctx, u.ProviderID)
}
