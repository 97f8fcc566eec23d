package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// CategoryRepo provides access to the categories table.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo returns a CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryColumns = "id, name, description, sort_order, active, created_at, updated_at"

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListActive returns active categories ordered for display.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE active = 1 ORDER BY sort_order ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches one category, ErrNotFound when absent.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (model.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Category{}, ErrNotFound
	}
	return c, err
}

// Create inserts a category with its caller-supplied ID. A duplicate
// ID yields ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, description, sort_order, active) VALUES (?,?,?,?,?)",
		c.ID, c.Name, c.Description, c.SortOrder, c.Active)
	if err != nil {
		if isDuplicate(err) {
			return model.Category{}, ErrConflict
		}
		return model.Category{}, err
	}
	return r.GetByID(ctx, c.ID)
}

// CategoryPatch carries optional field updates; nil means unchanged.
type CategoryPatch struct {
	Name        *string
	Description *string
	SortOrder   *int
	Active      *bool
}

// Update applies a partial update and returns the fresh row.
func (r *CategoryRepo) Update(ctx context.Context, id string, p CategoryPatch) (model.Category, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Category{}, err
	}
	query := "UPDATE categories SET "
	args := make([]any, 0, 5)
	sep := ""
	appendSet := func(col string, v any) {
		query += sep + col + " = ?"
		args = append(args, v)
		sep = ", "
	}
	if p.Name != nil {
		appendSet("name", *p.Name)
	}
	if p.Description != nil {
		appendSet("description", *p.Description)
	}
	if p.SortOrder != nil {
		appendSet("sort_order", *p.SortOrder)
	}
	if p.Active != nil {
		appendSet("active", *p.Active)
	}
	if len(args) == 0 {
		return r.GetByID(ctx, id)
	}
	query += " WHERE id = ?"
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return model.Category{}, err
	}
	return r.GetByID(ctx, id)
}

// CountCoffees returns how many coffees still reference the category.
func (r *CategoryRepo) CountCoffees(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM coffees WHERE category_id = ?", id).Scan(&n)
	return n, err
}

// Delete removes a category. It fails with ErrConflict while any
// coffee still references it, and with ErrNotFound when absent.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := r.CountCoffees(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if isForeignKeyViolation(err) {
		// a coffee was inserted between the count and the delete
		return ErrConflict
	}
	return err
}
