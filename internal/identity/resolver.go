package identity

import (
	"context"
	"errors"

	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

// ProfileSource fetches provider-side profiles. Satisfied by
// *ProviderClient; tests substitute a stub.
type ProfileSource interface {
	UserInfo(ctx context.Context, subject string) (Profile, error)
}

// Resolver turns a raw bearer token into a local user, provisioning
// the user on first sight.
type Resolver struct {
	verifier *Verifier
	provider ProfileSource
	users    *repository.UserRepo
}

// NewResolver wires a Resolver from its parts.
func NewResolver(v *Verifier, p ProfileSource, users *repository.UserRepo) *Resolver {
	return &Resolver{verifier: v, provider: p, users: users}
}

// Resolve verifies the token and returns the matching local user. An
// unknown subject triggers a provider profile lookup and a local
// insert; the unique provider_id index makes concurrent first
// requests converge on one row. Verification failures return
// ErrUnauthorized; provisioning failures return ordinary errors that
// surface as HTTP 500.
func (r *Resolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	subject, err := r.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := r.users.GetByProviderID(ctx, subject)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	prof, err := r.provider.UserInfo(ctx, subject)
	if err != nil {
		return nil, err
	}
	role := model.RoleCustomer
	if prof.Admin {
		role = model.RoleAdmin
	}
	created, err := r.users.Create(ctx, model.User{
		ProviderID: subject,
		Email:      prof.Email,
		Name:       prof.Name,
		Phone:      prof.Phone,
		Role:       role,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
