package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Profile is the provider-side user record, reduced to the fields the
// local user table stores.
type Profile struct {
	Email string
	Phone string
	Name  string
	Admin bool
}

// ProviderClient fetches user profiles from the identity provider's
// management API, authenticated with the tenant API key.
type ProviderClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewProviderClient builds a client for the provider API at baseURL.
func NewProviderClient(baseURL, apiKey string) *ProviderClient {
	return &ProviderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// providerUser mirrors the provider's user payload. Email addresses
// and phone numbers come as lists; the first entry is the primary one.
type providerUser struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PhoneNumbers []struct {
		PhoneNumber string `json:"phone_number"`
	} `json:"phone_numbers"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
}

// UserInfo fetches the profile for a provider subject. Any failure is
// a server-side error (the token already verified); the caller maps it
// to HTTP 500.
func (p *ProviderClient) UserInfo(ctx context.Context, subject string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/users/"+subject, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var pu providerUser
	if err := json.NewDecoder(resp.Body).Decode(&pu); err != nil {
		return Profile{}, fmt.Errorf("decode identity provider response: %w", err)
	}

	var prof Profile
	if len(pu.EmailAddresses) > 0 {
		prof.Email = pu.EmailAddresses[0].EmailAddress
	}
	if len(pu.PhoneNumbers) > 0 {
		prof.Phone = pu.PhoneNumbers[0].PhoneNumber
	}
	prof.Name = strings.TrimSpace(pu.FirstName + " " + pu.LastName)
	prof.Admin = pu.PublicMetadata.Role == "admin"
	return prof, nil
}
