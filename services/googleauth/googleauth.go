package googleauth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Profile holds the identity extracted from a verified Google ID token.
type Profile struct {
	GoogleID string
	Email    string
	Name     string
}

// Verifier validates a federated identity token and resolves it to a profile.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Profile, error)
}

// Service verifies Google ID tokens against the configured OAuth client id.
type Service struct {
	clientID string
}

func New(clientID string) *Service {
	return &Service{clientID: clientID}
}

// Verify checks the token's signature and audience and extracts the Google
// subject id, email and display name.
func (s *Service) Verify(ctx context.Context, token string) (*Profile, error) {
	payload, err := idtoken.Validate(ctx, token, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("google token verification failed: %w", err)
	}

	profile := &Profile{GoogleID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		profile.Name = name
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("google token missing email claim")
	}
	return profile, nil
}
