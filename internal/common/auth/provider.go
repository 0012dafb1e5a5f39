// internal/common/auth/provider.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zzik-backend/internal/common/errors"
	httpclient "zzik-backend/internal/common/http"
)

// ProviderClient verifies bearer tokens against the managed auth provider
// that owns ZZIK's user accounts. The API never issues tokens itself.
type ProviderClient struct {
	baseURL    string
	apiKey     string
	httpClient *httpclient.Client
}

// AuthUser is the identity the provider returns for a verified token.
type AuthUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Nickname      string `json:"nickname"`
	Region        string `json:"region"`
	Tier          string `json:"tier"`
	EmailVerified bool   `json:"emailVerified"`
}

// NewProviderClient creates a new instance of ProviderClient.
func NewProviderClient(baseURL, apiKey string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpclient.NewClient(timeout),
	}
}

// VerifyToken resolves a bearer token to the user it belongs to. Invalid or
// expired tokens map to an UNAUTHORIZED error; transport failures stay
// retryable.
func (c *ProviderClient) VerifyToken(ctx context.Context, token string) (*AuthUser, error) {
	if token == "" {
		return nil, errors.NewUnauthorizedError("missing bearer token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.NewUnauthorizedError("token rejected by auth provider")
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("auth provider returned %d: %s", resp.StatusCode, string(body))
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	if user.ID == "" {
		return nil, errors.NewUnauthorizedError("auth provider returned no user")
	}

	return &user, nil
}
