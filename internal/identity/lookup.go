package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// RoleLookup fetches a user's role from the identity provider
type RoleLookup interface {
	LookupRole(ctx context.Context, userID string) (string, error)
}

// LookupClient reads the role kept in a user's public metadata through the
// identity provider's user API, authenticated with a bearer secret key
type LookupClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

type userResponse struct {
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
}

// NewLookupClient creates a client for the user API at baseURL
func NewLookupClient(baseURL, secretKey string, timeout time.Duration) *LookupClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: secretKey, TokenType: "Bearer"})
	return &LookupClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  oauth2.NewClient(context.Background(), src),
		timeout: timeout,
	}
}

// LookupRole returns public_metadata.role for userID, or "" when unset
func (c *LookupClient) LookupRole(ctx context.Context, userID string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/v1/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch user: unexpected status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("decode user: %w", err)
	}
	return user.PublicMetadata.Role, nil
}
