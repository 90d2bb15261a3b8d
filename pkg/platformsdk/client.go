package platformsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to one platform deployment. It holds no credentials; use
// Login for a Session that remembers them.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login performs a mock login and returns a Session holding the user token.
func (c *Client) Login(ctx context.Context, email string) (*Session, error) {
	tok, err := c.MockLogin(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Session{client: c, userToken: tok.AccessToken}, nil
}
