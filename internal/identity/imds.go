package identity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const (
	// redisResource is the audience Azure Cache for Redis expects in
	// access tokens.
	redisResource = "https://redis.azure.com/"

	// imdsAPIVersion pins the IMDS response shape, including the
	// string-typed expires_on field.
	imdsAPIVersion = "2018-02-01"
)

// imdsTokenResponse is the token document returned by the Azure Instance
// Metadata Service.
type imdsTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresOn   string `json:"expires_on"` // unix seconds
	Resource    string `json:"resource"`
	TokenType   string `json:"token_type"`
}

// IMDSClient requests managed identity tokens from the Azure Instance
// Metadata Service endpoint available inside Azure compute.
type IMDSClient struct {
	client   *resty.Client
	endpoint string
	clientID string // user-assigned identity; empty selects the system-assigned one
}

// NewIMDSClient creates a token source talking to the given IMDS endpoint.
func NewIMDSClient(endpoint, clientID string) *IMDSClient {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	return &IMDSClient{
		client:   client,
		endpoint: endpoint,
		clientID: clientID,
	}
}

// Token requests an access token scoped to Azure Cache for Redis.
func (c *IMDSClient) Token(ctx context.Context) (*oauth2.Token, error) {
	var result imdsTokenResponse

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Metadata", "true").
		SetQueryParam("api-version", imdsAPIVersion).
		SetQueryParam("resource", redisResource).
		SetResult(&result)
	if c.clientID != "" {
		req.SetQueryParam("client_id", c.clientID)
	}

	resp, err := req.Get(c.endpoint)
	if err != nil {
		return nil, &AuthError{Message: "identity endpoint unreachable", Err: err}
	}
	if resp.StatusCode() != 200 {
		return nil, &AuthError{
			Message: fmt.Sprintf("identity endpoint returned status %d", resp.StatusCode()),
		}
	}
	if result.AccessToken == "" {
		return nil, &AuthError{Message: "identity endpoint returned an empty token"}
	}

	expiresOn, err := strconv.ParseInt(result.ExpiresOn, 10, 64)
	if err != nil {
		return nil, &AuthError{Message: "malformed expires_on in token response", Err: err}
	}

	tokenType := result.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &oauth2.Token{
		AccessToken: result.AccessToken,
		TokenType:   tokenType,
		Expiry:      time.Unix(expiresOn, 0),
	}, nil
}
