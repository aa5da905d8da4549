package msgraph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/omriShneor/salesdesk/internal/calendar"
)

const (
	defaultScope     = "https://graph.microsoft.com/.default"
	tokenURLTemplate = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"

	// A cached token is reused only while its expiry is further away than this.
	refreshMargin = 5 * time.Minute
)

var (
	ErrConfiguration = fmt.Errorf("%w: graph credentials missing", calendar.ErrNotConfigured)
	ErrAuth          = errors.New("graph token exchange failed")
)

// Credentials identify the service principal used for the client-credentials grant.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// TokenURL overrides the tenant's token endpoint (tests).
	TokenURL string
	Scopes   []string
}

func (c Credentials) configured() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// TokenCache obtains and caches one bearer token for the calendar API.
// The cached value is replaced wholesale on refresh. Concurrent refreshes
// are collapsed into a single exchange.
type TokenCache struct {
	creds      Credentials
	config     *clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time

	inflight singleflight.Group
}

// NewTokenCache creates a cache for the given credentials. Missing
// credentials are reported on the first Token call, not here.
func NewTokenCache(creds Credentials) *TokenCache {
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf(tokenURLTemplate, creds.TenantID)
	}
	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = []string{defaultScope}
	}

	return &TokenCache{
		creds: creds,
		config: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// Token returns a bearer token valid for at least refreshMargin.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if !c.creds.configured() {
		return "", ErrConfiguration
	}

	if token, ok := c.cached(); ok {
		return token, nil
	}

	v, err, _ := c.inflight.Do("token", func() (interface{}, error) {
		// A refresh that finished while we waited is good enough.
		if token, ok := c.cached(); ok {
			return token, nil
		}
		// Shared by every waiter, so one caller cancelling must not fail the rest.
		refreshCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, c.httpClient)
		return c.refresh(refreshCtx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *TokenCache) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || !c.now().Add(refreshMargin).Before(c.expiry) {
		return "", false
	}
	return c.token, true
}

func (c *TokenCache) refresh(ctx context.Context) (string, error) {
	tok, err := c.config.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}

	// oauth2 stamps Expiry against the wall clock; carry the remaining
	// lifetime over to our clock.
	lifetime := time.Hour
	if !tok.Expiry.IsZero() {
		lifetime = time.Until(tok.Expiry)
	}

	c.mu.Lock()
	c.token = tok.AccessToken
	c.expiry = c.now().Add(lifetime)
	c.mu.Unlock()

	return tok.AccessToken, nil
}
