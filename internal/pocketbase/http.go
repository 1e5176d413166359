package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/logging"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
	"github.com/sethvargo/go-retry"
)

const (
	healthPath      = "/api/health"
	collectionsPath = "/api/collections"
)

// authPaths are tried in order; the first one that yields a token wins.
// Newer backends authenticate superusers through a system collection, older
// ones through the admins endpoint.
var authPaths = []string{
	"/api/collections/_superusers/auth-with-password",
	"/api/admins/auth-with-password",
}

// Options tune an HTTPClient.
type Options struct {
	// Timeout bounds every single request.
	Timeout time.Duration
	// PageSize is the perPage value used when listing collections.
	PageSize int
	// HealthAttempts and HealthInterval bound the wait for a starting backend
	// before authentication. Zero attempts disables the wait.
	HealthAttempts int
	HealthInterval time.Duration
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		Timeout:        10 * time.Second,
		PageSize:       200,
		HealthAttempts: 5,
		HealthInterval: 2 * time.Second,
	}
}

type authRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type listPage struct {
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Items      []models.Collection `json:"items"`
}

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	opts    Options
	logger  logging.Logger
	token   string
	now     func() time.Time
}

// NewHTTPClient builds a client for the backend at baseURL.
func NewHTTPClient(baseURL string, opts Options, logger logging.Logger) *HTTPClient {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Health probes the backend.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, healthPath, nil, nil)
}

// Authenticate waits for the backend to answer its health probe, then tries
// every known admin auth endpoint. The token of the first success is kept
// and sent with every later request.
func (c *HTTPClient) Authenticate(ctx context.Context, identity, secret string) (Token, error) {
	if err := c.waitForHealth(ctx); err != nil {
		if ctx.Err() != nil {
			return Token{}, ctx.Err()
		}
		c.logger.Warn(ctx, "backend health check failed, trying to authenticate anyway", "error", err)
	}

	var errs []error
	for _, path := range authPaths {
		var resp authResponse
		if err := c.do(ctx, http.MethodPost, path, authRequest{Identity: identity, Password: secret}, &resp); err != nil {
			c.logger.Debug(ctx, "auth endpoint rejected credentials", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		if resp.Token == "" {
			errs = append(errs, fmt.Errorf("%s: empty token: %w", path, common.ErrInvalidResponse))
			continue
		}

		token := ParseToken(resp.Token)
		if token.Expired(c.now()) {
			errs = append(errs, fmt.Errorf("%s: token already expired at %s", path, token.ExpiresAt.Format(time.RFC3339)))
			continue
		}

		c.token = token.Value
		c.logger.Debug(ctx, "authenticated", "path", path, "expires_at", token.ExpiresAt)
		return token, nil
	}

	return Token{}, fmt.Errorf("%w: %w", ErrAuthFailed, errors.Join(errs...))
}

func (c *HTTPClient) waitForHealth(ctx context.Context) error {
	attempts := c.opts.HealthAttempts
	if attempts <= 0 {
		return nil
	}
	interval := c.opts.HealthInterval
	if interval <= 0 {
		interval = time.Millisecond
	}

	attempt := 0
	b := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(interval))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := c.Health(ctx); err != nil {
			c.logger.Info(ctx, "waiting for server", "attempt", attempt, "of", attempts)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// ListCollections pages through the collection list. Both the paged object
// form and a bare JSON array are accepted.
func (c *HTTPClient) ListCollections(ctx context.Context, filter string) ([]models.Collection, error) {
	var all []models.Collection
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("perPage", strconv.Itoa(c.opts.PageSize))
		q.Set("page", strconv.Itoa(page))
		if filter != "" {
			q.Set("filter", filter)
		}

		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, collectionsPath+"?"+q.Encode(), nil, &raw); err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}

		p, err := decodeListPage(raw)
		if err != nil {
			return nil, fmt.Errorf("list collections: %w: %w", common.ErrInvalidResponse, err)
		}
		all = append(all, p.Items...)

		if p.TotalPages <= page || len(p.Items) == 0 {
			return all, nil
		}
	}
}

func decodeListPage(raw json.RawMessage) (listPage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return listPage{}, nil
	}
	if raw[0] == '[' {
		var items []models.Collection
		if err := json.Unmarshal(raw, &items); err != nil {
			return listPage{}, err
		}
		return listPage{Items: items}, nil
	}
	var p listPage
	if err := json.Unmarshal(raw, &p); err != nil {
		return listPage{}, err
	}
	return p, nil
}

// GetCollection fetches a collection by identifier or name.
func (c *HTTPClient) GetCollection(ctx context.Context, idOrName string) (models.Collection, error) {
	var out models.Collection
	if err := c.do(ctx, http.MethodGet, collectionsPath+"/"+url.PathEscape(idOrName), nil, &out); err != nil {
		return models.Collection{}, fmt.Errorf("get collection %q: %w", idOrName, err)
	}
	if out.ID == "" {
		return models.Collection{}, fmt.Errorf("get collection %q: %w", idOrName, common.ErrInvalidResponse)
	}
	return out, nil
}

// CreateCollection posts a new collection.
func (c *HTTPClient) CreateCollection(ctx context.Context, col models.Collection) (models.Collection, error) {
	var out models.Collection
	if err := c.do(ctx, http.MethodPost, collectionsPath, col, &out); err != nil {
		return models.Collection{}, fmt.Errorf("create collection %q: %w", col.Name, err)
	}
	return out, nil
}

// UpdateCollection patches the collection with the given identifier.
func (c *HTTPClient) UpdateCollection(ctx context.Context, id string, payload any) (models.Collection, error) {
	var out models.Collection
	if err := c.do(ctx, http.MethodPatch, collectionsPath+"/"+url.PathEscape(id), payload, &out); err != nil {
		return models.Collection{}, fmt.Errorf("update collection %q: %w", id, err)
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, c.token)
	}

	c.logger.Debug(ctx, "request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w: %w", method, path, ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w: %w", method, path, common.ErrInvalidResponse, err)
	}
	return nil
}
