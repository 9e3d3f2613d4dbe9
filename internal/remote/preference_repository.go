// Package remote stores preferences through a running viewsync HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"viewsync/internal/domain"
	"viewsync/internal/repository"
)

const defaultTimeout = 10 * time.Second

type PreferenceRepository struct {
	baseURL *url.URL
	client  *http.Client
}

type Option func(*PreferenceRepository)

func WithHTTPClient(client *http.Client) Option {
	return func(r *PreferenceRepository) {
		if client != nil {
			r.client = client
		}
	}
}

func NewPreferenceRepository(baseURL string, opts ...Option) (*PreferenceRepository, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("remote url cannot be empty")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote url %q: scheme must be http or https", baseURL)
	}

	r := &PreferenceRepository{
		baseURL: u,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type wirePreference struct {
	Name      string          `json:"name"`
	Value     json.RawMessage `json:"value"`
	Revision  string          `json:"revision,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

func (w wirePreference) toPreference() *domain.Preference {
	p := &domain.Preference{Name: w.Name, Value: w.Value, Revision: w.Revision}
	if w.UpdatedAt != "" {
		if at, err := time.Parse(time.RFC3339Nano, w.UpdatedAt); err == nil {
			p.UpdatedAt = at
		}
	}
	return p
}

type apiError struct {
	Error string `json:"error"`
}

func (r *PreferenceRepository) endpoint(name string, query url.Values) string {
	u := *r.baseURL
	u.Path += "/v1/preferences"
	if name != "" {
		u.Path += "/" + name
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func (r *PreferenceRepository) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	return resp, nil
}

// statusError turns a non-success response into an error, mapping 404 to
// repository.ErrNotFound.
func statusError(resp *http.Response, name string) error {
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %q", repository.ErrNotFound, name)
	}

	var apiErr apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("remote returned %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("remote returned %d", resp.StatusCode)
}

func (r *PreferenceRepository) Get(ctx context.Context, name string) (*domain.Preference, error) {
	resp, err := r.do(ctx, http.MethodGet, r.endpoint(name, nil), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, name)
	}

	var w wirePreference
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to decode preference: %w", err)
	}
	return w.toPreference(), nil
}

func (r *PreferenceRepository) Set(ctx context.Context, name string, value json.RawMessage) error {
	if err := domain.ValidatePreferenceName(name); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	body := []byte(value)
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("null")
	}

	resp, err := r.do(ctx, http.MethodPut, r.endpoint(name, nil), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return statusError(resp, name)
	}
}

func (r *PreferenceRepository) Delete(ctx context.Context, name string) error {
	resp, err := r.do(ctx, http.MethodDelete, r.endpoint(name, nil), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp, name)
	}
	return nil
}

func (r *PreferenceRepository) List(ctx context.Context, filter repository.PreferenceFilter) ([]*domain.Preference, error) {
	q := url.Values{}
	if filter.Prefix != "" {
		q.Set("prefix", filter.Prefix)
	}
	if filter.SearchQuery != "" {
		q.Set("q", filter.SearchQuery)
	}
	if filter.SortBy != "" {
		q.Set("sort", filter.SortBy)
	}
	if filter.SortOrder != "" {
		q.Set("order", filter.SortOrder)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	resp, err := r.do(ctx, http.MethodGet, r.endpoint("", q), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "")
	}

	var body struct {
		Preferences []wirePreference `json:"preferences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}

	prefs := make([]*domain.Preference, 0, len(body.Preferences))
	for _, w := range body.Preferences {
		prefs = append(prefs, w.toPreference())
	}
	return prefs, nil
}

func (r *PreferenceRepository) Count(ctx context.Context, filter repository.PreferenceFilter) (int64, error) {
	filter.Limit, filter.Offset = 0, 0
	prefs, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(prefs)), nil
}

var _ repository.PreferenceRepository = (*PreferenceRepository)(nil)
