package endpoints

import (
	"context"
	"net/url"
	"sort"

	"github.com/jackzampolin/sheetindex/internal/api"
	"github.com/jackzampolin/sheetindex/internal/config"
)

// Client calls a sheetindex server with the request and response types
// the endpoints serve.
type Client struct {
	*api.Client
}

// NewClient creates a client for the server at serverURL.
func NewClient(serverURL string, opts ...api.ClientOption) *Client {
	return &Client{Client: api.NewClient(serverURL, opts...)}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.Get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ready fails with a 503 api.Error until the page pool is running.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.Get(ctx, "/ready", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.Get(ctx, "/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Identify runs a document through the server's page pool.
func (c *Client) Identify(ctx context.Context, req *IdentifyRequest) (*IdentifyResponse, error) {
	var resp IdentifyResponse
	if err := c.Post(ctx, "/api/identify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IdentifyWorkbook runs a document and returns the server-built sheet
// index workbook and its suggested filename.
func (c *Client) IdentifyWorkbook(ctx context.Context, req *IdentifyRequest) ([]byte, string, error) {
	return c.Download(ctx, "/api/identify?format=xlsx", req)
}

func (c *Client) ValidateNumbers(ctx context.Context, candidates []string) (*NumberValidationResponse, error) {
	var resp NumberValidationResponse
	if err := c.Post(ctx, "/api/validate/number", ValidateRequest{Candidates: candidates}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ValidateTitles(ctx context.Context, candidates []string) (*TitleValidationResponse, error) {
	var resp TitleValidationResponse
	if err := c.Post(ctx, "/api/validate/title", ValidateRequest{Candidates: candidates}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Reasons(ctx context.Context) (*ReasonsResponse, error) {
	var resp ReasonsResponse
	if err := c.Get(ctx, "/api/reasons", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Settings lists settings under prefix, or all of them, sorted by key.
func (c *Client) Settings(ctx context.Context, prefix string) ([]config.Entry, error) {
	path := "/api/settings"
	if prefix != "" {
		path += "?prefix=" + url.QueryEscape(prefix)
	}
	var resp SettingsResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	entries := make([]config.Entry, 0, len(resp.Settings))
	for _, e := range resp.Settings {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (c *Client) Setting(ctx context.Context, key string) (*SettingResponse, error) {
	var resp SettingResponse
	if err := c.Get(ctx, "/api/settings/"+url.PathEscape(key), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetSetting(ctx context.Context, key string, value any, description string) (*SettingResponse, error) {
	var resp SettingResponse
	req := UpdateSettingRequest{Value: value, Description: description}
	if err := c.Put(ctx, "/api/settings/"+url.PathEscape(key), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetSetting(ctx context.Context, key string) (*SettingResponse, error) {
	var resp SettingResponse
	if err := c.Post(ctx, "/api/settings/reset/"+url.PathEscape(key), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Swagger fetches the server's OpenAPI document.
func (c *Client) Swagger(ctx context.Context) (map[string]any, error) {
	var spec map[string]any
	if err := c.Get(ctx, "/swagger.json", &spec); err != nil {
		return nil, err
	}
	return spec, nil
}
