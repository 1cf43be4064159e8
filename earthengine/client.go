package earthengine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const defaultBaseURL = "https://earthengine.googleapis.com/v1"

// APIError is a failure reported by the imagery platform (expired session, quota,
// malformed query). It is the recoverable class: the caller may reauthenticate and
// retry once.
type APIError struct {
	HTTPStatus int
	Code       int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("earth engine: %s (%s)", e.Message, e.Status)
	}
	return fmt.Sprintf("earth engine: %s (http %d)", e.Message, e.HTTPStatus)
}

// RenderRequest describes one thumbnail rendering.
type RenderRequest struct {
	Expression Expression
	Dimensions int    // longest edge in pixels
	Format     string // e.g. "PNG"
}

// Client talks to the Earth Engine v1 REST API.
type Client struct {
	base    string
	project string
	auth    *Authenticator
	http    *http.Client
}

// Option customizes a Client. Used by tests to point at a fake server.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.base = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(project string, auth *Authenticator, opts ...Option) *Client {
	c := &Client{
		base:    defaultBaseURL,
		project: project,
		auth:    auth,
		http:    &http.Client{Timeout: 25 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Initialize performs the first credential exchange so a bad key file fails at
// startup rather than on the first request.
func (c *Client) Initialize(ctx context.Context) error {
	if _, err := c.auth.Token(ctx); err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	return nil
}

// Reauthenticate forces a fresh credential exchange.
func (c *Client) Reauthenticate(ctx context.Context) error {
	return c.auth.Reauthenticate(ctx)
}

// thumbnail resource, as created and returned by the platform.
type thumbnail struct {
	Name string `json:"name"`
}

type createThumbnailReq struct {
	Expression Expression    `json:"expression"`
	FileFormat string        `json:"fileFormat"`
	Grid       thumbnailGrid `json:"grid"`
}

type thumbnailGrid struct {
	Dimensions gridDimensions `json:"dimensions"`
}

type gridDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RenderThumbnail creates a thumbnail for the expression and returns the URL its
// pixels can be fetched from.
func (c *Client) RenderThumbnail(ctx context.Context, req RenderRequest) (string, error) {
	body := createThumbnailReq{
		Expression: req.Expression,
		FileFormat: req.Format,
		Grid: thumbnailGrid{
			Dimensions: gridDimensions{Width: req.Dimensions, Height: req.Dimensions},
		},
	}

	var created thumbnail
	url := fmt.Sprintf("%s/projects/%s/thumbnails", c.base, c.project)
	if err := c.post(ctx, url, body, &created); err != nil {
		return "", err
	}
	if created.Name == "" {
		return "", &APIError{Message: "thumbnail response missing name"}
	}
	return fmt.Sprintf("%s/%s:getPixels", c.base, created.Name), nil
}

// post issues an authenticated JSON request and decodes the response into out.
func (c *Client) post(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	tok, err := c.auth.Token(ctx)
	if err != nil {
		return err
	}
	tok.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("earth engine call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError maps a non-2xx platform response to an APIError, falling back to
// the raw body when the envelope is not the standard google error shape.
func decodeAPIError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	apiErr := &APIError{HTTPStatus: status, Message: string(body)}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Status = envelope.Error.Status
	}
	return apiErr
}
