package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/intellipark-core/internal/parking"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:5001.
	BaseURL string

	// Timeout applies to each request. Zero means no timeout.
	Timeout time.Duration
}

// Client talks to the parking backend.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a backend client.
func New(cfg Config) *Client {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient creates a client using hc for requests.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Sessions fetches the full session list.
func (c *Client) Sessions(ctx context.Context) ([]parking.Session, error) {
	var sessions []parking.Session
	if err := c.getData(ctx, "/db", &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		return nil, fmt.Errorf("%w: sessions: missing data", ErrMalformed)
	}
	return sessions, nil
}

// TriggerScene runs scene id on the backend.
//
// Returns:
//   - SceneResult: Updated sessions, or the denial
//   - error: ErrTransport or ErrMalformed wrapped with detail
func (c *Client) TriggerScene(ctx context.Context, id string) (SceneResult, error) {
	if id == "" {
		return SceneResult{}, fmt.Errorf("%w: scene: empty id", ErrMalformed)
	}

	env, status, err := c.do(ctx, http.MethodPost, "/scene/"+url.PathEscape(id), nil)
	if err != nil {
		return SceneResult{}, err
	}

	var payload scenePayload
	if len(env.Data) > 0 && !isNull(env.Data) {
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return SceneResult{}, fmt.Errorf("%w: scene %s: %w", ErrMalformed, id, err)
		}
	}

	// A denial may arrive with a 4xx status; the payload decides.
	if payload.Error != "" {
		return SceneResult{Denial: &Denial{
			Error:   payload.Error,
			Plate:   payload.Plate,
			Message: payload.Message,
		}}, nil
	}
	if status < 200 || status > 299 {
		return SceneResult{}, fmt.Errorf("%w: scene %s: status %d", ErrTransport, id, status)
	}
	if payload.DB == nil {
		return SceneResult{}, fmt.Errorf("%w: scene %s: no session list", ErrMalformed, id)
	}
	sessions := *payload.DB
	if sessions == nil {
		sessions = []parking.Session{}
	}
	return SceneResult{Sessions: sessions}, nil
}

// LatestForPlate looks up the most recent session for plate. The plate is
// normalized before the request. A nil session with a nil error means the
// backend has no record.
func (c *Client) LatestForPlate(ctx context.Context, plate string) (*parking.Session, error) {
	slug := parking.NormalizePlate(plate)
	if slug == "" {
		return nil, ErrInvalidPlate
	}
	var sess *parking.Session
	if err := c.getData(ctx, "/sessions/plate/"+url.PathEscape(slug)+"/latest", &sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// AllowedList returns the plate whitelist.
func (c *Client) AllowedList(ctx context.Context) ([]AllowedCar, error) {
	var list []AllowedCar
	if err := c.getData(ctx, "/allowed/list", &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []AllowedCar{}
	}
	return list, nil
}

// AllowedAdd adds plate to the whitelist.
func (c *Client) AllowedAdd(ctx context.Context, plate string) error {
	return c.postPlate(ctx, "/allowed/add", plate)
}

// AllowedRemove removes plate from the whitelist.
func (c *Client) AllowedRemove(ctx context.Context, plate string) error {
	return c.postPlate(ctx, "/allowed/remove", plate)
}

// HealthCheck confirms the backend answers the session endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Sessions(ctx)
	return err
}

func (c *Client) postPlate(ctx context.Context, path, plate string) error {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return ErrInvalidPlate
	}
	body, err := json.Marshal(platePayload{Plate: plate})
	if err != nil {
		return fmt.Errorf("encoding plate: %w", err)
	}
	_, status, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %s: status %d", ErrTransport, path, status)
	}
	return nil
}

// getData performs a GET and decodes the envelope's data into out.
func (c *Client) getData(ctx context.Context, path string, out any) error {
	env, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %s: status %d", ErrTransport, path, status)
	}
	if len(env.Data) == 0 || isNull(env.Data) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	return nil
}

// do sends a request and decodes the response envelope. Non-2xx statuses
// are returned for the caller to judge; the body is still decoded when it
// is JSON.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (envelope, int, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return envelope{}, 0, fmt.Errorf("%w: building request %s %s: %w", ErrTransport, method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, 0, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return envelope{}, resp.StatusCode, fmt.Errorf("%w: reading %s: %w", ErrTransport, path, err)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Error pages are not JSON; report the status instead.
			return envelope{}, resp.StatusCode, nil
		}
		return envelope{}, resp.StatusCode, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	return env, resp.StatusCode, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
