package planning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// CredentialProvider supplies the bearer token for backend calls. Injected
// rather than read from ambient state so the engine is testable with a fake.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to the CredentialProvider interface.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Client implements Backend against the REST API under /api/v1.
type Client struct {
	base  string
	http  *http.Client
	creds CredentialProvider
}

// NewClient builds a backend client. httpClient may be nil, in which case
// http.DefaultClient is used; timeouts are the transport's concern.
func NewClient(base string, httpClient *http.Client, creds CredentialProvider) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient, creds: creds}
}

func (c *Client) ListRecords(ctx context.Context, projectID string) ([]Record, error) {
	var out []Record
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/planning", projectID), nil, &out)
	return out, err
}

func (c *Client) UpsertRecord(ctx context.Context, rec Record) (RecordID, error) {
	var out struct {
		ID RecordID `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/planning", rec, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) ListAssociations(ctx context.Context, id RecordID) ([]Association, error) {
	var out []Association
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/planning/%d/activities", id), nil, &out)
	return out, err
}

func (c *Client) CreateAssociation(ctx context.Context, id RecordID, activityID int64) error {
	body := map[string]int64{"activityId": activityID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/planning/%d/activities", id), body, nil)
}

func (c *Client) DeleteAssociation(ctx context.Context, associationID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/planning/activities/%d", associationID), nil, nil)
}

func (c *Client) DeleteRecord(ctx context.Context, id RecordID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/planning/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return fmt.Errorf("get credentials: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
