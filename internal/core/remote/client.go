// Package remote mirrors chant sessions to a cloud document store. The
// store is a narrow contract: JSON documents under
// users/{uid}/chantSessions/{sessionID}, written best-effort.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"yeomju/internal/core/models"
)

// Client talks to the document store endpoint.
type Client struct {
	base     *url.URL
	httpc    *http.Client
	token    func() string // current bearer token, empty when signed out
	deviceID string
}

// New creates a client for the given endpoint. token is consulted per
// request so a re-login is picked up without rebuilding the client.
func New(endpoint string, token func() string, deviceID string) (*Client, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid remote endpoint: %w", err)
	}
	return &Client{
		base:     base,
		httpc:    &http.Client{Timeout: 10 * time.Second},
		token:    token,
		deviceID: deviceID,
	}, nil
}

// sessionDoc is the wire form of a session document.
type sessionDoc struct {
	ID          int64  `json:"id"`
	TypeLabel   string `json:"typeLabel"`
	CustomLabel string `json:"customLabel,omitempty"`
	StartedAt   int64  `json:"startedAt"`
	EndedAt     *int64 `json:"endedAt"`
	Count       int    `json:"count"`
	YMD         string `json:"ymd"`
	UserID      string `json:"userId,omitempty"`
	DeviceID    string `json:"deviceId,omitempty"`
}

func (c *Client) docURL(userID string, sessionID int64) string {
	u := *c.base
	u.Path, _ = url.JoinPath(u.Path, "users", userID, "chantSessions", strconv.FormatInt(sessionID, 10))
	return u.String()
}

func (c *Client) collectionURL(userID string) string {
	u := *c.base
	u.Path, _ = url.JoinPath(u.Path, "users", userID, "chantSessions")
	return u.String()
}

func (c *Client) do(req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote store returned %s", resp.Status)
	}
	return nil
}

// UpsertSession writes the full session document. The local id doubles as
// the document id so later field updates can address the same document.
func (c *Client) UpsertSession(ctx context.Context, userID string, s *models.ChantSession) error {
	doc := sessionDoc{
		ID:          s.ID,
		TypeLabel:   s.TypeLabel,
		CustomLabel: s.CustomLabel,
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		Count:       s.Count,
		YMD:         s.YMD,
		UserID:      s.UserID,
		DeviceID:    c.deviceID,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.docURL(userID, s.ID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req)
}

// UpdateSessionField patches a single field of an existing document.
func (c *Client) UpdateSessionField(ctx context.Context, userID string, sessionID int64, field string, value interface{}) error {
	body, err := json.Marshal(map[string]interface{}{field: value})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.docURL(userID, sessionID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req)
}

// FetchAllSessions pulls every session document for a user. Documents that
// fail to decode into a valid session are skipped rather than failing the
// whole pull.
func (c *Client) FetchAllSessions(ctx context.Context, userID string) ([]models.ChantSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL(userID), nil)
	if err != nil {
		return nil, err
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote store returned %s", resp.Status)
	}

	var payload struct {
		Documents []struct {
			Name string          `json:"name"`
			Doc  json.RawMessage `json:"document"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	var sessions []models.ChantSession
	now := time.Now().UnixMilli()
	for _, d := range payload.Documents {
		var doc sessionDoc
		if err := json.Unmarshal(d.Doc, &doc); err != nil {
			continue
		}
		s := models.ChantSession{
			RemoteID:    d.Name,
			TypeLabel:   doc.TypeLabel,
			CustomLabel: doc.CustomLabel,
			StartedAt:   doc.StartedAt,
			EndedAt:     doc.EndedAt,
			Count:       doc.Count,
			YMD:         doc.YMD,
			UserID:      doc.UserID,
			UpdatedAt:   now,
			SyncedAt:    now,
		}
		if s.Validate() != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
