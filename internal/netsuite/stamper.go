package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrStampUnconfigured is returned when stamping is requested without a
// RESTlet URL.
var ErrStampUnconfigured = errors.New("stamp restlet url is not configured")

type stampRequest struct {
	POIDs    []string `json:"po_ids"`
	SentDate string   `json:"sent_date"`
}

type stampResponse struct {
	OK      bool         `json:"ok"`
	Updated []flexString `json:"updated"`
	Error   string       `json:"error"`
}

// StampResult reports which PO headers the RESTlet updated.
type StampResult struct {
	Updated []string `json:"updated"`
}

// StampInquirySent writes sentDate into the last-inquiry-sent field on
// each PO header via the deployed RESTlet. The date is sent as YYYY-MM-DD.
func (c *Client) StampInquirySent(ctx context.Context, poIDs []string, sentDate time.Time) (*StampResult, error) {
	if c.cfg.StampRestletURL == "" {
		return nil, ErrStampUnconfigured
	}
	if len(poIDs) == 0 {
		return &StampResult{}, nil
	}

	payload, err := json.Marshal(stampRequest{
		POIDs:    poIDs,
		SentDate: sentDate.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal stamp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.StampRestletURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build stamp request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: stamp HTTP %d: %s", ErrRequestFailed, resp.StatusCode, body)
	}

	var decoded stampResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if !decoded.OK {
		return nil, fmt.Errorf("%w: restlet reported failure: %s", ErrRequestFailed, decoded.Error)
	}

	result := &StampResult{Updated: make([]string, len(decoded.Updated))}
	for i, id := range decoded.Updated {
		result.Updated[i] = string(id)
	}

	c.logger.InfoContext(
		ctx, "inquiry date stamped",
		"requested", len(poIDs),
		"updated", len(result.Updated),
	)

	return result, nil
}
