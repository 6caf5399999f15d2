package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultPageLimit matches NetSuite's maximum SuiteQL page size.
const DefaultPageLimit = 1000

// FetchOptions narrows the open-PO-line pull.
type FetchOptions struct {
	// DaysOld excludes POs younger than this many days.
	DaysOld int

	// VendorEmail, when set, restricts the pull to one vendor.
	VendorEmail string
}

// FetchStats records the shape of one pull.
type FetchStats struct {
	Rows  int `json:"rows"`
	Pages int `json:"pages"`
}

type suiteQLRequest struct {
	Query string `json:"q"`
}

type suiteQLResponse struct {
	Items   []Row `json:"items"`
	HasMore bool  `json:"hasMore"`
}

// Query runs a SuiteQL statement and follows hasMore until the result set
// is exhausted. NetSuite caps each page at the configured limit; the
// Prefer: transient header opts out of result caching, which SuiteQL
// requires for unbounded queries.
func (c *Client) Query(ctx context.Context, query string) ([]Row, FetchStats, error) {
	var (
		rows   []Row
		stats  FetchStats
		offset int
	)

	for {
		page, err := c.queryPage(ctx, query, offset)
		if err != nil {
			return nil, stats, err
		}

		rows = append(rows, page.Items...)
		stats.Rows = len(rows)
		stats.Pages++

		c.logger.DebugContext(
			ctx, "suiteql page",
			"offset", offset,
			"rows", len(page.Items),
			"total", len(rows),
		)

		if !page.HasMore {
			return rows, stats, nil
		}
		offset += c.cfg.PageLimit
	}
}

func (c *Client) queryPage(ctx context.Context, query string, offset int) (*suiteQLResponse, error) {
	payload, err := json.Marshal(suiteQLRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal suiteql request: %w", err)
	}

	url := fmt.Sprintf(
		"%s/services/rest/query/v1/suiteql?limit=%d&offset=%d",
		c.cfg.BaseURL, c.cfg.PageLimit, offset,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build suiteql request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "transient")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: suiteql HTTP %d: %s", ErrRequestFailed, resp.StatusCode, body)
	}

	var page suiteQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	return &page, nil
}

// FetchOpenPOLines pulls open PO lines and groups them into purchase
// orders, preserving the query's ordering.
func (c *Client) FetchOpenPOLines(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	query := OpenPOLinesQuery(opts.DaysOld, opts.VendorEmail)

	rows, stats, err := c.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch open po lines: %w", err)
	}

	pos := GroupRows(rows)

	c.logger.InfoContext(
		ctx, "open po lines fetched",
		"rows", stats.Rows,
		"pages", stats.Pages,
		"purchase_orders", len(pos),
	)

	return &FetchResult{PurchaseOrders: pos, Stats: stats}, nil
}
