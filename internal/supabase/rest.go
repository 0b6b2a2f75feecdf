package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
)

// RestClient performs table-scoped reads and writes against the relational
// store. Filters are equality-only and ordering is by one column, which is
// all the screens need.
type RestClient struct {
	cfg        Config
	httpClient *http.Client
}

// List fetches all rows of table matching the equality filter, newest-first
// when orderDesc names a column, decoding into dest (a pointer to a slice).
func (c *RestClient) List(ctx context.Context, accessToken, table string, filter map[string]string, orderDesc string, dest any) error {
	q := url.Values{}
	q.Set("select", "*")
	// Sorted iteration keeps request URLs deterministic for tests and logs.
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, "eq."+filter[k])
	}
	if orderDesc != "" {
		q.Set("order", orderDesc+".desc")
	}

	req, err := c.newRequest(ctx, http.MethodGet, table, q, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr("list "+table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusErr("list "+table, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return transportErr("decode "+table+" rows", err)
	}
	return nil
}

// GetOne fetches the single row of table with the given id into dest.
// Zero rows is a not-found error, not an empty result.
func (c *RestClient) GetOne(ctx context.Context, accessToken, table, id string, dest any) error {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)

	req, err := c.newRequest(ctx, http.MethodGet, table, q, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	// Single-object representation: the store answers 406 for zero rows.
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr("get "+table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusErr("get "+table, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return transportErr("decode "+table+" row", err)
	}
	return nil
}

// Insert writes one record. The write is a single atomic call; there are no
// partial-failure semantics to handle.
func (c *RestClient) Insert(ctx context.Context, accessToken, table string, record any) error {
	return c.write(ctx, accessToken, table, record, "return=minimal")
}

// Upsert writes one record, merging on the primary key when the row exists.
func (c *RestClient) Upsert(ctx context.Context, accessToken, table string, record any) error {
	return c.write(ctx, accessToken, table, record, "return=minimal,resolution=merge-duplicates")
}

func (c *RestClient) write(ctx context.Context, accessToken, table string, record any, prefer string) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", table, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, table, nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Prefer", prefer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr("write "+table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusErr("write "+table, resp.StatusCode)
	}
	return nil
}

func (c *RestClient) newRequest(ctx context.Context, method, table string, q url.Values, body *bytes.Reader) (*http.Request, error) {
	u := c.cfg.BaseURL + "/rest/v1/" + table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.AnonKey)
	return req, nil
}
