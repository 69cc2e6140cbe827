package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTPStore talks to the vault server's REST tree:
//
//	GET    {base}/vaults/{vault}/transactions        -> {"<id>": "<token>", ...}
//	PUT    {base}/vaults/{vault}/transactions/{id}   body: "<token>"
//	DELETE {base}/vaults/{vault}/transactions/{id}
//	GET    {base}/vaults/{vault}/deleted             -> {"<id>": <ms>, ...}
//	PUT    {base}/vaults/{vault}/deleted/{id}        body: <ms>
type HTTPStore struct {
	baseURL string
	vaultID string
	client  *http.Client
}

// NewHTTPStore builds a store for one vault namespace. The passed client
// controls timeouts; a nil client falls back to http.DefaultClient.
func NewHTTPStore(baseURL, vaultID string, client *http.Client) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{baseURL: baseURL, vaultID: vaultID, client: client}
}

func (s *HTTPStore) collectionURL(collection string, id string) string {
	u := fmt.Sprintf("%s/vaults/%s/%s", s.baseURL, url.PathEscape(s.vaultID), collection)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (s *HTTPStore) do(ctx context.Context, method, u string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	// Deleting an absent child is a no-op, not a failure.
	if resp.StatusCode == http.StatusNotFound && method == http.MethodDelete {
		return data, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, method, u, resp.StatusCode)
	}
	return data, nil
}

func (s *HTTPStore) Transactions(ctx context.Context) (map[string]string, error) {
	data, err := s.do(ctx, http.MethodGet, s.collectionURL("transactions", ""), nil)
	if err != nil {
		return nil, err
	}
	snapshot := map[string]string{}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: malformed transactions snapshot: %w", ErrUnavailable, err)
	}
	return snapshot, nil
}

func (s *HTTPStore) Tombstones(ctx context.Context) (map[string]int64, error) {
	data, err := s.do(ctx, http.MethodGet, s.collectionURL("deleted", ""), nil)
	if err != nil {
		return nil, err
	}
	snapshot := map[string]int64{}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: malformed tombstone snapshot: %w", ErrUnavailable, err)
	}
	return snapshot, nil
}

func (s *HTTPStore) PutTransaction(ctx context.Context, id, token string) error {
	_, err := s.do(ctx, http.MethodPut, s.collectionURL("transactions", id), token)
	return err
}

func (s *HTTPStore) RemoveTransaction(ctx context.Context, id string) error {
	_, err := s.do(ctx, http.MethodDelete, s.collectionURL("transactions", id), nil)
	return err
}

func (s *HTTPStore) PutTombstone(ctx context.Context, id string, deletedAt int64) error {
	_, err := s.do(ctx, http.MethodPut, s.collectionURL("deleted", id), deletedAt)
	return err
}
