// Package meshapi provides a client for the HTTP services of the data mesh
// deployment: the catalog search, the approvals and the event service.
package meshapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	ConsumerIDHeader = "X-Consumer-Id"
	ConsumerID       = "mesh-console"
)

type Fetcher interface {
	Search(ctx context.Context, idToken, query string) ([]SearchResult, error)
	PendingApprovals(ctx context.Context, idToken string) ([]PendingApproval, error)
	Event(ctx context.Context) (*Event, error)
}

type Client struct {
	client          *http.Client
	searchAPIURL    string
	approvalsAPIURL string
	eventAPIURL     string
}

type SearchResult struct {
	TableInformation TableInformation `json:"tableInformation"`
}

type TableInformation struct {
	DatabaseName string   `json:"databaseName"`
	TableName    string   `json:"tableName"`
	ColumnNames  []string `json:"columnNames"`
}

type PendingApproval struct {
	ID              string    `json:"id"`
	Requester       string    `json:"requester"`
	Database        string    `json:"database"`
	Table           string    `json:"table"`
	TargetAccountID string    `json:"targetAccountId"`
	OwnerAccountID  string    `json:"ownerAccountId"`
	TaskToken       string    `json:"taskToken"`
	RequestedAt     time.Time `json:"requestedAt"`
}

type Event struct {
	EventHash string `json:"eventHash"`
}

// Search returns the tables matching query. An empty or null body is no
// matches.
func (c *Client) Search(ctx context.Context, idToken, query string) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/search/%s", c.searchAPIURL, url.PathEscape(query))

	var results []SearchResult

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, u, idToken, &results)
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (c *Client) PendingApprovals(ctx context.Context, idToken string) ([]PendingApproval, error) {
	u := fmt.Sprintf("%s/approvals/pending", c.approvalsAPIURL)

	var approvals []PendingApproval

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, u, idToken, &approvals)
	if err != nil {
		return nil, err
	}

	return approvals, nil
}

func (c *Client) Event(ctx context.Context) (*Event, error) {
	u := fmt.Sprintf("%s/event", c.eventAPIURL)

	event := &Event{}

	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, u, "", event)
	if err != nil {
		return nil, err
	}

	return event, nil
}

func (c *Client) sendRequestAndDeserialize(ctx context.Context, method, url, idToken string, into any) error {
	req, err := c.newRequestWithHeaders(ctx, method, url, idToken)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	err = json.Unmarshal(body, into)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) newRequestWithHeaders(ctx context.Context, method, url, idToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(ConsumerIDHeader, ConsumerID)

	if idToken != "" {
		req.Header.Set("Authorization", "Bearer "+idToken)
	}

	return req, nil
}

func New(searchAPIURL, approvalsAPIURL, eventAPIURL string, client *http.Client) *Client {
	return &Client{
		client:          client,
		searchAPIURL:    strings.TrimSuffix(searchAPIURL, "/"),
		approvalsAPIURL: strings.TrimSuffix(approvalsAPIURL, "/"),
		eventAPIURL:     strings.TrimSuffix(eventAPIURL, "/"),
	}
}
