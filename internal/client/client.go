// Package client talks to a running battkit server.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrServerUnreachable means no battkit server answered at the given
// address.
var ErrServerUnreachable = errors.New("battkit server unreachable")

// Client fetches snapshots from a battkit server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the server at baseURL,
// e.g. "http://127.0.0.1:9377".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetSnapshot fetches the formatted battery snapshot.
func (c *Client) GetSnapshot(useCache bool) (map[string]string, error) {
	url := c.baseURL + "/v1/battery"
	if !useCache {
		url += "?cache=false"
	}

	body, err := c.get(url)
	if err != nil {
		return nil, err
	}

	var snapshot map[string]string
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}
	return snapshot, nil
}

func (c *Client) get(url string) ([]byte, error) {
	logrus.WithField("url", url).Debug("sending request")

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("got %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
