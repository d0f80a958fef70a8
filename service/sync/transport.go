package sync

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"malldepot/config"
)

// ErrorKind classifies how a transport call failed.
type ErrorKind int

const (
	// KindConnectivity covers DNS failures, refused connections and timeouts.
	KindConnectivity ErrorKind = iota + 1
	// KindStatus covers responses with an HTTP status other than 200.
	KindStatus
)

// TransportError reports a failed exchange with the remote store. Status is
// only set for KindStatus errors.
type TransportError struct {
	Kind   ErrorKind
	Status int
	Err    error
	Detail string
}

func (e *TransportError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("store returned status %d: %s", e.Status, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("could not reach store: %v", e.Err)
	}
	return "could not reach store"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func statusDetail(status int, body string) string {
	switch {
	case status >= 500:
		return "server error on the destination"
	case status == http.StatusNotFound:
		return "endpoint not found"
	case status >= 400:
		return "client error: " + strings.TrimSpace(body)
	default:
		return "unexpected status"
	}
}

// Client performs single-attempt JSON exchanges with the remote store.
// Every call is one request; a failed phase is retried by a future run,
// never by the transport. The client never touches persistent state.
type Client struct {
	http *http.Client
}

func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS},
	}
	return &Client{
		http: &http.Client{Timeout: cfg.HTTPTimeout, Transport: transport},
	}
}

// Download performs a GET and returns the response body parsed as JSON,
// without interpreting its content. Only status 200 is success.
func (c *Client) Download(ctx context.Context, url, token string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	setAuth(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: KindConnectivity, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Kind: KindStatus, Status: resp.StatusCode, Detail: statusDetail(resp.StatusCode, string(body))}
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse store response: %w", err)
	}
	return parsed, nil
}

// Upload POSTs a JSON payload. On status 200 the response body must be a
// JSON object, the documented success envelope. Anything else is an upload
// failure even with a 200 status.
func (c *Client) Upload(ctx context.Context, payload interface{}, url, token string) (map[string]interface{}, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: KindConnectivity, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Kind: KindStatus, Status: resp.StatusCode, Detail: statusDetail(resp.StatusCode, string(body))}
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("store accepted the upload but returned no parseable envelope: %w", err)
	}
	return envelope, nil
}

// Reset POSTs to the store's wipe endpoint with no body. Status 200 signals
// the remote catalog and purchase history were wiped.
func (c *Client) Reset(ctx context.Context, url, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	setAuth(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Kind: KindConnectivity, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &TransportError{Kind: KindStatus, Status: resp.StatusCode, Detail: statusDetail(resp.StatusCode, string(body))}
	}
	return nil
}

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// BuildAPIURL assembles a full endpoint URL from connection parts.
func BuildAPIURL(useHTTPS bool, host string, port int, endpoint string) string {
	protocol := "http"
	if useHTTPS {
		protocol = "https"
	}
	endpoint = strings.TrimLeft(endpoint, "/")
	return strings.TrimRight(fmt.Sprintf("%s://%s:%d/%s", protocol, host, port, endpoint), "/")
}
