package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client is a cookie-aware JSON client for the API.
type Client struct {
	client *http.Client
	url    string
}

func NewClient(serverURL string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, fmt.Errorf("create unsafe cookie jar: %w", err)
	}
	return &Client{
		client: &http.Client{Jar: jar},
		url:    serverURL,
	}, nil
}

// unsafeCookieJar stores Secure cookies even though the test server speaks
// plain HTTP on localhost.
type unsafeCookieJar struct {
	jar *cookiejar.Jar
}

func newUnsafeCookieJar() (*unsafeCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &unsafeCookieJar{jar: jar}, nil
}

func (j *unsafeCookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.jar.SetCookies(u, cookies)
}

func (j *unsafeCookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return fmt.Errorf("close response body: %w", err)
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Identify establishes an authenticated session for the given device ID.
func (c *Client) Identify(ctx context.Context, deviceID string) error {
	status, err := c.PostJSON(ctx, "/api/identify", map[string]string{"deviceId": deviceID}, nil)
	if err != nil {
		return fmt.Errorf("identify: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("identify: unexpected status code: %d", status)
	}
	return nil
}

// GetJSON fetches urlPath and decodes the JSON response into out when out is
// non-nil. It returns the response status code.
func (c *Client) GetJSON(ctx context.Context, urlPath string, out any) (int, error) {
	return c.doJSON(ctx, http.MethodGet, urlPath, nil, out)
}

// PostJSON sends body as JSON to urlPath and decodes the response into out
// when out is non-nil. It returns the response status code.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body, out any) (int, error) {
	return c.doJSON(ctx, http.MethodPost, urlPath, body, out)
}

// PutJSON sends body as JSON to urlPath with PUT semantics.
func (c *Client) PutJSON(ctx context.Context, urlPath string, body, out any) (int, error) {
	return c.doJSON(ctx, http.MethodPut, urlPath, body, out)
}

// Delete issues a DELETE to urlPath and returns the response status code.
func (c *Client) Delete(ctx context.Context, urlPath string) (int, error) {
	return c.doJSON(ctx, http.MethodDelete, urlPath, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, urlPath string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response body: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// GetDoc fetches an HTML endpoint and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+urlPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	return doc, nil
}
