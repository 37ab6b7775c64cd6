package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ImSingee/go-ex/ee"
)

const (
	DefaultAPIBase = "https://api.github.com"
	DefaultRawBase = "https://raw.githubusercontent.com"
	DefaultTimeout = 30 * time.Second
)

// Client talks to the GitHub REST API and the raw content host.
// It never retries, callers decide the retry policy.
type Client struct {
	APIBase   string
	RawBase   string
	Token     string
	UserAgent string
	HTTP      *http.Client
}

type Options struct {
	APIBase   string
	RawBase   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

func NewClient(o Options) *Client {
	if o.APIBase == "" {
		o.APIBase = DefaultAPIBase
	}
	if o.RawBase == "" {
		o.RawBase = DefaultRawBase
	}
	if o.UserAgent == "" {
		o.UserAgent = "repobox"
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}

	return &Client{
		APIBase:   strings.TrimRight(o.APIBase, "/"),
		RawBase:   strings.TrimRight(o.RawBase, "/"),
		Token:     o.Token,
		UserAgent: o.UserAgent,
		HTTP:      &http.Client{Timeout: o.Timeout},
	}
}

// get returns the body of a 2xx response, the status code is returned even on error (0 when no response)
func (c *Client) get(ctx context.Context, url string, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, ee.Wrapf(err, "cannot create request for %s", url)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	slog.Debug("GET", "url", url)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, ee.Wrapf(ErrNetwork, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, ee.Wrapf(ErrNetwork, "GET %s: cannot read body: %v", url, err)
	}

	if err := statusError(resp, url); err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

func statusError(resp *http.Response, url string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ee.Wrapf(ErrNotFound, "GET %s", url)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			return ee.Wrapf(ErrNetwork, "GET %s: GitHub API rate limit exceeded, set GITHUB_TOKEN to raise the limit", url)
		}
	}

	return ee.Wrapf(ErrNetwork, "GET %s: status code = %d", url, resp.StatusCode)
}

// SplitRepo splits "owner/name" and rejects anything else
func SplitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expect owner/name", repo)
	}

	return owner, name, nil
}
