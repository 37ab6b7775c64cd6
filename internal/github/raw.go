package github

import (
	"context"
	"net/url"
	"strings"

	"github.com/ImSingee/go-ex/mr"
)

// RawURL returns the raw content url of file p in repo at branch
func (c *Client) RawURL(repo, branch, p string) string {
	segments := mr.Map(strings.Split(strings.TrimLeft(p, "/"), "/"), func(s string, _index int) string {
		return url.PathEscape(s)
	})

	return c.RawBase + "/" + repo + "/" + url.PathEscape(branch) + "/" + strings.Join(segments, "/")
}

// Fetch downloads the raw content of one file
func (c *Client) Fetch(ctx context.Context, repo, branch, p string) ([]byte, error) {
	if _, _, err := SplitRepo(repo); err != nil {
		return nil, err
	}

	body, _, err := c.get(ctx, c.RawURL(repo, branch, p), "")
	return body, err
}
