package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/mr"
	"github.com/ysmood/gson"
)

const (
	TypeBlob   = "blob"
	TypeTree   = "tree"
	TypeCommit = "commit"
)

// TreeEntry is one node of a recursive git tree listing
type TreeEntry struct {
	Path string
	Type string
	Sha  string
	Size int64
}

// Tree returns every node of the recursive tree of repo at branch, in listing order
func (c *Client) Tree(ctx context.Context, repo, branch string) ([]TreeEntry, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.APIBase, url.PathEscape(owner), url.PathEscape(name), url.PathEscape(branch))

	body, status, err := c.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		// unknown refs are answered with 422 instead of 404
		if status == http.StatusUnprocessableEntity {
			return nil, ee.Wrapf(ErrNotFound, "branch %s of %s", branch, repo)
		}
		return nil, err
	}

	doc := gson.New(body)
	if !doc.Has("tree") {
		return nil, ee.Wrapf(ErrNetwork, "unexpected tree response for %s@%s", repo, branch)
	}
	if doc.Get("truncated").Bool() {
		slog.Warn("tree listing is truncated, some files will be missing", "repo", repo, "branch", branch)
	}

	return mr.Map(doc.Get("tree").Arr(), func(node gson.JSON, _index int) TreeEntry {
		return TreeEntry{
			Path: str(node, "path"),
			Type: str(node, "type"),
			Sha:  str(node, "sha"),
			Size: int64(node.Get("size").Int()),
		}
	}), nil
}

// ListFiles returns only the blob entries of the recursive tree, in listing order
func (c *Client) ListFiles(ctx context.Context, repo, branch string) ([]TreeEntry, error) {
	all, err := c.Tree(ctx, repo, branch)
	if err != nil {
		return nil, err
	}

	return mr.Filter(all, func(e TreeEntry, _index int) bool {
		return e.Type == TypeBlob
	}), nil
}

func str(j gson.JSON, key string) string {
	v, ok := j.Get(key).Val().(string)
	if !ok {
		return ""
	}
	return v
}
