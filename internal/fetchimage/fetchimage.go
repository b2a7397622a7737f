// Package fetchimage downloads prebuilt ZealFS OS images published as
// GitHub release assets, grounded on the go-github + oauth2 client
// construction distri's autobuilder uses to query commits
// (cmd/autobuilder/autobuilder.go).
package fetchimage

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v27/github"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"
)

// Client lists and downloads release assets from a single GitHub
// repository, e.g. "https://github.com/zeal8bit/zealfs-images".
type Client struct {
	owner, repo string
	gh          *github.Client
}

// New constructs a Client for repoURL. If token is non-empty, requests
// are authenticated, raising GitHub's unauthenticated rate limit.
func New(ctx context.Context, repoURL, token string) (*Client, error) {
	owner, repo, err := splitRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	return &Client{owner: owner, repo: repo, gh: github.NewClient(httpClient)}, nil
}

func splitRepoURL(repoURL string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimPrefix(repoURL, "https://github.com/"), "/")
	if len(parts) != 2 {
		return "", "", xerrors.Errorf("malformed GitHub repo URL %q", repoURL)
	}
	return parts[0], parts[1], nil
}

// Asset describes one downloadable release asset.
type Asset struct {
	Name        string
	DownloadURL string
	Size        int
}

// List returns the assets attached to the repository's latest
// release.
func (c *Client) List(ctx context.Context) ([]Asset, error) {
	release, _, err := c.gh.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return nil, xerrors.Errorf("GetLatestRelease: %w", err)
	}
	assets := make([]Asset, 0, len(release.Assets))
	for _, a := range release.Assets {
		assets = append(assets, Asset{
			Name:        a.GetName(),
			DownloadURL: a.GetBrowserDownloadURL(),
			Size:        a.GetSize(),
		})
	}
	return assets, nil
}

// Download fetches asset's contents.
func Download(ctx context.Context, asset Asset) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.DownloadURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("downloading %s: %w", asset.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, xerrors.Errorf("downloading %s: HTTP %s", asset.Name, resp.Status)
	}
	return resp.Body, nil
}
