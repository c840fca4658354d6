package fileset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dirgraph/pkg/cache"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/httputil"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

const (
	defaultAPIURL  = "https://api.github.com"
	defaultRawURL  = "https://raw.githubusercontent.com"
	defaultWorkers = 8
)

// defaultRefs are tried in order when a Repo has no explicit ref.
var defaultRefs = []string{"main", "master"}

// Repo identifies a GitHub repository and an optional ref.
type Repo struct {
	Owner string
	Name  string
	Ref   string // branch, tag or commit; empty tries main then master
}

func (r Repo) String() string {
	s := r.Owner + "/" + r.Name
	if r.Ref != "" {
		s += "@" + r.Ref
	}
	return s
}

// ParseRepo parses "owner/repo", "owner/repo@ref" or a github.com URL
// (optionally with /tree/<ref>).
func ParseRepo(s string) (Repo, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "https://"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "http://"); ok {
		s = rest
	}
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(s, "/")

	var ref string
	if before, after, ok := strings.Cut(s, "@"); ok {
		s, ref = before, after
	}
	parts := strings.Split(s, "/")
	if len(parts) >= 4 && parts[2] == "tree" {
		ref = strings.Join(parts[3:], "/")
		parts = parts[:2]
	}
	if len(parts) != 2 {
		return Repo{}, errs.New(errs.ErrCodeInvalidRepo, "invalid repository %q: use owner/repo", s)
	}
	repo := Repo{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git"), Ref: ref}
	if err := errs.ValidateRepo(repo.Owner, repo.Name); err != nil {
		return Repo{}, err
	}
	return repo, nil
}

// GitHubClient loads FileSets from GitHub repositories using the git trees
// API for listing and raw.githubusercontent.com for content.
type GitHubClient struct {
	token      string
	httpClient *http.Client
	apiURL     string
	rawURL     string
	workers    int
	cache      cache.Cache
	keyer      cache.Keyer
}

// GitHubOption configures a GitHubClient.
type GitHubOption func(*GitHubClient)

// WithBaseURLs points the client at alternative API and raw-content hosts.
func WithBaseURLs(api, raw string) GitHubOption {
	return func(c *GitHubClient) {
		c.apiURL = strings.TrimSuffix(api, "/")
		c.rawURL = strings.TrimSuffix(raw, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) GitHubOption {
	return func(c *GitHubClient) { c.httpClient = hc }
}

// WithFetchWorkers bounds concurrent raw-content downloads.
func WithFetchWorkers(n int) GitHubOption {
	return func(c *GitHubClient) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCache keeps tree listings and file contents in c for cache.TTLHTTP,
// keyed by repository, ref and path.
func WithCache(c cache.Cache, keyer cache.Keyer) GitHubOption {
	return func(gc *GitHubClient) {
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		gc.cache, gc.keyer = c, keyer
	}
}

// NewGitHubClient creates a client. The token may be empty for public
// repositories, at the cost of a much lower rate limit.
func NewGitHubClient(token string, opts ...GitHubOption) *GitHubClient {
	c := &GitHubClient{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     defaultAPIURL,
		rawURL:     defaultRawURL,
		workers:    defaultWorkers,
		cache:      cache.NewNullCache(),
		keyer:      cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchGitHub loads a repository with a default client.
func FetchGitHub(ctx context.Context, repo Repo, limits Limits, token string) (FileSet, Stats, error) {
	return NewGitHubClient(token).Fetch(ctx, repo, limits)
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// Fetch lists the repository tree and downloads every selected text file.
// Without an explicit ref it tries main, then master. Files that vanish
// between listing and download are dropped.
func (c *GitHubClient) Fetch(ctx context.Context, repo Repo, limits Limits) (FileSet, Stats, error) {
	var stats Stats

	refs := defaultRefs
	if repo.Ref != "" {
		refs = []string{repo.Ref}
	}

	var (
		tree *treeResponse
		ref  string
	)
	for _, r := range refs {
		t, err := c.tree(ctx, repo, r)
		if httputil.StatusCode(err) == http.StatusNotFound {
			continue
		}
		if err != nil {
			return nil, stats, errs.Wrap(errs.ErrCodeNetwork, err, "list %s", repo)
		}
		tree, ref = t, r
		break
	}
	if tree == nil {
		return nil, stats, errs.New(errs.ErrCodeNotFound, "repository %s not found (tried %s)", repo, strings.Join(refs, ", "))
	}

	var found []entry
	for _, item := range tree.Tree {
		if item.Type == "blob" {
			found = append(found, entry{path: item.Path, size: item.Size})
		}
	}
	selected := selectEntries(found, limits, &stats)

	var (
		mu    sync.Mutex
		files = make(FileSet, len(selected))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, e := range selected {
		if limits.oversized(e.size) {
			mu.Lock()
			files[e.path] = ""
			stats.Oversized++
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			content, err := c.raw(gctx, repo, ref, e.path)
			mu.Lock()
			defer mu.Unlock()
			if httputil.StatusCode(err) == http.StatusNotFound {
				stats.Skipped++
				return nil
			}
			if err != nil {
				return err
			}
			files[e.path] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}
		return nil, stats, errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", repo)
	}
	stats.Files = len(files)
	return files, stats, nil
}

func (c *GitHubClient) tree(ctx context.Context, repo Repo, ref string) (*treeResponse, error) {
	key := c.keyer.HTTPKey("github-tree", repo.Owner+"/"+repo.Name+"@"+ref)
	var tree treeResponse
	if hit, _ := cache.GetJSON(ctx, c.cache, key, &tree); hit {
		return &tree, nil
	}

	u := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		c.apiURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(ref))

	err := c.get(ctx, u, true, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&tree)
	})
	if err != nil {
		return nil, err
	}
	_ = cache.SetJSON(ctx, c.cache, key, tree, cache.TTLHTTP)
	return &tree, nil
}

func (c *GitHubClient) raw(ctx context.Context, repo Repo, ref, p string) (string, error) {
	key := c.keyer.HTTPKey("github-raw", repo.Owner+"/"+repo.Name+"@"+ref+":"+p)
	if data, hit, _ := c.cache.Get(ctx, key); hit {
		return string(data), nil
	}

	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name),
		url.PathEscape(ref), strings.Join(segs, "/"))

	var content string
	err := c.get(ctx, u, false, func(body io.Reader) error {
		data, err := io.ReadAll(body)
		content = string(data)
		return err
	})
	if err != nil {
		return "", err
	}
	_ = c.cache.Set(ctx, key, []byte(content), cache.TTLHTTP)
	return content, nil
}

// get performs a GET with retry, reporting every attempt to the HTTP hooks.
func (c *GitHubClient) get(ctx context.Context, rawURL string, api bool, decode func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if api {
		req.Header.Set("Accept", "application/vnd.github.v3+json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	return httputil.RetryWithBackoff(ctx, func() error {
		hooks.OnRequest(ctx, req.Method, host, path)
		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			hooks.OnError(ctx, req.Method, host, path, err)
			return httputil.Retryable(fmt.Errorf("send request: %w", err))
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

		if err := httputil.CheckResponse(resp); err != nil {
			return err
		}
		return decode(resp.Body)
	})
}
