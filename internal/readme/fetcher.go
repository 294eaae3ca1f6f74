// Package readme derives and fetches a linked repository's README file,
// rendered as HTML. The whole package is best-effort: every failure mode
// collapses to "no README", never to an error the caller has to handle.
package readme

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// Content is a fetched README rendered as HTML, paired with the
// repository URL it was derived from.
type Content struct {
	Source string
	HTML   template.HTML
}

// hostKind tags the hosting conventions the fetcher understands. Host
// classification is a tagged dispatch over these so the branch policy
// stays in one place.
type hostKind int

const (
	hostUnknown hostKind = iota
	hostGitHub
	hostForgejo
)

// classifyHost maps a URL host to a hosting convention by substring
// match: anything containing "github" follows the GitHub raw-content
// convention, anything containing "forgejo" or "gitea" follows the
// Forgejo/Gitea one.
func classifyHost(host string) hostKind {
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "github"):
		return hostGitHub
	case strings.Contains(host, "forgejo"), strings.Contains(host, "gitea"):
		return hostForgejo
	default:
		return hostUnknown
	}
}

// rawReadmeURL derives the raw-content URL of a repository's README.md
// from its web URL. The second return value is false when no URL can be
// derived: missing scheme, unknown host, or fewer than owner+repo path
// segments. No network access happens here.
func rawReadmeURL(repoURL string) (string, bool) {
	parsed, err := url.Parse(repoURL)
	if err != nil || parsed.Scheme == "" {
		return "", false
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return "", false
	}
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", false
	}
	owner, repo, rest := parts[0], parts[1], parts[2:]

	switch classifyHost(parsed.Host) {
	case hostGitHub:
		// Browser URLs may carry /blob/<branch> or /tree/<branch> after
		// the repo; a bare extra segment is taken as the branch itself.
		branch := "main"
		if len(rest) > 0 {
			if rest[0] == "blob" || rest[0] == "tree" {
				if len(rest) > 1 {
					branch = rest[1]
				}
			} else {
				branch = rest[0]
			}
		}
		return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/README.md", owner, repo, branch), true

	case hostForgejo:
		// Forgejo/Gitea serves raw files from the instance itself, so the
		// derived URL keeps the input's scheme and host.
		branch := "main"
		if len(rest) > 0 {
			branch = rest[len(rest)-1]
		}
		return fmt.Sprintf("%s://%s/%s/%s/raw/%s/README.md", parsed.Scheme, parsed.Host, owner, repo, branch), true

	default:
		return "", false
	}
}

// Fetcher retrieves READMEs over HTTP with a hard time bound per fetch.
type Fetcher struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewFetcher creates a Fetcher whose network calls are bounded by the
// given timeout. A zero or negative timeout falls back to 5 seconds.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Fetch derives the raw README URL for repoURL, fetches it and renders
// the markdown as HTML. It returns nil for anything that prevents that:
// underivable URL, transport failure, timeout, non-200 response, or a
// markdown conversion error. It never returns an error; failures are only
// logged.
func (f *Fetcher) Fetch(ctx context.Context, repoURL string) *Content {
	rawURL, ok := rawReadmeURL(repoURL)
	if !ok {
		return nil
	}
	return f.fetchRendered(ctx, rawURL, repoURL)
}

// fetchRendered performs the single time-bounded fetch of a raw README
// URL and renders the body as HTML. Nil on any failure.
func (f *Fetcher) fetchRendered(ctx context.Context, rawURL, source string) *Content {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Printf("[README] Error creating request for '%s': %v", rawURL, err)
		return nil
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Printf("[README] Error fetching '%s': %v", rawURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[README] Fetch of '%s' returned status %d", rawURL, resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[README] Error reading body from '%s': %v", rawURL, err)
		return nil
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(body, &buf); err != nil {
		log.Printf("[README] Error rendering markdown from '%s': %v", rawURL, err)
		return nil
	}

	return &Content{
		Source: source,
		HTML:   template.HTML(buf.String()),
	}
}
