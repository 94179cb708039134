// Package forge is a thin process-launching layer over the "gh" CLI.
// Every call blocks on a child process and must be routed through the
// async loader by the caller; nothing here spawns its own goroutines.
package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/harlangreen/timecop/internal/apperr"
)

const invocationTimeout = 30 * time.Second

// Adapter wraps gh CLI invocations in the repository at Dir. Availability
// is probed lazily and cached so a missing gh binary costs one failed
// exec.LookPath, not one per call.
type Adapter struct {
	Dir string

	mu        sync.Mutex
	available *bool
}

func New(dir string) *Adapter {
	return &Adapter{Dir: dir}
}

// Available reports whether the gh CLI is on PATH, probing once and
// caching the result for the lifetime of the adapter.
func (a *Adapter) Available() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.available != nil {
		return *a.available
	}
	_, err := exec.LookPath("gh")
	ok := err == nil
	a.available = &ok
	return ok
}

func (a *Adapter) run(ctx context.Context, args ...string) ([]byte, error) {
	if !a.Available() {
		return nil, apperr.New(apperr.ForgeUnavailable, "gh CLI not found on PATH")
	}
	ctx, cancel := context.WithTimeout(ctx, invocationTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = a.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, apperr.Wrap(apperr.ForgeTransient, "gh invocation timed out", ctx.Err())
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		return nil, apperr.Wrap(apperr.ForgeTransient, msg, err)
	}
	return stdout.Bytes(), nil
}

type ghAuthor struct {
	Login string `json:"login"`
}

type ghReviewRequest struct {
	Login string `json:"login"`
}

type ghPrListItem struct {
	Number         int               `json:"number"`
	Title          string            `json:"title"`
	Author         ghAuthor          `json:"author"`
	HeadRefName    string            `json:"headRefName"`
	CreatedAt      string            `json:"createdAt"`
	ReviewDecision string            `json:"reviewDecision"`
	ReviewRequests []ghReviewRequest `json:"reviewRequests"`
}

// ListOpenPRs lists open pull requests in the repository.
func (a *Adapter) ListOpenPRs(ctx context.Context) ([]PrSummary, error) {
	out, err := a.run(ctx, "pr", "list", "--state", "open", "--json",
		"number,title,author,headRefName,createdAt,reviewDecision,reviewRequests", "--limit", "50")
	if err != nil {
		return nil, err
	}
	var items []ghPrListItem
	if err := json.Unmarshal(out, &items); err != nil {
		return nil, apperr.Wrap(apperr.ForgeTransient, "parse pr list", err)
	}
	summaries := make([]PrSummary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, PrSummary{
			Number:         it.Number,
			Title:          it.Title,
			Author:         it.Author.Login,
			HeadRef:        it.HeadRefName,
			ReviewDecision: it.ReviewDecision,
			CreatedAt:      parseGHTime(it.CreatedAt),
		})
	}
	return summaries, nil
}

// GetPRForBranch resolves the PR (if any) whose head ref matches branch.
func (a *Adapter) GetPRForBranch(ctx context.Context, branch string) (*PrInfo, error) {
	out, err := a.run(ctx, "pr", "view", branch, "--json", "number,title,body,author,state,url,createdAt")
	if err != nil {
		if apperr.OfKind(err, apperr.ForgeTransient) {
			return nil, nil
		}
		return nil, err
	}
	return a.decodeAndEnrich(ctx, out)
}

// GetPRByNumber fetches full PR detail, reviews, and comments for n.
func (a *Adapter) GetPRByNumber(ctx context.Context, n int) (*PrInfo, error) {
	out, err := a.run(ctx, "pr", "view", strconv.Itoa(n), "--json", "number,title,body,author,state,url,createdAt")
	if err != nil {
		return nil, err
	}
	return a.decodeAndEnrich(ctx, out)
}

type ghPrDetail struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Author    ghAuthor `json:"author"`
	State     string   `json:"state"`
	URL       string   `json:"url"`
	CreatedAt string   `json:"createdAt"`
}

func (a *Adapter) decodeAndEnrich(ctx context.Context, out []byte) (*PrInfo, error) {
	var detail ghPrDetail
	if err := json.Unmarshal(out, &detail); err != nil {
		return nil, apperr.Wrap(apperr.ForgeTransient, "parse pr detail", err)
	}
	info := &PrInfo{
		Number:       detail.Number,
		Title:        detail.Title,
		Body:         detail.Body,
		Author:       detail.Author.Login,
		State:        detail.State,
		URL:          detail.URL,
		CreatedAt:    parseGHTime(detail.CreatedAt),
		FileComments: map[string][]LineComment{},
	}
	if reviews, err := a.reviews(ctx, detail.Number); err == nil {
		info.Reviews = reviews
	}
	if general, fileComments, err := a.comments(ctx, detail.Number); err == nil {
		info.GeneralComments = general
		info.FileComments = fileComments
	}
	return info, nil
}

type ghReviewsResponse struct {
	Reviews []struct {
		Author ghAuthor `json:"author"`
		State  string   `json:"state"`
		Body   string   `json:"body"`
	} `json:"reviews"`
}

func (a *Adapter) reviews(ctx context.Context, n int) ([]Review, error) {
	out, err := a.run(ctx, "pr", "view", strconv.Itoa(n), "--json", "reviews")
	if err != nil {
		return nil, err
	}
	var resp ghReviewsResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, apperr.Wrap(apperr.ForgeTransient, "parse reviews", err)
	}
	reviews := make([]Review, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		if r.State == "" && r.Body == "" {
			continue
		}
		reviews = append(reviews, Review{Author: r.Author.Login, State: r.State, Body: r.Body})
	}
	return reviews, nil
}

type ghRawComment struct {
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	Body string `json:"body"`
	Path string `json:"path"`
	Line int    `json:"line"`
	Side string `json:"side"`
}

// comments groups raw PR review-comment records into general comments
// (no path) and per-path line comments, preserving server order within
// each file — the grouping must be deterministic per §4.2.
func (a *Adapter) comments(ctx context.Context, n int) ([]GeneralComment, map[string][]LineComment, error) {
	out, err := a.run(ctx, "api", fmt.Sprintf("repos/{owner}/{repo}/pulls/%d/comments", n))
	if err != nil {
		return nil, nil, err
	}
	var raw []ghRawComment
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, nil, apperr.Wrap(apperr.ForgeTransient, "parse comments", err)
	}
	var general []GeneralComment
	byPath := map[string][]LineComment{}
	for _, c := range raw {
		if c.Path == "" {
			general = append(general, GeneralComment{Author: c.User.Login, Body: c.Body})
			continue
		}
		side := New
		if strings.EqualFold(c.Side, "LEFT") {
			side = Old
		}
		byPath[c.Path] = append(byPath[c.Path], LineComment{
			Author: c.User.Login,
			Body:   c.Body,
			Line:   c.Line,
			Side:   side,
		})
	}
	return general, byPath, nil
}

// Approve submits an approving review for PR n.
func (a *Adapter) Approve(ctx context.Context, n int) error {
	_, err := a.run(ctx, "pr", "review", strconv.Itoa(n), "--approve")
	return err
}

// RequestChanges submits a request-changes review with body for PR n.
func (a *Adapter) RequestChanges(ctx context.Context, n int, body string) error {
	_, err := a.run(ctx, "pr", "review", strconv.Itoa(n), "--request-changes", "-b", body)
	return err
}

// Comment submits a general review comment with body for PR n.
func (a *Adapter) Comment(ctx context.Context, n int, body string) error {
	_, err := a.run(ctx, "pr", "review", strconv.Itoa(n), "--comment", "-b", body)
	return err
}

// AddLineComment anchors body to (path, line, side) on PR n's latest
// commit. It always takes two steps: it first looks up the head commit
// SHA, then posts the comment with that SHA as commit_id.
func (a *Adapter) AddLineComment(ctx context.Context, n int, path string, line int, side Side, body string) error {
	sha, err := a.headSHA(ctx, n)
	if err != nil {
		return err
	}
	_, err = a.run(ctx, "api", fmt.Sprintf("repos/{owner}/{repo}/pulls/%d/comments", n),
		"-f", "body="+body,
		"-f", "path="+path,
		"-f", "commit_id="+sha,
		"-F", fmt.Sprintf("line=%d", line),
		"-f", "side="+side.String(),
	)
	return err
}

func (a *Adapter) headSHA(ctx context.Context, n int) (string, error) {
	out, err := a.run(ctx, "pr", "view", strconv.Itoa(n), "--json", "headRefOid", "-q", ".headRefOid")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CheckoutPR checks out PR n's head branch locally.
func (a *Adapter) CheckoutPR(ctx context.Context, n int) error {
	_, err := a.run(ctx, "pr", "checkout", strconv.Itoa(n))
	return err
}

// OpenInBrowser opens PR n in the user's default browser.
func (a *Adapter) OpenInBrowser(ctx context.Context, n int) error {
	_, err := a.run(ctx, "pr", "view", strconv.Itoa(n), "--web")
	return err
}

func parseGHTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}
