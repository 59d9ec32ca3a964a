// Package reddit is a thin client for the Reddit JSON API: a user's recent
// comments plus on-demand lookup of the items they replied to. Public
// endpoints are used by default; configuring script-app credentials switches
// to the OAuth host with an application-only token.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fialovy/redditpersona/internal/character"
	"github.com/fialovy/redditpersona/internal/config"
	"go.uber.org/zap"
)

const (
	publicBase = "https://www.reddit.com"
	oauthBase  = "https://oauth.reddit.com"
	tokenPath  = "/api/v1/access_token"

	defaultUserAgent = "redditpersona/0.1 (character definition generator)"

	// Reddit caps listing pages at 100 items.
	pageSize = 100
)

var (
	// ErrNotFound: the requested item does not exist or is not visible.
	ErrNotFound = errors.New("reddit: item not found")
	// ErrUserNotFound: the user does not exist, is suspended, or is shadowed.
	ErrUserNotFound = errors.New("reddit: user not found")
)

// Client talks to the Reddit JSON API.
type Client struct {
	http      *http.Client
	base      string // listing/info host
	tokenBase string // token host, split out for tests
	userAgent string

	clientID     string
	clientSecret string

	token    string
	tokenExp time.Time

	log *zap.Logger
}

// New creates a Client from config. Without credentials the public JSON
// endpoints are used, which is fine for modest limits.
func New(cfg config.RedditConfig, log *zap.Logger) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	base := publicBase
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		base = oauthBase
	}
	return &Client{
		http:         &http.Client{Timeout: 30 * time.Second},
		base:         base,
		tokenBase:    publicBase,
		userAgent:    ua,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		log:          log,
	}
}

// UserComments fetches up to limit of the user's most recent comments,
// newest first, following listing pagination as needed.
func (c *Client) UserComments(ctx context.Context, username string, limit int) ([]character.RawItem, error) {
	if limit <= 0 {
		limit = pageSize
	}

	var items []character.RawItem
	after := ""
	for len(items) < limit {
		page := limit - len(items)
		if page > pageSize {
			page = pageSize
		}

		q := url.Values{}
		q.Set("limit", strconv.Itoa(page))
		q.Set("sort", "new")
		q.Set("raw_json", "1")
		if after != "" {
			q.Set("after", after)
		}

		body, err := c.get(ctx, "/user/"+url.PathEscape(username)+"/comments.json", q)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: u/%s", ErrUserNotFound, username)
		}
		if err != nil {
			return nil, fmt.Errorf("fetch comments for u/%s: %w", username, err)
		}

		l, err := parseListing(body)
		if err != nil {
			return nil, fmt.Errorf("decode comments listing: %w", err)
		}

		for _, t := range l.Data.Children {
			if item, ok := t.rawItem(); ok {
				items = append(items, item)
			}
		}

		if l.Data.After == "" || len(l.Data.Children) == 0 {
			break
		}
		after = l.Data.After
	}

	c.log.Debug("fetched user comments",
		zap.String("username", username),
		zap.Int("count", len(items)))
	return items, nil
}

// Info looks up a single item by fullname (t1_/t3_). Returns ErrNotFound for
// unknown fullnames.
func (c *Client) Info(ctx context.Context, fullname string) (*character.RawItem, error) {
	q := url.Values{}
	q.Set("id", fullname)
	q.Set("raw_json", "1")

	body, err := c.get(ctx, "/api/info.json", q)
	if err != nil {
		return nil, fmt.Errorf("info %s: %w", fullname, err)
	}

	l, err := parseListing(body)
	if err != nil {
		return nil, fmt.Errorf("decode info listing: %w", err)
	}
	if len(l.Data.Children) == 0 {
		return nil, fmt.Errorf("info %s: %w", fullname, ErrNotFound)
	}

	item, ok := l.Data.Children[0].rawItem()
	if !ok {
		return nil, fmt.Errorf("info %s: %w", fullname, ErrNotFound)
	}
	return &item, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	if c.clientID != "" && c.clientSecret != "" {
		token, err := c.accessToken(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("reddit api status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

// accessToken returns a cached application-only token, fetching a fresh one
// when missing or within a minute of expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Until(c.tokenExp) > time.Minute {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenBase+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token status %d: %s", resp.StatusCode, body)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	c.log.Debug("obtained app-only token", zap.Time("expires", c.tokenExp))
	return c.token, nil
}
