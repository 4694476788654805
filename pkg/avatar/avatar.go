// Package avatar resolves contributor e-mail addresses to avatar image URLs.
package avatar

import (
	"context"
	"crypto/md5" //nolint:gosec // Gravatar keys avatars by MD5.
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

const (
	// DefaultCacheSize bounds the number of cached lookups.
	DefaultCacheSize = 256
	// DefaultTimeout bounds a single GitHub lookup.
	DefaultTimeout = 5 * time.Second

	gravatarBase = "https://www.gravatar.com/avatar/"
)

// Config configures a Resolver.
type Config struct {
	// GitHub enables the GitHub user search. When false only Gravatar URLs
	// are produced and no network call is made.
	GitHub bool
	// Token authenticates GitHub requests. Optional.
	Token string
	// BaseURL overrides the GitHub API endpoint.
	BaseURL string
	// CacheSize defaults to DefaultCacheSize.
	CacheSize int
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient is used for GitHub requests when Token is empty.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Resolver looks up avatars, preferring a GitHub profile picture and falling
// back to a Gravatar identicon. It is safe for concurrent use.
type Resolver struct {
	client  *github.Client
	cache   *lru.Cache[string, string]
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolver builds a Resolver from cfg.
func NewResolver(cfg Config) (*Resolver, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("avatar cache: %w", err)
	}

	r := &Resolver{
		cache:   cache,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}

	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	if cfg.GitHub {
		r.client, err = newGitHubClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

func newGitHubClient(cfg Config) (*github.Client, error) {
	httpClient := cfg.HTTPClient
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}

		client.BaseURL = parsed
	}

	return client, nil
}

// GravatarURL returns the identicon URL for email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec // not used for security.

	return gravatarBase + hex.EncodeToString(sum[:]) + "?d=identicon&s=150"
}

// Resolve returns the avatar URL for email. GitHub failures of any kind,
// including rate limiting, silently fall back to Gravatar.
func (r *Resolver) Resolve(ctx context.Context, email string) string {
	key := strings.ToLower(strings.TrimSpace(email))

	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	avatarURL := GravatarURL(key)

	if r.client != nil && key != "" {
		if found, ok := r.lookupGitHub(ctx, key); ok {
			avatarURL = found
		}
	}

	r.cache.Add(key, avatarURL)

	return avatarURL
}

func (r *Resolver) lookupGitHub(ctx context.Context, email string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, _, err := r.client.Search.Users(ctx, email, &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}})
	if err != nil {
		r.logger.Debug("github avatar lookup failed", "email", email, "error", err)

		return "", false
	}

	if len(result.Users) == 0 || result.Users[0].GetAvatarURL() == "" {
		return "", false
	}

	return result.Users[0].GetAvatarURL(), true
}

// Apply fills the Avatar field of every contributor in report.
func (r *Resolver) Apply(ctx context.Context, report *pulse.PulseReport) {
	for i := range report.Contributors {
		report.Contributors[i].Avatar = r.Resolve(ctx, report.Contributors[i].Email)
	}
}
