package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://bible-api.com"
	DefaultTranslation = "web"
	DefaultTimeout     = 10 * time.Second

	// FallbackTranslation is shown when the service omits translation_name.
	FallbackTranslation = "WEB"
)

var (
	ErrLookupFailed = errors.New("lookup failed")
	ErrNotFound     = errors.New("verse not found")
)

// LookupError describes a failed request to the verse service.
type LookupError struct {
	Op     string
	Query  string
	Status int
	Err    error
}

func (e *LookupError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Query != "" {
		fmt.Fprintf(&sb, " %q", e.Query)
	}
	if e.Status != 0 {
		fmt.Fprintf(&sb, ": API returned status %d", e.Status)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is makes every LookupError match ErrLookupFailed, and 404s match ErrNotFound.
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrLookupFailed:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Passage is a verse as returned by the service.
type Passage struct {
	Reference   string
	Text        string
	Translation string
}

type passageResponse struct {
	Reference       string `json:"reference"`
	Text            string `json:"text"`
	TranslationName string `json:"translation_name,omitempty"`
	Error           string `json:"error,omitempty"`
}

type randomResponse struct {
	passageResponse
	Translation *struct {
		Name string `json:"name"`
	} `json:"translation,omitempty"`
	RandomVerse *struct {
		Book    string `json:"book"`
		Chapter int    `json:"chapter"`
		Verse   int    `json:"verse"`
		Text    string `json:"text"`
	} `json:"random_verse,omitempty"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger

	mu          sync.RWMutex
	translation string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithTranslation(id string) Option {
	return func(c *Client) { c.translation = strings.ToLower(strings.TrimSpace(id)) }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		baseURL:     DefaultBaseURL,
		translation: DefaultTranslation,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translation returns the translation id sent with lookups.
func (c *Client) Translation() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.translation
}

// SetTranslation changes the translation used by subsequent lookups.
func (c *Client) SetTranslation(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	WithTranslation(id)(c)
}

// Translations lists the translation ids the service serves.
func Translations() []string {
	return []string{"web", "kjv", "asv", "bbe", "darby", "ylt"}
}

// FetchByReference looks up a reference such as "John 3:16".
func (c *Client) FetchByReference(ctx context.Context, query string) (*Passage, error) {
	const op = "fetch reference"

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(query))
	if translation := c.Translation(); translation != "" && translation != DefaultTranslation {
		params := url.Values{}
		params.Set("translation", translation)
		endpoint += "?" + params.Encode()
	}

	var body passageResponse
	if err := c.get(ctx, op, query, endpoint, &body); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(body.Text)
	if body.Reference == "" || text == "" {
		return nil, &LookupError{Op: op, Query: query, Err: errors.New("malformed response body")}
	}

	translation := body.TranslationName
	if translation == "" {
		translation = FallbackTranslation
	}
	return &Passage{Reference: body.Reference, Text: text, Translation: translation}, nil
}

// FetchRandom returns a random verse from the current translation.
func (c *Client) FetchRandom(ctx context.Context) (*Passage, error) {
	const op = "fetch random"

	translation := c.Translation()
	if translation == "" {
		translation = DefaultTranslation
	}
	endpoint := fmt.Sprintf("%s/data/%s/random", c.baseURL, url.PathEscape(translation))

	var body randomResponse
	if err := c.get(ctx, op, "", endpoint, &body); err != nil {
		return nil, err
	}

	p := &Passage{
		Reference:   body.Reference,
		Text:        strings.TrimSpace(body.Text),
		Translation: FallbackTranslation,
	}
	if rv := body.RandomVerse; rv != nil {
		p.Reference = fmt.Sprintf("%s %d:%d", rv.Book, rv.Chapter, rv.Verse)
		p.Text = strings.TrimSpace(rv.Text)
	}
	if body.TranslationName != "" {
		p.Translation = body.TranslationName
	} else if body.Translation != nil && body.Translation.Name != "" {
		p.Translation = body.Translation.Name
	}

	if p.Reference == "" || p.Text == "" {
		return nil, &LookupError{Op: op, Err: errors.New("malformed response body")}
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, op, query, endpoint string, out any) error {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("request_id", requestID), zap.String("op", op))
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &LookupError{Op: op, Query: query, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("lookup request failed", zap.Error(err))
		return &LookupError{Op: op, Query: query, Err: err}
	}
	defer resp.Body.Close()

	log.Debug("lookup response",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var apiErr passageResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return &LookupError{Op: op, Query: query, Status: resp.StatusCode, Err: errors.New(apiErr.Error)}
		}
		return &LookupError{Op: op, Query: query, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &LookupError{Op: op, Query: query, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
