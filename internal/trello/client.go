package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
)

const (
	DefaultBaseURL = "https://api.trello.com/1/"
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrUnauthorized means the token is missing or Trello rejected it.
	ErrUnauthorized = errors.New("trello: not authorized")
	// ErrServiceUnreachable covers network failures, timeouts, unexpected
	// statuses and answers that cannot be decoded.
	ErrServiceUnreachable = errors.New("trello: not accessible")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	creds      *Credentials
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func New(creds *Credentials, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		creds:      creds,
		log:        logger.Default().WithPrefix("trello"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log.Debug("client configured: base_url=%s, timeout=%v", c.baseURL, c.timeout)
	return c
}

type cardResp struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	IDList string `json:"idList"`
}

type listResp struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	IDBoard string     `json:"idBoard"`
	Cards   []cardResp `json:"cards"`
}

type boardResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Prefs struct {
		BackgroundColor string `json:"backgroundColor"`
		BackgroundImage string `json:"backgroundImage"`
	} `json:"prefs"`
}

type memberResp struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type boardOptions struct {
	Fields string `url:"fields,omitempty"`
	Filter string `url:"filter,omitempty"`
}

type listOptions struct {
	Cards      string `url:"cards,omitempty"`
	CardFields string `url:"card_fields,omitempty"`
}

type moveOptions struct {
	Value string `url:"value"`
}

var openCards = listOptions{Cards: "open", CardFields: "name,desc"}

// ValidateToken checks the stored token against members/me. A rejected
// token is reported as false without an error.
func (c *Client) ValidateToken(ctx context.Context) (bool, error) {
	var me memberResp
	err := c.do(ctx, http.MethodGet, "members/me", nil, &me)
	if errors.Is(err, ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).WithPrefix("trello").Debug("token belongs to %s", me.Username)
	return true, nil
}

// Boards lists the open boards of the authorized member.
func (c *Client) Boards(ctx context.Context) ([]models.Board, error) {
	var out []boardResp
	opts := boardOptions{Fields: "name,prefs", Filter: "open"}
	if err := c.do(ctx, http.MethodGet, "members/me/boards", opts, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: boards answer was null", ErrServiceUnreachable)
	}

	boards := make([]models.Board, 0, len(out))
	for _, b := range out {
		boards = append(boards, models.Board{
			ID:    b.ID,
			Name:  b.Name,
			Color: BoardColor(b.Prefs.BackgroundColor, b.Prefs.BackgroundImage),
		})
	}
	logger.FromContext(ctx).WithPrefix("trello").Info("fetched %d boards", len(boards))
	return boards, nil
}

// BoardLists returns the open lists of a board with their open cards.
func (c *Client) BoardLists(ctx context.Context, boardID string) ([]models.CardList, error) {
	var out []listResp
	path := "boards/" + url.PathEscape(boardID) + "/lists"
	if err := c.do(ctx, http.MethodGet, path, openCards, &out); err != nil {
		return nil, err
	}

	lists := make([]models.CardList, 0, len(out))
	for _, l := range out {
		lists = append(lists, toCardList(l, boardID))
	}
	logger.FromContext(ctx).WithPrefix("trello").Info("fetched %d lists for board %s", len(lists), boardID)
	return lists, nil
}

// List fetches a single list with its open cards in board order.
func (c *Client) List(ctx context.Context, listID string) (*models.CardList, error) {
	var out *listResp
	if err := c.do(ctx, http.MethodGet, "lists/"+url.PathEscape(listID), openCards, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: list answer was null", ErrServiceUnreachable)
	}

	list := toCardList(*out, "")
	if !list.Equal(models.CardList{ID: listID}) {
		return nil, fmt.Errorf("%w: asked for list %s, got %q", ErrServiceUnreachable, listID, list.ID)
	}
	logger.FromContext(ctx).WithPrefix("trello").Info("fetched list %s with %d cards", list.ID, len(list.Cards))
	return &list, nil
}

// MoveCard puts a card into another list. It does not touch any CardList
// value already held by the caller.
func (c *Client) MoveCard(ctx context.Context, cardID, listID string) error {
	var out *cardResp
	path := "cards/" + url.PathEscape(cardID) + "/idList"
	if err := c.do(ctx, http.MethodPut, path, moveOptions{Value: listID}, &out); err != nil {
		return err
	}
	if out == nil {
		return fmt.Errorf("%w: move answer was null", ErrServiceUnreachable)
	}
	return nil
}

func (c *Client) buildURL(path string, opts any) (string, error) {
	params := url.Values{}
	if opts != nil {
		v, err := query.Values(opts)
		if err != nil {
			return "", err
		}
		params = v
	}
	params.Set("key", c.creds.AppKey())
	params.Set("token", c.creds.Token())
	return c.baseURL + path + "?" + params.Encode(), nil
}

func (c *Client) do(ctx context.Context, method, path string, opts any, out any) error {
	log := logger.FromContext(ctx).WithPrefix("trello").WithFields(map[string]any{
		"method": method,
		"path":   path,
	})

	if c.creds == nil || !c.creds.HasToken() {
		log.Debug("no token stored, skipping request")
		return fmt.Errorf("%w: no token stored", ErrUnauthorized)
	}

	u, err := c.buildURL(path, opts)
	if err != nil {
		log.Error("failed to encode query: %v", err)
		return fmt.Errorf("trello: encode query for %s: %w", path, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, u, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return fmt.Errorf("trello: build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("sending request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			log.Debug("request cancelled by caller")
			return fmt.Errorf("trello %s %s: %w", method, path, context.Canceled)
		}
		log.Warn("request failed after %v: %v", time.Since(start), err)
		return fmt.Errorf("%w: %s %s: %v", ErrServiceUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if resp.StatusCode == http.StatusUnauthorized ||
			(resp.StatusCode == http.StatusBadRequest && unauthorizedBody(string(body))) {
			log.Warn("trello rejected credentials: status=%d, body=%s", resp.StatusCode, string(body))
			return fmt.Errorf("%w: status %d: %s", ErrUnauthorized, resp.StatusCode, string(body))
		}
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return fmt.Errorf("%w: status %d: %s", ErrServiceUnreachable, resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("trello %s %s: %w", method, path, context.Canceled)
		}
		log.Error("failed to decode response: %v", err)
		return fmt.Errorf("%w: answer was not valid JSON: %v", ErrServiceUnreachable, err)
	}
	return nil
}
