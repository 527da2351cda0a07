// Package remote drives a running menu admin API over HTTP. It implements the
// bulk engine ports so a workbook can be imported from outside the server.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/pkg/httpclient"
	"github.com/mahmoud22020/Pvdmenus/pkg/pagination"
)

const serviceName = "menu-admin"

// listPageSize is the per_page used when paging through items.
const listPageSize = 500

// Client talks to the admin API at baseURL.
type Client struct {
	doer    httpclient.Doer
	baseURL string
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a client. doer is usually a CircuitBreakerClient around an
// httpclient.Client.
func New(doer httpclient.Doer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	var out envelope[struct {
		Token string            `json:"token"`
		User  *domain.AdminUser `json:"user"`
	}]
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", loginRequest{username, password}, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.SetToken(out.Data.Token)
	c.logger.DebugContext(ctx, "logged in to admin api", slog.String("username", username))
	return out.Data.User, nil
}

// Venue returns a client scoped to one venue's routes.
func (c *Client) Venue(v domain.Venue) *VenueClient {
	return &VenueClient{c: c, venue: v, prefix: "/api/v1/venues/" + url.PathEscape(v.String())}
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	req, err := httpclient.NewJSONRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()
	return httpclient.DoJSON(ctx, c.doer, req, serviceName, dst)
}

// VenueClient implements the bulk stores for one venue.
type VenueClient struct {
	c      *Client
	venue  domain.Venue
	prefix string
}

// Ports returns the bulk ports backed by this client. translator may be nil.
func (v *VenueClient) Ports(translator bulk.Translator) bulk.Ports {
	return bulk.Ports{Categories: v, Items: v, DayPricing: v, Translations: v, Translator: translator}
}

// ListCategories returns every category of the venue.
func (v *VenueClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out envelope[[]domain.Category]
	if err := v.c.do(ctx, http.MethodGet, v.prefix+"/categories", nil, &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out.Data, nil
}

// ListItems pages through every item of the venue.
func (v *VenueClient) ListItems(ctx context.Context) ([]domain.Item, error) {
	var all []domain.Item
	for page := 1; ; page++ {
		var out pagination.Result[domain.Item]
		path := fmt.Sprintf("%s/items?page=%d&per_page=%d", v.prefix, page, listPageSize)
		if err := v.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		all = append(all, out.Data...)
		if !out.HasNext {
			return all, nil
		}
	}
}

func (v *VenueClient) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	var out envelope[*domain.Category]
	if err := v.c.do(ctx, http.MethodPost, v.prefix+"/categories", in, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (v *VenueClient) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	var out envelope[*domain.Category]
	if err := v.c.do(ctx, http.MethodPut, fmt.Sprintf("%s/categories/%d", v.prefix, id), in, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (v *VenueClient) DeleteCategory(ctx context.Context, id int64) error {
	return v.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/categories/%d", v.prefix, id), nil, nil)
}

func (v *VenueClient) CreateItem(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	var out envelope[*domain.Item]
	if err := v.c.do(ctx, http.MethodPost, v.prefix+"/items", in, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (v *VenueClient) UpdateItem(ctx context.Context, id int64, in domain.ItemInput) (*domain.Item, error) {
	var out envelope[*domain.Item]
	if err := v.c.do(ctx, http.MethodPut, fmt.Sprintf("%s/items/%d", v.prefix, id), in, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (v *VenueClient) DeleteItem(ctx context.Context, id int64) error {
	return v.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/items/%d", v.prefix, id), nil, nil)
}

// DayPricingRequest is the body of PUT /day-pricing/{itemId}.
type DayPricingRequest struct {
	DayPricing []domain.DayPricingEntry `json:"dayPricing"`
}

func (v *VenueClient) PutSchedule(ctx context.Context, itemID int64, entries []domain.DayPricingEntry) error {
	return v.c.do(ctx, http.MethodPut, fmt.Sprintf("%s/day-pricing/%d", v.prefix, itemID), DayPricingRequest{entries}, nil)
}

// CategoryTranslationRequest is the body of PUT /translations/categories.
type CategoryTranslationRequest struct {
	CategoryID   int64  `json:"category_id"`
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
}

// ItemTranslationRequest is the body of PUT /translations/items.
type ItemTranslationRequest struct {
	ItemID       int64   `json:"item_id"`
	LanguageCode string  `json:"language_code"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
}

func (v *VenueClient) UpsertTranslation(ctx context.Context, t domain.Translation) error {
	switch t.Kind {
	case domain.KindCategory:
		body := CategoryTranslationRequest{CategoryID: t.EntityID, LanguageCode: t.LanguageCode, Name: t.Name}
		return v.c.do(ctx, http.MethodPut, v.prefix+"/translations/categories", body, nil)
	case domain.KindItem:
		body := ItemTranslationRequest{ItemID: t.EntityID, LanguageCode: t.LanguageCode, Name: t.Name, Description: t.Description}
		return v.c.do(ctx, http.MethodPut, v.prefix+"/translations/items", body, nil)
	}
	return fmt.Errorf("unknown translation kind %q", t.Kind)
}
