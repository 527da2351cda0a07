package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahmoud22020/Pvdmenus/internal/auth"
	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/config"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/event"
	"github.com/mahmoud22020/Pvdmenus/internal/repository/memory"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/internal/sheet"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
	"github.com/mahmoud22020/Pvdmenus/pkg/health"
	pkgkafka "github.com/mahmoud22020/Pvdmenus/pkg/kafka"
)

// =============================================================================
// Test doubles
// =============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.AdminUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type echoTranslator struct{}

func (echoTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	return lang + ":" + text, nil
}

// =============================================================================
// Helpers
// =============================================================================

type testServer struct {
	handler http.Handler
	store   *memory.Store
	users   *mockUserRepo
	jwt     *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	users := new(mockUserRepo)
	jwt := auth.NewJWTManager("test-secret-test-secret-test-secret", time.Hour)
	producer := event.NewProducer(pkgkafka.NopPublisher{}, logger)
	languages := []string{"ar", "ru"}

	menu := service.NewMenuService(store.Categories(), store.Items(), producer, logger)
	dayPricing := service.NewDayPricingService(store.Items(), store.DayPricing(), logger)
	translations := service.NewTranslationService(store.Translations(), store.Categories(), store.Items(),
		echoTranslator{}, languages, 0, logger)
	bulkSvc := service.NewBulkService(menu, dayPricing, store.Translations(), nil, producer,
		bulk.Config{Languages: languages}, logger)

	cfg := &config.Config{
		LoginRateRPS:       100,
		LoginRateBurst:     100,
		BulkMaxUploadMB:    1,
		CORSAllowedOrigins: []string{"*"},
	}
	svc := Services{
		Auth:         service.NewAuthService(users, jwt, logger),
		Menu:         menu,
		DayPricing:   dayPricing,
		Translations: translations,
		Bulk:         bulkSvc,
	}
	return &testServer{
		handler: NewRouter(svc, jwt, cfg, health.NewHandler(), logger),
		store:   store,
		users:   users,
		jwt:     jwt,
	}
}

func (s *testServer) token(t *testing.T, role string, venues ...string) string {
	t.Helper()
	tok, err := s.jwt.Generate(&domain.AdminUser{ID: 7, Username: "someone", Role: role, Venues: venues})
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func (s *testServer) seed(t *testing.T) (domain.Category, domain.Item) {
	t.Helper()
	price := 40.0
	s.store.Seed(
		[]domain.Category{{ID: 1, Venue: domain.VenueMosaico, Name: "Drinks", IsVisible: true}},
		[]domain.Item{{ID: 10, Venue: domain.VenueMosaico, CategoryID: 1, Name: "Tea", Price: &price, CurrencySymbol: "AED", IsAvailable: true}},
	)
	c, err := s.store.Categories().GetByID(context.Background(), domain.VenueMosaico, 1)
	require.NoError(t, err)
	i, err := s.store.Items().GetByID(context.Background(), domain.VenueMosaico, 10)
	require.NoError(t, err)
	return *c, *i
}

// =============================================================================
// Auth and access
// =============================================================================

func TestLogin_Success(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	s.users.On("GetByUsername", mock.Anything, "manager").Return(&domain.AdminUser{
		ID: 3, Username: "manager", PasswordHash: string(hash), Role: "manager",
		Venues: []string{"mosaico"}, IsActive: true,
	}, nil)
	s.users.On("TouchLastLogin", mock.Anything, int64(3), mock.Anything).Return(nil)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "manager", Password: "secret"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res service.LoginResult
	decode(t, rec, &res)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "manager", res.User.Username)

	claims, err := s.jwt.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"mosaico"}, claims.Venues)
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetByUsername", mock.Anything, "ghost").Return(nil, apperrors.NotFound("user", "ghost"))

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "ghost", Password: "x"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid username or password", env.Error.Message)
}

func TestVenueRoutes_Access(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/api/v1/venues/mosaico/categories", "", http.StatusUnauthorized},
		{"garbage token", "/api/v1/venues/mosaico/categories", "not-a-jwt", http.StatusUnauthorized},
		{"other venue", "/api/v1/venues/mosaico/categories", s.token(t, "manager", "hikayat"), http.StatusForbidden},
		{"own venue", "/api/v1/venues/mosaico/categories", s.token(t, "manager", "mosaico"), http.StatusOK},
		{"admin", "/api/v1/venues/hikayat/categories", s.token(t, "admin"), http.StatusOK},
		{"unknown venue", "/api/v1/venues/atlantis/categories", s.token(t, "admin"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)

	s.do(t, http.MethodGet, "/health/live", "", nil)
	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

// =============================================================================
// Categories and items
// =============================================================================

func TestCategoryLifecycle(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "manager", "mosaico")
	base := "/api/v1/venues/mosaico/categories"

	rec := s.do(t, http.MethodPost, base, tok, domain.CategoryInput{Name: "Mains", IsVisible: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var root domain.Category
	decode(t, rec, &root)

	rec = s.do(t, http.MethodPost, base, tok, domain.CategoryInput{Name: "Grill", ParentID: &root.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var child domain.Category
	decode(t, rec, &child)

	rec = s.do(t, http.MethodGet, base+"?tree=true", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree []*domain.Category
	decode(t, rec, &tree)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Grill", tree[0].Children[0].Name)

	rec = s.do(t, http.MethodPut, base+"/"+itoa(child.ID), tok, domain.CategoryInput{Name: "Charcoal Grill", ParentID: &root.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, base+"/"+itoa(root.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/"+itoa(root.ID), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCategory_Rejects(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "admin")
	path := "/api/v1/venues/mosaico/categories"

	rec := s.do(t, http.MethodPost, path, tok, domain.CategoryInput{Name: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "Name")

	missing := int64(999)
	rec = s.do(t, http.MethodPost, path, tok, domain.CategoryInput{Name: "Orphan", ParentID: &missing})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env = decode(t, rec, nil)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+tok)
	raw := httptest.NewRecorder()
	s.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestListItems_Paged(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)
	tok := s.token(t, "admin")

	rec := s.do(t, http.MethodGet, "/api/v1/venues/mosaico/items?category_id=1&per_page=10", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page struct {
		Data       []domain.Item `json:"data"`
		TotalCount int           `json:"total_count"`
		HasNext    bool          `json:"has_next"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Tea", page.Data[0].Name)
	assert.Equal(t, 1, page.TotalCount)
	assert.False(t, page.HasNext)

	rec = s.do(t, http.MethodGet, "/api/v1/venues/mosaico/items?category_id=abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/venues/hikayat/items", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Data)
}

func TestItemLifecycle(t *testing.T) {
	s := newTestServer(t)
	cat, _ := s.seed(t)
	tok := s.token(t, "admin")
	base := "/api/v1/venues/mosaico/items"

	price := 25.5
	rec := s.do(t, http.MethodPost, base, tok, domain.ItemInput{CategoryID: cat.ID, Name: "Coffee", Price: &price, IsAvailable: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item domain.Item
	decode(t, rec, &item)
	assert.Equal(t, domain.DefaultCurrency, item.CurrencySymbol)

	rec = s.do(t, http.MethodGet, base+"/"+itoa(item.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, base+"/"+itoa(item.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/"+itoa(item.ID), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/0", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Day pricing and translations
// =============================================================================

func TestDayPricing(t *testing.T) {
	s := newTestServer(t)
	_, item := s.seed(t)
	tok := s.token(t, "admin")
	path := "/api/v1/venues/mosaico/day-pricing/" + itoa(item.ID)

	rec := s.do(t, http.MethodPut, path, tok, DayPricingRequest{DayPricing: []domain.DayPricingEntry{
		{DayOfWeek: 5, Price: 55, IsActive: true},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []domain.DayPricingEntry
	decode(t, rec, &entries)
	require.Len(t, entries, domain.DaysPerWeek)
	assert.Equal(t, domain.DayPricingEntry{DayOfWeek: 5, Price: 55, IsActive: true}, entries[5])
	assert.False(t, entries[0].IsActive)

	rec = s.do(t, http.MethodPut, path, tok, DayPricingRequest{DayPricing: []domain.DayPricingEntry{
		{DayOfWeek: 9, Price: 1},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranslations(t *testing.T) {
	s := newTestServer(t)
	cat, item := s.seed(t)
	tok := s.token(t, "admin")
	base := "/api/v1/venues/mosaico/translations"

	rec := s.do(t, http.MethodPut, base+"/categories", tok, CategoryTranslationRequest{
		CategoryID: cat.ID, LanguageCode: "AR", Name: " مشروبات ",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, base+"/categories/"+itoa(cat.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Translation
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "ar", list[0].LanguageCode)
	assert.Equal(t, "مشروبات", list[0].Name)

	rec = s.do(t, http.MethodPut, base+"/items", tok, ItemTranslationRequest{
		ItemID: item.ID, LanguageCode: "fr", Name: "Thé",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/fill", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report domain.FillReport
	decode(t, rec, &report)
	assert.Positive(t, report.Translated)
	assert.Zero(t, report.Failed)

	rec = s.do(t, http.MethodGet, base+"/items/"+itoa(item.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Len(t, list, 2)
}

// =============================================================================
// Bulk
// =============================================================================

func TestBulk_JSONRows(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "admin")

	rows := BulkRequest{Rows: []bulk.Row{
		{Number: 2, Values: map[string]any{bulk.ColAction: "create", bulk.ColCategoryName: "Desserts"}},
		{Number: 3, Values: map[string]any{bulk.ColAction: "update", bulk.ColCategoryID: "404", bulk.ColCategoryName: "Nope"}},
	}}
	rec := s.do(t, http.MethodPost, "/api/v1/venues/mosaico/bulk/categories", tok, rows)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res service.Result
	decode(t, rec, &res)
	assert.Equal(t, service.KindCategories, res.Kind)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, 1, res.Summary.Created)
	require.Len(t, res.Summary.Errors, 1)
	assert.Equal(t, 3, res.Summary.Errors[0].Row)
	assert.Equal(t, 1, res.Display.ErrorCount)
}

func TestBulk_WorkbookUpload(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "admin")

	var xlsx bytes.Buffer
	require.NoError(t, sheet.WriteTemplate(&xlsx))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "menu.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/venues/hikayat/bulk/categories", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res service.Result
	decode(t, rec, &res)
	assert.Equal(t, 2, res.Summary.Created)
	assert.Empty(t, res.Summary.Errors)

	cats, err := s.store.Categories().List(context.Background(), domain.VenueHikayat)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestBulk_Rejects(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "admin")

	huge := `{"rows":[{"row":2,"values":{"Item Name":"` + strings.Repeat("a", 2<<20) + `"}}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/venues/mosaico/bulk/items", strings.NewReader(huge))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/venues/mosaico/bulk/items", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkTemplate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/bulk/template", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/bulk/template", s.token(t, "manager", "mosaico"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	wb, err := sheet.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, wb.Categories, 2)
	assert.Len(t, wb.Items, 2)
}
