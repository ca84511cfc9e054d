package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salary-portal/internal/core/config"
	"salary-portal/internal/core/validate"
	"salary-portal/internal/domain"
	"salary-portal/internal/feature/salary"
	"salary-portal/internal/transport/http/handler"
	"salary-portal/internal/transport/http/router"
	"salary-portal/internal/web"
)

type memRepo struct {
	mu   sync.Mutex
	rows []domain.SalaryRecord
}

func (m *memRepo) List(ctx context.Context) ([]domain.SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SalaryRecord, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}

func (m *memRepo) FindByID(ctx context.Context, id uint64) (*domain.SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memRepo) UpsertByEmail(ctx context.Context, s domain.Submission) (*domain.SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].Email == s.Email {
			m.rows[i].Name, m.rows[i].Currency, m.rows[i].SalaryInLocalCurrency = s.Name, s.Currency, s.SalaryInLocalCurrency
			r := m.rows[i]
			return &r, nil
		}
	}
	now := time.Now().UTC()
	r := domain.SalaryRecord{
		ID: uint64(len(m.rows) + 1), Name: s.Name, Email: s.Email, Currency: s.Currency,
		SalaryInLocalCurrency: s.SalaryInLocalCurrency, Commission: s.Commission,
		CreatedAt: now, UpdatedAt: now,
	}
	m.rows = append(m.rows, r)
	return &r, nil
}

func (m *memRepo) UpdateAmounts(ctx context.Context, id uint64, p domain.AmountPatch) (*domain.SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		r := &m.rows[i]
		if p.SalaryInLocalCurrency != nil {
			r.SalaryInLocalCurrency = *p.SalaryInLocalCurrency
		}
		if p.SalaryInEuros != nil {
			r.SalaryInEuros = decimal.NewNullDecimal(*p.SalaryInEuros)
		}
		if p.Commission != nil {
			r.Commission = *p.Commission
		}
		out := *r
		return &out, nil
	}
	return nil, domain.ErrSalaryNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		CORS:       config.CORS{AllowOrigins: []string{"http://localhost:3000"}, AllowCredentials: true},
		Limits:     config.Limits{MaxBodyBytes: 1 << 20, RequestTimeout: 5},
		Currencies: []config.Currency{{Code: "USD", Label: "US Dollar"}},
	}
}

func newDeps(t *testing.T, health func(context.Context) error) router.Deps {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	svc := salary.NewService(&memRepo{}, validate.New(), salary.Options{
		DefaultCommission: decimal.RequireFromString("500.00"),
	})
	pages, err := web.New("salary-portal", cfg.Currencies)
	require.NoError(t, err)

	return router.Deps{
		Logger: zap.NewNop(),
		Config: cfg,
		API:    router.NewRegistry(handler.NewSalaryHandler(svc), handler.NewCurrencyHandler(cfg.Currencies)),
		Pages:  router.NewRegistry(pages),
		Assets: web.Assets(),
		Health: health,
	}
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAPIEngine_SubmitThenCorrect(t *testing.T) {
	r := router.NewAPIEngine(newDeps(t, nil))

	w := send(r, http.MethodPost, "/api/salaries", `{"name":"A","email":"a@x.com","currency":"USD","salary_in_local_currency":1000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Nil(t, created["salary_in_euros"])
	assert.Contains(t, w.Body.String(), `"commission":500.00`)
	assert.Contains(t, w.Body.String(), `"displayed_salary":500.00`)

	w = send(r, http.MethodPut, "/api/salaries/1", `{"salary_in_euros":800}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"displayed_salary":1300.00`)

	// a resubmission keeps the admin's amounts
	w = send(r, http.MethodPost, "/api/salaries", `{"name":"A2","email":"a@x.com","currency":"eur","salary_in_local_currency":"1200"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"currency":"EUR"`)
	assert.Contains(t, w.Body.String(), `"salary_in_euros":800.00`)

	w = send(r, http.MethodGet, "/api/salaries/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"displayed_salary":1300.00`)

	w = send(r, http.MethodGet, "/api/salaries", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "A2", list[0]["name"])
}

func TestAPIEngine_Errors(t *testing.T) {
	r := router.NewAPIEngine(newDeps(t, nil))

	w := send(r, http.MethodPost, "/api/salaries", `{"name":"A","currency":"USD","salary_in_local_currency":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var fe map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fe))
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "salary_in_local_currency")

	w = send(r, http.MethodGet, "/api/salaries", "")
	assert.Equal(t, "[]", w.Body.String())

	w = send(r, http.MethodPut, "/api/salaries/42", `{"commission":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodPut, "/api/salaries/42", `{"commission":-1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodGet, "/api/salaries/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodPost, "/api/salaries", `{"name":`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAPIEngine_EveryFailingFieldIsReported(t *testing.T) {
	r := router.NewAPIEngine(newDeps(t, nil))

	w := send(r, http.MethodPost, "/api/salaries", `{"name":"  ","currency":"USDX","salary_in_local_currency":"abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var fe map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fe))
	assert.Equal(t, []string{"Name is required"}, fe["name"])
	assert.Equal(t, []string{"Email is required"}, fe["email"])
	assert.Equal(t, []string{"Currency must not be greater than 3 characters"}, fe["currency"])
	assert.Equal(t, []string{"Salary In Local Currency must be a number"}, fe["salary_in_local_currency"])

	w = send(r, http.MethodPost, "/api/salaries", `{"name":5,"email":"nope","currency":"USD","salary_in_local_currency":-1}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fe = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fe))
	assert.Equal(t, []string{"Name must be a string"}, fe["name"])
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "salary_in_local_currency")
	assert.NotContains(t, fe, "currency")

	w = send(r, http.MethodGet, "/api/salaries", "")
	assert.Equal(t, "[]", w.Body.String())
}

func TestAPIEngine_PagesAndOps(t *testing.T) {
	r := router.NewAPIEngine(newDeps(t, nil))

	for _, p := range []string{"/", "/admin", "/assets/admin.js", "/api/currencies", "/health", "/metrics"} {
		assert.Equal(t, http.StatusOK, send(r, http.MethodGet, p, "").Code, p)
	}
}

func TestAPIEngine_HealthFailure(t *testing.T) {
	r := router.NewAPIEngine(newDeps(t, func(context.Context) error { return errors.New("db down") }))

	w := send(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestAdminEngine_OnlyAdminRoutes(t *testing.T) {
	r := router.NewAdminEngine(newDeps(t, nil))

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/salaries", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPut, "/api/salaries/1", `{}`).Code)

	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/api/salaries", `{}`).Code)
}

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) MountPublic(*gin.RouterGroup) { *r.log = append(*r.log, "public:"+r.name) }
func (r recorder) MountAdmin(*gin.RouterGroup) { *r.log = append(*r.log, "admin:"+r.name) }

func TestRegistry_MountOrder(t *testing.T) {
	var got []string
	reg := router.NewRegistry(recorder{"a", &got}, recorder{"b", &got})
	g := gin.New().Group("/")
	reg.MountPublic(g)
	reg.MountAdmin(g)

	assert.Equal(t, []string{"public:a", "public:b", "admin:a", "admin:b"}, got)
}
