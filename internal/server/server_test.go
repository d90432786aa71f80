package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	cashdomain "github.com/mkadic/cashbook/internal/cash/domain"
	"github.com/mkadic/cashbook/internal/config"
	tenantdomain "github.com/mkadic/cashbook/internal/tenant/domain"
	"github.com/mkadic/cashbook/internal/tenantctx"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeTenantService struct {
	createCalls int
	createErr   error
	tenants     []tenantdomain.Tenant
}

func (f *fakeTenantService) Create(ctx context.Context, req tenantdomain.CreateTenantRequest) (*tenantdomain.Tenant, error) {
	f.createCalls++
	_ = ctx
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &tenantdomain.Tenant{ID: "t-1", Code: req.Code, Name: req.Name}, nil
}

func (f *fakeTenantService) List(ctx context.Context) ([]tenantdomain.Tenant, error) {
	_ = ctx
	return f.tenants, nil
}

func (f *fakeTenantService) GetByID(ctx context.Context, id string) (*tenantdomain.Tenant, error) {
	_ = ctx
	for i := range f.tenants {
		if f.tenants[i].ID == id {
			return &f.tenants[i], nil
		}
	}
	return nil, tenantdomain.ErrNotFound
}

func (f *fakeTenantService) Update(ctx context.Context, req tenantdomain.UpdateTenantRequest) (*tenantdomain.Tenant, error) {
	return f.GetByID(ctx, req.ID)
}

func (f *fakeTenantService) Delete(ctx context.Context, id string) error {
	_, err := f.GetByID(ctx, id)
	return err
}

type fakeCashService struct {
	lastTenant string
	entry      *cashdomain.CashEntry
	summary    *cashdomain.Summary
	err        error
}

func (f *fakeCashService) scope(ctx context.Context) error {
	code, ok := tenantctx.Code(ctx)
	if !ok {
		return cashdomain.ErrTenantScope
	}
	f.lastTenant = code
	return nil
}

func (f *fakeCashService) Create(ctx context.Context, req cashdomain.CreateEntryRequest) (*cashdomain.CashEntry, error) {
	if err := f.scope(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	entryDate, err := cashdomain.ParseEntryDate(req.EntryDate)
	if err != nil {
		return nil, err
	}
	kind, err := cashdomain.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, cashdomain.ErrInvalidAmount
	}
	amount, err := cashdomain.NormalizeAmount(*req.Amount)
	if err != nil {
		return nil, err
	}
	return &cashdomain.CashEntry{
		ID:          42,
		TenantCode:  f.lastTenant,
		EntryDate:   entryDate,
		Kind:        kind,
		Amount:      amount,
		Description: req.Description,
	}, nil
}

func (f *fakeCashService) List(ctx context.Context, req cashdomain.ListEntriesRequest) ([]cashdomain.CashEntry, error) {
	if err := f.scope(ctx); err != nil {
		return nil, err
	}
	_ = req
	if f.entry == nil {
		return nil, f.err
	}
	return []cashdomain.CashEntry{*f.entry}, f.err
}

func (f *fakeCashService) GetByID(ctx context.Context, id int64) (*cashdomain.CashEntry, error) {
	if err := f.scope(ctx); err != nil {
		return nil, err
	}
	if f.entry == nil || f.entry.ID != id {
		return nil, cashdomain.ErrNotFound
	}
	return f.entry, nil
}

func (f *fakeCashService) Update(ctx context.Context, req cashdomain.UpdateEntryRequest) (*cashdomain.CashEntry, error) {
	return f.GetByID(ctx, req.ID)
}

func (f *fakeCashService) Delete(ctx context.Context, id int64) error {
	_, err := f.GetByID(ctx, id)
	return err
}

func (f *fakeCashService) Summary(ctx context.Context, req cashdomain.SummaryRequest) (*cashdomain.Summary, error) {
	if err := f.scope(ctx); err != nil {
		return nil, err
	}
	_ = req
	if f.summary == nil {
		return nil, f.err
	}
	out := *f.summary
	out.TenantCode = f.lastTenant
	return &out, nil
}

func newTestServer(tenantSvc tenantdomain.Service, cashSvc cashdomain.Service) *Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin:       r,
		Cfg:       config.Config{},
		TenantSvc: tenantSvc,
		CashSvc:   cashSvc,
	})
}

func doRequest(s *Server, method, path, tenant string, body string) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	if tenant != "" {
		req.Header.Set(HeaderTenant, tenant)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCreateTenantRoute(t *testing.T) {
	fake := &fakeTenantService{}
	s := newTestServer(fake, &fakeCashService{})

	w := doRequest(s, http.MethodPost, "/tenants", "", `{"code":"acme","name":"Acme"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if fake.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", fake.createCalls)
	}
}

func TestCreateTenantConflict(t *testing.T) {
	fake := &fakeTenantService{createErr: tenantdomain.ErrCodeExists}
	s := newTestServer(fake, &fakeCashService{})

	w := doRequest(s, http.MethodPost, "/tenants", "", `{"code":"acme","name":"Acme"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Fatalf("expected conflict message, got %s", w.Body.String())
	}
}

func TestCreateTenantMalformedBody(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodPost, "/tenants", "", `{"code":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error.Type != "invalid_request" {
		t.Fatalf("expected invalid_request, got %s", resp.Error.Type)
	}
}

func TestTenantNotFound(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodGet, "/tenants/missing", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTenantScopeCanonicalizesHeader(t *testing.T) {
	fake := &fakeCashService{}
	s := newTestServer(&fakeTenantService{}, fake)

	// The header form of a code must land on the same tenant row that
	// explicit creation would produce.
	w := doRequest(s, http.MethodPost, "/cash", " Acme GmbH ", `{"entry_date":"2025-03-10","kind":"income","amount":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if fake.lastTenant != "acme-gmbh" {
		t.Fatalf("expected canonical scope acme-gmbh, got %q", fake.lastTenant)
	}
}

func TestTenantScopeRejectsOverlongCode(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodGet, "/cash", strings.Repeat("a", 80), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCashRoutesRequireTenantHeader(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodGet, "/cash", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error.Type != "invalid_request" {
		t.Fatalf("expected invalid_request, got %s", resp.Error.Type)
	}
}

func TestCreateCashEntryRoute(t *testing.T) {
	fake := &fakeCashService{}
	s := newTestServer(&fakeTenantService{}, fake)

	w := doRequest(s, http.MethodPost, "/cash", "acme", `{"date":"2025-03-10","kind":"in","amount":12.5,"note":"sale"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if fake.lastTenant != "acme" {
		t.Fatalf("expected tenant scope acme, got %q", fake.lastTenant)
	}

	body := w.Body.String()
	if !strings.Contains(body, `"entry_date":"2025-03-10"`) {
		t.Fatalf("expected formatted entry_date, got %s", body)
	}
	if !strings.Contains(body, `"amount":"12.50"`) {
		t.Fatalf("expected two-digit amount, got %s", body)
	}
	if !strings.Contains(body, `"kind":"income"`) {
		t.Fatalf("expected normalized kind, got %s", body)
	}
}

func TestCreateCashEntryUnknownField(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodPost, "/cash", "acme", `{"entry_date":"2025-03-10","kind":"income","amount":1,"color":"red"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if len(resp.Error.Errors) != 1 || resp.Error.Errors[0].Field != "color" {
		t.Fatalf("expected field error for color, got %+v", resp.Error.Errors)
	}
}

func TestCreateCashEntryMalformedBody(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodPost, "/cash", "acme", `{"entry_date":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCashEntryValidation(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodPost, "/cash", "acme", `{"entry_date":"2025-03-10","kind":"transfer","amount":1}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if len(resp.Error.Errors) != 1 || resp.Error.Errors[0].Code != "invalid_kind" {
		t.Fatalf("expected invalid_kind, got %+v", resp.Error.Errors)
	}
}

func TestGetCashEntryInvalidID(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodGet, "/cash/not-a-number", "acme", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteCashEntryRoute(t *testing.T) {
	desc := "sale"
	fake := &fakeCashService{entry: &cashdomain.CashEntry{
		ID:          7,
		TenantCode:  "acme",
		Kind:        cashdomain.KindIncome,
		Amount:      decimal.RequireFromString("5.00"),
		Description: &desc,
	}}
	s := newTestServer(&fakeTenantService{}, fake)

	w := doRequest(s, http.MethodDelete, "/cash/7", "acme", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %s", w.Body.String())
	}

	w = doRequest(s, http.MethodDelete, "/cash/8", "acme", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCashSummaryRoute(t *testing.T) {
	fake := &fakeCashService{summary: &cashdomain.Summary{
		IncomeTotal:  decimal.RequireFromString("12.5"),
		ExpenseTotal: decimal.RequireFromString("4.25"),
		NetTotal:     decimal.RequireFromString("8.25"),
		IncomeCount:  2,
		ExpenseCount: 1,
	}}
	s := newTestServer(&fakeTenantService{}, fake)

	w := doRequest(s, http.MethodGet, "/cash/summary", "acme", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, `"income_total":"12.50"`) {
		t.Fatalf("expected fixed-scale income total, got %s", body)
	}
	if !strings.Contains(body, `"net_total":"8.25"`) {
		t.Fatalf("expected net total, got %s", body)
	}
	if !strings.Contains(body, `"tenant_code":"acme"`) {
		t.Fatalf("expected tenant code echo, got %s", body)
	}
}

func TestDBHealthRoute(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:TestDBHealthRoute?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	s := NewServer(ServerParams{
		Gin:       r,
		Cfg:       config.Config{},
		DB:        conn,
		TenantSvc: &fakeTenantService{},
		CashSvc:   &fakeCashService{},
	})

	w := doRequest(s, http.MethodGet, "/db/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"db":"up"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestDBHealthUnavailable(t *testing.T) {
	s := newTestServer(&fakeTenantService{}, &fakeCashService{})

	w := doRequest(s, http.MethodGet, "/db/health", "", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
	// The body stays generic, connection details never leak.
	if !strings.Contains(w.Body.String(), "service unavailable") {
		t.Fatalf("expected generic body, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "sql") || strings.Contains(w.Body.String(), "dsn") {
		t.Fatalf("body leaks detail: %s", w.Body.String())
	}
}
