package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JimmyPun610/expense-tracker/internal/core"
	"github.com/JimmyPun610/expense-tracker/internal/i18n"
	"github.com/JimmyPun610/expense-tracker/internal/ledger"
	"github.com/JimmyPun610/expense-tracker/internal/ocr"
	"github.com/JimmyPun610/expense-tracker/internal/report"
)

func nowDate() string {
	return time.Now().Format("2006-01-02")
}

type fakeEngine struct {
	text string
	err  error
}

func (f *fakeEngine) Recognize(_ context.Context, _, _ string) (string, error) {
	return f.text, f.err
}

func newTestServer(t *testing.T, engine ocr.Engine) *Server {
	t.Helper()
	store := ledger.Open(context.Background(), nil)
	s := NewServer(":0", store, engine, i18n.NewCatalog(""), i18n.DefaultLang)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doJSON(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestListTransactionsEmpty(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty list, got %d", len(txs))
	}
}

func TestAddTransaction(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":12.34,"category":"food","date":"2024-07-15","remark":"lunch"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var tx core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tx.ID == "" {
		t.Error("expected assigned ID")
	}
	if tx.Amount.Cents != 1234 {
		t.Errorf("amount cents = %d, want 1234", tx.Amount.Cents)
	}

	rec = doJSON(s, http.MethodGet, "/api/transactions", "")
	var txs []core.Transaction
	_ = json.Unmarshal(rec.Body.Bytes(), &txs)
	if len(txs) != 1 {
		t.Fatalf("list length = %d, want 1", len(txs))
	}
}

func TestAddTransactionDefaultsCategory(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":100,"date":"2024-07-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var tx core.Transaction
	_ = json.Unmarshal(rec.Body.Bytes(), &tx)
	if tx.Category != core.CategorySalary {
		t.Errorf("category = %q, want %q", tx.Category, core.CategorySalary)
	}
}

func TestAddTransactionAmountFormats(t *testing.T) {
	s := newTestServer(t, nil)
	cases := []struct {
		name      string
		amount    string
		wantCode  int
		wantCents int64
	}{
		{"number", `12.34`, http.StatusCreated, 1234},
		{"string", `"12.34"`, http.StatusCreated, 1234},
		{"comma separator", `"12,34"`, http.StatusCreated, 1234},
		{"half-up third digit", `"12.345"`, http.StatusCreated, 1235},
		{"integer units", `7`, http.StatusCreated, 700},
		{"garbage", `"abc"`, http.StatusUnprocessableEntity, 0},
		{"negative", `"-5.00"`, http.StatusUnprocessableEntity, 0},
		{"missing", ``, http.StatusUnprocessableEntity, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"type":"expense","category":"food","date":"2024-07-15"`
			if tc.amount != "" {
				body += `,"amount":` + tc.amount
			}
			body += `}`
			rec := doJSON(s, http.MethodPost, "/api/transactions", body)
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantCode != http.StatusCreated {
				return
			}
			var tx core.Transaction
			if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if tx.Amount.Cents != tc.wantCents {
				t.Errorf("amount cents = %d, want %d", tx.Amount.Cents, tc.wantCents)
			}
		})
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	s := newTestServer(t, nil)
	cases := []struct {
		name string
		body string
		want int
	}{
		{"zero amount", `{"type":"expense","amount":0,"category":"food","date":"2024-07-15"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"type":"loan","amount":5,"category":"food","date":"2024-07-15"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"type":"expense","amount":5,"category":"food","date":"not-a-date"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{nope`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(s, http.MethodPost, "/api/transactions", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":5,"category":"food","date":"2024-07-15"}`)
	var tx core.Transaction
	_ = json.Unmarshal(rec.Body.Bytes(), &tx)

	rec = doJSON(s, http.MethodDelete, "/api/transactions/"+tx.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doJSON(s, http.MethodGet, "/api/transactions", "")
	var txs []core.Transaction
	_ = json.Unmarshal(rec.Body.Bytes(), &txs)
	if len(txs) != 0 {
		t.Fatalf("list length = %d, want 0", len(txs))
	}
}

func TestReportReflectsMutations(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(s, http.MethodGet, "/api/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap report.Snapshot
	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.CurrentExpense.Cents != 0 {
		t.Fatalf("expected empty snapshot, got expense %v", snap.CurrentExpense)
	}

	// Cached snapshots must not survive a mutation.
	rec = doJSON(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":12.5,"category":"food","date":"`+nowDate()+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(s, http.MethodGet, "/api/report", "")
	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.CurrentExpense.Cents != 1250 {
		t.Fatalf("current expense = %v, want 12.50", snap.CurrentExpense)
	}
}

func TestScanWithoutEngine(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodPost, "/api/scan", `{"image":"aGk=","mime_type":"image/png"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestScanExtractsFields(t *testing.T) {
	s := newTestServer(t, &fakeEngine{text: "Starbucks Coffee\n2024-07-15\nTotal 12.34"})
	rec := doJSON(s, http.MethodPost, "/api/scan", `{"image":"aGk=","mime_type":"image/png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp scanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Fields.Amount == nil || resp.Fields.Amount.Cents != 1234 {
		t.Errorf("amount = %+v, want 12.34", resp.Fields.Amount)
	}
	if resp.Fields.Category != core.CategoryFood {
		t.Errorf("category = %q, want food", resp.Fields.Category)
	}
}

func TestScanEngineFailureIsLocalized(t *testing.T) {
	s := newTestServer(t, &fakeEngine{err: errors.New("boom")})
	rec := doJSON(s, http.MethodPost, "/api/scan", `{"image":"aGk=","mime_type":"image/png","lang":"zh"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp.Error, "收據") {
		t.Errorf("expected localized error, got %q", resp.Error)
	}
}

func TestCalcEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodPost, "/api/calc", `{"expression":"2+3*4"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp calcResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Result != 20 {
		t.Errorf("result = %v, want 20", resp.Result)
	}

	rec = doJSON(s, http.MethodPost, "/api/calc", `{"expression":"5/0"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestI18nEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(s, http.MethodGet, "/api/i18n/zh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var bundle map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := bundle["categories"]; !ok {
		t.Error("expected categories section in bundle")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	s := newTestServer(t, nil)
	var last int
	for i := 0; i < 70; i++ {
		rec := doJSON(s, http.MethodPost, "/api/calc", `{"expression":"1+1"}`)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}
}
