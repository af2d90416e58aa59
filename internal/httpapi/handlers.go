package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JimmyPun610/expense-tracker/internal/calc"
	"github.com/JimmyPun610/expense-tracker/internal/core"
	"github.com/JimmyPun610/expense-tracker/internal/report"
	"github.com/JimmyPun610/expense-tracker/internal/scanner"
)

// maxBodyBytes bounds request bodies; scan payloads carry base64 images.
const maxBodyBytes = 8 << 20

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()
	return json.NewDecoder(body).Decode(v)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.store.List()
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

type addTransactionRequest struct {
	Type     string     `json:"type"`
	Amount   jsonAmount `json:"amount"`
	Category string     `json:"category"`
	Date     string     `json:"date"`
	Remark   string     `json:"remark"`
}

// jsonAmount carries a decimal amount sent either as a JSON number or as a
// string ("12.34", "12,34"). Parsing is deferred to ParseDecimalToCents so
// both separators get the same half-up rounding.
type jsonAmount string

func (a *jsonAmount) UnmarshalJSON(data []byte) error {
	*a = jsonAmount(strings.Trim(string(data), `"`))
	return nil
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.ErrorContext(r.Context(), "Parse transaction body error", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}

	cents, err := core.ParseDecimalToCents(string(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	draft := core.Transaction{
		Type:     core.TransactionType(req.Type),
		Amount:   core.Money{Cents: cents},
		Category: strings.TrimSpace(req.Category),
		Date:     date,
		Remark:   sanitizeInput(req.Remark),
	}
	if draft.Category == "" {
		draft.Category = core.DefaultCategory(draft.Type)
	}

	tx, err := s.store.Add(r.Context(), draft)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Add transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.revision.Add(1)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(r.Context(), r.PathValue("id"))
	s.revision.Add(1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	key := reportKey(now, s.revision.Load())

	if snap, ok := s.reportCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Report cache hit", "key", key)
		writeJSON(w, http.StatusOK, snap)
		return
	}

	snap := report.Compute(now, s.store.List())
	s.reportCache.Set(key, snap)
	writeJSON(w, http.StatusOK, snap)
}

func reportKey(now time.Time, revision uint64) string {
	return strconv.Itoa(now.Year()) + "-" + strconv.Itoa(int(now.Month())) + "-" + strconv.FormatUint(revision, 10)
}

type scanRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mime_type"`
	Lang     string `json:"lang"`
}

type scanResponse struct {
	Text   string         `json:"text"`
	Fields scanner.Fields `json:"fields"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "text recognition is not configured")
		return
	}

	var req scanRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.ErrorContext(r.Context(), "Parse scan body error", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lang := req.Lang
	if lang == "" {
		lang = s.defaultLang
	}

	text, err := s.engine.Recognize(r.Context(), req.Image, req.MimeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "Text recognition error", "error", err, "mime_type", req.MimeType)
		writeError(w, http.StatusBadGateway, s.catalog.Get(r.Context(), lang, "form.scan_error"))
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Text:   text,
		Fields: scanner.Extract(text),
	})
}

type calcRequest struct {
	Expression string `json:"expression"`
}

type calcResponse struct {
	Result float64 `json:"result"`
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := calc.Evaluate(req.Expression)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, calcResponse{Result: result})
}

func (s *Server) handleI18n(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")
	writeJSON(w, http.StatusOK, s.catalog.Bundle(r.Context(), lang))
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrRemarkTooLong)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
