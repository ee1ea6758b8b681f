package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	core "finsight/pkg/core/interpret"
	"finsight/pkg/core/store"
	"finsight/pkg/models"
)

// InterpretRequest carries the statements to analyze. Save is optional; when
// true and a repository is configured, the report is persisted after the run.
type InterpretRequest struct {
	Statements *models.FinancialStatements `json:"statements"`
	Save       bool                        `json:"save"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves interpretation over HTTP. The repository may be nil, in
// which case save requests are acknowledged with a warning header. A positive
// timeout bounds each analysis on top of the request context.
type Handler struct {
	interpreter *core.Interpreter
	repo        store.ReportRepository
	timeout     time.Duration
	log         zerolog.Logger
}

func NewHandler(interpreter *core.Interpreter, repo store.ReportRepository, timeout time.Duration, log zerolog.Logger) *Handler {
	return &Handler{interpreter: interpreter, repo: repo, timeout: timeout, log: log}
}

// HandleInterpret implements POST /api/interpret.
func (h *Handler) HandleInterpret(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	var req InterpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Statements != nil {
		req.Statements.Symbol = strings.ToUpper(strings.TrimSpace(req.Statements.Symbol))
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	report, err := h.interpreter.Interpret(ctx, req.Statements)
	if err != nil {
		if errors.Is(err, core.ErrInsufficientData) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("interpretation failed")
		writeError(w, http.StatusInternalServerError, "interpretation failed")
		return
	}

	if req.Save {
		if h.repo == nil {
			w.Header().Set("X-Save-Skipped", "no repository configured")
		} else if err := h.repo.Save(r.Context(), report); err != nil {
			h.log.Error().Err(err).Str("symbol", report.Symbol).Msg("report save failed")
			w.Header().Set("X-Save-Skipped", "save failed")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.log.Error().Err(err).Msg("response encoding failed")
	}
}

// HandleGetReport implements GET /api/reports/{symbol} against the store.
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "only GET is supported")
		return
	}
	if h.repo == nil {
		writeError(w, http.StatusNotImplemented, "no repository configured")
		return
	}

	symbol := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/reports/"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	report, err := h.repo.Load(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("report load failed")
		writeError(w, http.StatusInternalServerError, "report load failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.log.Error().Err(err).Msg("response encoding failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
