package budgets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ensayelab/ensayelab/internal/platform/httpx"
	"github.com/ensayelab/ensayelab/internal/shared"
)

// DocumentRenderer converts an HTML document into PDF bytes. report.Client
// satisfies it; the handler never sees the rendering engine.
type DocumentRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer DocumentRenderer
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, renderer DocumentRenderer) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		renderer: renderer,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListBudgetsRequest{Limit: 50}
	if v := r.URL.Query().Get("status"); v != "" {
		status, err := ParseStatus(v)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		req.Status = &status
	}
	if v := r.URL.Query().Get("cliente_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.ClientID = &n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Offset = n
		}
	}

	budgets, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list budgets failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       budgets,
		"total":      total,
		"pagination": shared.FromOffset(req.Limit, req.Offset, total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid budget id")
		return
	}
	budget, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, budget)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBudgetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
		return
	}

	budget, err := h.service.Create(r.Context(), req)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("create budget failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, budget)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid budget id")
		return
	}

	var req UpdateBudgetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error()))
		return
	}

	budget, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, budget)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusPending)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusApproved)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusRejected)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusActive)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusCompleted)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, requested Status) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid budget id")
		return
	}

	budget, err := h.service.ChangeStatus(r.Context(), id, requested)
	if err != nil {
		if errors.Is(err, shared.ErrConcurrentModification) {
			h.logger.Warn("status transition lost race", slog.Int64("budget_id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, budget)
}

func (h *Handler) ProposalPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid budget id")
		return
	}

	budget, client, err := h.service.GetWithClient(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	html, err := RenderProposalHTML(budget, client)
	if err != nil {
		h.logger.Error("render proposal html", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	pdf, err := h.renderer.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render proposal pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "pdf rendering unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", budget.Clave))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
