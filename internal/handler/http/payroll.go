package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/handler/http/response"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/validator"
	"github.com/opsconsole/payroll-backend-go/internal/service/payslip"
)

type PayrollHandler interface {
	Recalculate(w http.ResponseWriter, r *http.Request)
	RecalculateBulk(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	MarkUnpaid(w http.ResponseWriter, r *http.Request)
	ListEntries(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetPayslipDetail(w http.ResponseWriter, r *http.Request)
	RenderPayslipPDF(w http.ResponseWriter, r *http.Request)
	GetCurrentPeriod(w http.ResponseWriter, r *http.Request)
	LockPeriod(w http.ResponseWriter, r *http.Request)
	UnlockPeriod(w http.ResponseWriter, r *http.Request)
	GetBonusSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	payslipService payslip.Service
}

func NewPayrollHandler(payrollService payroll.PayrollService, payslipService payslip.Service) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		payslipService: payslipService,
	}
}

func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Recalculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RecalculateBulk(w http.ResponseWriter, r *http.Request) {
	var req payroll.BulkRecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	results, err := h.payrollService.RecalculateBulk(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	results, err := h.payrollService.MarkPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll entries marked paid", results)
}

func (h *payrollHandlerImpl) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkUnpaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.MarkUnpaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll entry reopened", result)
}

func (h *payrollHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	periodStart := r.URL.Query().Get("period_start")
	periodEnd := r.URL.Query().Get("period_end")

	results, err := h.payrollService.ListEntries(r.Context(), periodStart, periodEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	periodStart := r.URL.Query().Get("period_start")
	periodEnd := r.URL.Query().Get("period_end")

	result, err := h.payrollService.GetSummary(r.Context(), periodStart, periodEnd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayslipDetail(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	result, err := h.payrollService.GetPayslipDetail(r.Context(), entryID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RenderPayslipPDF(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	path, err := h.payslipService.RenderPDF(r.Context(), entryID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip generated", map[string]string{"path": path})
}

func (h *payrollHandlerImpl) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CurrentPeriod(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) LockPeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.LockPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.LockPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Period locked", result)
}

func (h *payrollHandlerImpl) UnlockPeriod(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.UnlockPeriod(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Period unlocked", nil)
}

func (h *payrollHandlerImpl) GetBonusSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	asOf, ok := validator.IsValidDate(r.URL.Query().Get("as_of"))
	if !ok {
		response.BadRequest(w, "as_of must be a valid date (YYYY-MM-DD)", nil)
		return
	}

	result, err := h.payrollService.BonusSummary(r.Context(), employeeID, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.NotFound(w, "Bonus accrual is not configured")
		return
	}

	response.Success(w, result)
}
