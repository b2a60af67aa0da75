package payslip

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/storage"
)

type Service interface {
	// RenderPDF renders the payslip for one payroll entry and stores it,
	// returning the storage path.
	RenderPDF(ctx context.Context, entryID string) (string, error)
}

type ServiceImpl struct {
	payrollService payroll.PayrollService
	storage        storage.FileStorage
}

func NewPayslipService(payrollService payroll.PayrollService, fileStorage storage.FileStorage) Service {
	return &ServiceImpl{
		payrollService: payrollService,
		storage:        fileStorage,
	}
}

// RenderPDF implements Service.
func (s *ServiceImpl) RenderPDF(ctx context.Context, entryID string) (string, error) {
	detail, err := s.payrollService.GetPayslipDetail(ctx, entryID)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	entry := detail.Entry
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", entry.EmployeeName))
	pdf.Ln(7)
	if entry.EmployeeRole != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Role: %s", entry.EmployeeRole))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", entry.PeriodStart, entry.PeriodEnd))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", entry.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Hours")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Working days: %d", entry.WorkingDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Regular: %s h    Overtime: %s h",
		formatHours(entry.TotalRegularMinutes), formatHours(entry.TotalOvertimeMinutes)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Pay")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s", entry.GrossPay.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overtime pay: %s", entry.OvertimePay.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %s", entry.Deductions.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s", entry.NetPay.StringFixed(2)))
	pdf.Ln(10)

	if len(detail.Deductions) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Deduction lines")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range detail.Deductions {
			pdf.Cell(0, 7, fmt.Sprintf("%s  %-8s  %s  %s",
				line.Date, line.Type, line.Amount.StringFixed(2), line.Description))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	if detail.Loan != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Loan")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Opening balance: %s", detail.Loan.OpeningBalance.StringFixed(2)))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("This period: %s", detail.Loan.PeriodDeductions.StringFixed(2)))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Remaining: %s", detail.Loan.RemainingBalance.StringFixed(2)))
		pdf.Ln(10)
	}

	if detail.Bonus != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Bonus")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Accrued: %s    Withdrawn: %s    Balance: %s",
			detail.Bonus.Accrued.StringFixed(2), detail.Bonus.Withdrawn.StringFixed(2), detail.Bonus.Balance.StringFixed(2)))
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to render payslip PDF: %w", err)
	}

	path := fmt.Sprintf("payslips/%s.pdf", entry.ID)
	stored, err := s.storage.Upload(ctx, &buf, path, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("failed to store payslip PDF: %w", err)
	}

	return stored, nil
}

func formatHours(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
