package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/opsconsole/payroll-backend-go/internal/handler/http/middleware"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, payrollHandler PayrollHandler, timesheetHandler TimesheetHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/", timesheetHandler.ListEntries)
				r.Post("/clock-in", timesheetHandler.ClockIn)
				r.Post("/clock-out", timesheetHandler.ClockOut)
				r.With(middleware.AdminOnly).Put("/{id}", timesheetHandler.UpdateEntry)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/entries", payrollHandler.ListEntries)
				r.Get("/summary", payrollHandler.GetSummary)
				r.Get("/entries/{id}/payslip", payrollHandler.GetPayslipDetail)
				r.Get("/period", payrollHandler.GetCurrentPeriod)
				r.Get("/employees/{employeeID}/bonus", payrollHandler.GetBonusSummary)

				r.Post("/recalculate", payrollHandler.Recalculate)
				r.Post("/recalculate-bulk", payrollHandler.RecalculateBulk)

				// Payment state and the period lock are admin actions.
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)

					r.Post("/mark-paid", payrollHandler.MarkPaid)
					r.Post("/mark-unpaid", payrollHandler.MarkUnpaid)
					r.Post("/entries/{id}/payslip/pdf", payrollHandler.RenderPayslipPDF)
					r.Post("/period/lock", payrollHandler.LockPeriod)
					r.Delete("/period/lock", payrollHandler.UnlockPeriod)
				})
			})
		})
	})

	return r
}
