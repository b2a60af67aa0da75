package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/opsconsole/payroll-backend-go/internal/config"
	appHTTP "github.com/opsconsole/payroll-backend-go/internal/handler/http"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/database"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/storage"
	"github.com/opsconsole/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/opsconsole/payroll-backend-go/internal/service/payroll"
	payslipService "github.com/opsconsole/payroll-backend-go/internal/service/payslip"
	timesheetService "github.com/opsconsole/payroll-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	periodLockRepo := postgresql.NewPeriodLockRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	payrollSvc := payrollService.NewPayrollService(
		employeeRepo,
		timesheetRepo,
		deductionRepo,
		payrollRepo,
		periodLockRepo,
		bonusRepo,
		payrollService.Policy{
			AnchorDate:         cfg.Payroll.AnchorDate,
			CycleDays:          cfg.Payroll.CycleDays,
			OvertimeCutoff:     cfg.Payroll.OvertimeCutoff,
			DinnerStart:        cfg.Payroll.DinnerStart,
			DinnerEnd:          cfg.Payroll.DinnerEnd,
			StandardShiftHours: cfg.Payroll.StandardShiftHours,
		},
	)
	timesheetSvc := timesheetService.NewTimesheetService(timesheetRepo, payrollRepo, payrollSvc)
	payslipSvc := payslipService.NewPayslipService(payrollSvc, fileStorage)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, payslipSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)

	router := appHTTP.NewRouter(jwtService, payrollHandler, timesheetHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server is running on port", cfg.App.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Error starting server:", err)
	}
}
