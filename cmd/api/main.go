package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/talenthr/payroll-backend-go/internal/config"
	appHTTP "github.com/talenthr/payroll-backend-go/internal/handler/http"
	"github.com/talenthr/payroll-backend-go/internal/pkg/database"
	"github.com/talenthr/payroll-backend-go/internal/pkg/jwt"
	"github.com/talenthr/payroll-backend-go/internal/repository/postgresql"
	contractService "github.com/talenthr/payroll-backend-go/internal/service/contract"
	payrollService "github.com/talenthr/payroll-backend-go/internal/service/payroll"
	timesheetService "github.com/talenthr/payroll-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	contractRepo := postgresql.NewContractRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	normalizer := timesheetService.NewNormalizer(logger)
	calculator := payrollService.NewCalculator(normalizer, cfg.Payroll.Holidays)

	timesheetSvc := timesheetService.NewTimesheetService(timesheetRepo, contractRepo, normalizer)
	payrollSvc := payrollService.NewPayrollService(txManager, contractRepo, timesheetRepo, payslipRepo, calculator, logger)
	contractSvc := contractService.NewContractService(contractRepo)

	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	contractHandler := appHTTP.NewContractHandler(contractSvc)

	router := appHTTP.NewRouter(
		jwtService,
		timesheetHandler,
		payrollHandler,
		contractHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("starting server", "addr", addr, "env", cfg.App.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
