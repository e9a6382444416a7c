package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/config"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/shift-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/shift-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/shift-backend-go/internal/service/attendance"
	payrollService "github.com/cmlabs-hris/shift-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/shift-backend-go/internal/service/report"
	scheduleService "github.com/cmlabs-hris/shift-backend-go/internal/service/schedule"
)

type repositories struct {
	staff      staff.Repository
	schedule   schedule.Repository
	attendance attendance.AttendanceRepository
	payroll    payroll.PayrollRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	repos, err := openRepositories(cfg)
	if err != nil {
		slog.Error("Error opening storage", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	if cfg.App.SeedStaff {
		n, err := fixtures.SeedStaff(context.Background(), repos.staff, fixtures.DefaultStaff)
		if err != nil {
			slog.Error("Error seeding staff", "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded staff", "created", n)
	}

	loc := cfg.Location()
	calendar := shift.NewCalendar(loc)
	clk := clock.System(loc)

	var locker keylock.Locker = keylock.NewLocal()
	if cfg.Redis.Addr != "" {
		rdb, err := keylock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("Error connecting to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		locker = keylock.NewRedis(rdb, cfg.Redis.LockTTL)
		slog.Info("Using redis lock", "addr", cfg.Redis.Addr)
	}

	payrollSvc := payrollService.NewPayrollService(repos.payroll, repos.attendance, repos.staff)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.schedule, calendar, clk, locker, payrollSvc)
	scheduleSvc := scheduleService.NewScheduleService(repos.schedule, repos.staff, calendar, clk, locker)
	reportSvc := reportService.NewReportService(repos.attendance, repos.schedule, repos.staff, clk)

	scheduleJobs := cron.NewScheduleJobs(repos.schedule, calendar, clk)
	attendanceJobs := cron.NewAttendanceJobs(repos.attendance, repos.schedule, calendar, clk, locker, payrollSvc)

	registry := cron.NewRegistry()
	scheduleJobs.RegisterSweeps(registry)
	attendanceJobs.RegisterSweeps(registry)

	if cfg.Cron.Enabled {
		intervals := cron.Intervals{
			AutoReject:   cfg.Cron.AutoRejectEvery,
			AutoClockOut: cfg.Cron.AutoClockOutEvery,
			Absence:      cfg.Cron.AbsenceEvery,
			AbsenceHour:  cfg.Cron.AbsenceHour,
		}
		scheduler := cron.NewScheduler()
		scheduleJobs.RegisterJobs(scheduler, intervals)
		attendanceJobs.RegisterJobs(scheduler, intervals)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
		},
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
			Report:     appHTTP.NewReportHandler(reportSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Sweep:      appHTTP.NewSweepHandler(registry),
			Shift:      appHTTP.NewShiftHandler(calendar),
		},
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgresql.Migrate(context.Background(), db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			staff:      postgresql.NewStaffRepository(db),
			schedule:   postgresql.NewScheduleRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			payroll:    postgresql.NewPayrollRepository(db),
			close:      db.Close,
		}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &repositories{
			staff:      sqlite.NewStaffRepository(db),
			schedule:   sqlite.NewScheduleRepository(db),
			attendance: sqlite.NewAttendanceRepository(db),
			payroll:    sqlite.NewPayrollRepository(db),
			close: func() {
				if err := db.Close(); err != nil {
					slog.Error("failed to close sqlite", "error", err)
				}
			},
		}, nil

	case "memory":
		slog.Warn("Using in-memory storage, data is lost on restart")
		return &repositories{
			staff:      memory.NewStaffRepository(),
			schedule:   memory.NewScheduleRepository(),
			attendance: memory.NewAttendanceRepository(),
			payroll:    memory.NewPayrollRepository(),
			close:      func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
}
