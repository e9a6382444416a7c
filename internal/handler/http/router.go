package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/shift-backend-go/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Attendance AttendanceHandler
	Schedule   ScheduleHandler
	Report     ReportHandler
	Payroll    PayrollHandler
	Sweep      SweepHandler
	Shift      ShiftHandler
}

func NewRouter(opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shift-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Content-Type",
			middleware.HeaderStaffID, middleware.HeaderStaffRole, middleware.HeaderStaffAdmin,
		},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shifts", h.Shift.List)

		// Requires caller identity
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/clock-out", h.Attendance.ClockOut)
				r.Get("/today", h.Attendance.GetToday)
				r.Get("/my", h.Attendance.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Attendance.List)
					r.Patch("/{id}", h.Attendance.Update)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Post("/", h.Schedule.Create)
				r.Get("/my", h.Schedule.ListMine)
				r.Post("/{id}/confirm", h.Schedule.Confirm)
				r.Post("/{id}/reject", h.Schedule.Reject)
				r.Post("/{id}/cancel", h.Schedule.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Schedule.List)
					r.Post("/batch", h.Schedule.CreateBatch)
					r.Post("/template", h.Schedule.CreateFromTemplate)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/monthly/me", h.Report.GetMyMonthlyReport)
				r.With(middleware.AdminOnly).Get("/monthly", h.Report.GetMonthlyReport)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/periods/me", h.Payroll.GetMyPeriod)
				r.With(middleware.AdminOnly).Get("/periods", h.Payroll.ListPeriods)
			})

			r.Route("/sweeps", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Sweep.List)
				r.Post("/{name}", h.Sweep.Run)
			})
		})
	})
	return r
}
