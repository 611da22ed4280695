package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mfadhilr/office-management/internal/attendance"
	"github.com/mfadhilr/office-management/internal/auth"
	"github.com/mfadhilr/office-management/internal/employee"
	"github.com/mfadhilr/office-management/internal/inventory"
	"github.com/mfadhilr/office-management/internal/leave"
	"github.com/mfadhilr/office-management/internal/procurement"
	"github.com/mfadhilr/office-management/internal/task"
	"github.com/mfadhilr/office-management/internal/transport/middleware"
	"github.com/mfadhilr/office-management/internal/transport/swagger"
)

// Handlers bundles every module handler the router wires up. Nil handlers
// skip their routes, which keeps partial wiring possible in tests.
type Handlers struct {
	Auth        *auth.Handler
	Employee    *employee.Handler
	Leave       *leave.Handler
	Procurement *procurement.Handler
	Inventory   *inventory.Handler
	Task        *task.Handler
	Attendance  *attendance.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, rbac *auth.RBACAuthorization, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if handlers.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", handlers.Auth.Login)
				sr.Post("/refresh", handlers.Auth.RefreshToken)
				sr.Post("/logout", handlers.Auth.Logout)
			})
		}

		if handlers.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			pr.Get("/users/me", handlers.Auth.GetCurrentUser)

			if handlers.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.With(rbac.Require(auth.ModuleHR, auth.PageEmployees, auth.ActionView)).Get("/", handlers.Employee.ListEmployees)
					er.With(rbac.Require(auth.ModuleHR, auth.PageEmployees, auth.ActionView)).Get("/{id}", handlers.Employee.GetEmployee)
					er.With(rbac.Require(auth.ModuleHR, auth.PageEmployees, auth.ActionView)).Get("/{id}/balances", handlers.Employee.GetBalances)
					er.With(rbac.Require(auth.ModuleHR, auth.PageEmployees, auth.ActionEdit)).Post("/", handlers.Employee.CreateEmployee)
					er.With(rbac.Require(auth.ModuleHR, auth.PageEmployees, auth.ActionUpdate)).Patch("/{id}", handlers.Employee.UpdateEmployee)
					er.With(rbac.Require(auth.ModuleHR, auth.PageEmployees, auth.ActionDelete)).Post("/{id}/resign", handlers.Employee.ResignEmployee)
				})
			}

			if handlers.Leave != nil {
				pr.Route("/leaves", func(lr chi.Router) {
					// every authenticated employee can apply and see their own
					lr.Post("/", handlers.Leave.ApplyLeave)
					lr.Get("/mine", handlers.Leave.ListMyLeaves)

					lr.With(rbac.Require(auth.ModuleHR, auth.PageLeaveRequests, auth.ActionView)).Get("/", handlers.Leave.ListLeaves)
					lr.With(rbac.Require(auth.ModuleHR, auth.PageLeaveRequests, auth.ActionView)).Get("/{id}", handlers.Leave.GetLeave)

					lr.Group(func(hr chi.Router) {
						hr.Use(rbac.RequireRole(auth.RoleHOD))
						hr.Patch("/{id}/hod-approve", handlers.Leave.HODApprove)
						hr.Patch("/{id}/hod-reject", handlers.Leave.HODReject)
					})
					lr.Group(func(hr chi.Router) {
						hr.Use(rbac.RequireRole(auth.RoleHR))
						hr.Patch("/{id}/hr-approve", handlers.Leave.HRApprove)
						hr.Patch("/{id}/hr-reject", handlers.Leave.HRReject)
					})
				})
			}

			if handlers.Procurement != nil {
				pr.Route("/requests", func(rr chi.Router) {
					rr.With(rbac.Require(auth.ModuleSupplyChain, auth.PageRequests, auth.ActionView)).Get("/", handlers.Procurement.ListRequests)
					rr.With(rbac.Require(auth.ModuleSupplyChain, auth.PageRequests, auth.ActionView)).Get("/{id}", handlers.Procurement.GetRequest)
					rr.With(rbac.Require(auth.ModuleSupplyChain, auth.PageRequests, auth.ActionEdit)).Post("/", handlers.Procurement.CreateRequest)

					rr.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireRole(auth.RoleAccountManager))
						ar.Patch("/{id}/approve", handlers.Procurement.AMApproveRequest)
						ar.Patch("/{id}/reject", handlers.Procurement.AMRejectRequest)
					})
					rr.Group(func(sr chi.Router) {
						sr.Use(rbac.RequireRole(auth.RoleStore))
						sr.Patch("/{id}/issue", handlers.Procurement.IssueRequest)
						sr.Patch("/{id}/forward", handlers.Procurement.ForwardRequest)
					})
					rr.Group(func(pcr chi.Router) {
						pcr.Use(rbac.RequireRole(auth.RolePurchase))
						pcr.Post("/{id}/convert", handlers.Procurement.ConvertRequest)
					})
				})

				pr.Route("/purchase-orders", func(or chi.Router) {
					or.With(rbac.Require(auth.ModuleSupplyChain, auth.PagePurchaseOrders, auth.ActionView)).Get("/", handlers.Procurement.ListOrders)
					or.With(rbac.Require(auth.ModuleSupplyChain, auth.PagePurchaseOrders, auth.ActionView)).Get("/{id}", handlers.Procurement.GetOrder)

					or.Group(func(pcr chi.Router) {
						pcr.Use(rbac.RequireRole(auth.RolePurchase))
						pcr.Post("/", handlers.Procurement.CreateOrder)
						pcr.Patch("/{id}/receive", handlers.Procurement.ReceiveOrder)
					})
					or.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireRole(auth.RoleAccountManager))
						ar.Patch("/{id}/approve", handlers.Procurement.ApproveOrder)
						ar.Patch("/{id}/reject", handlers.Procurement.RejectOrder)
					})
				})
			}

			if handlers.Inventory != nil {
				pr.Route("/items", func(ir chi.Router) {
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionView)).Get("/", handlers.Inventory.ListItems)
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionView)).Get("/export", handlers.Inventory.ExportItems)
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionView)).Get("/{id}", handlers.Inventory.GetItem)
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionEdit)).Post("/", handlers.Inventory.CreateItem)
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionUpdate)).Patch("/{id}", handlers.Inventory.UpdateItem)
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionUpdate)).Post("/{id}/assign", handlers.Inventory.AssignItem)
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionUpdate)).Post("/{id}/unassign", handlers.Inventory.UnassignItem)
					ir.With(rbac.Require(auth.ModuleAssets, auth.PageItems, auth.ActionDelete)).Delete("/{id}", handlers.Inventory.DeactivateItem)
				})
				pr.Route("/toners", func(tr chi.Router) {
					tr.With(rbac.Require(auth.ModuleAssets, auth.PageToners, auth.ActionView)).Get("/", handlers.Inventory.ListToners)
					tr.With(rbac.Require(auth.ModuleAssets, auth.PageToners, auth.ActionUpdate)).Post("/fill", handlers.Inventory.FillToner)
					tr.With(rbac.Require(auth.ModuleAssets, auth.PageToners, auth.ActionUpdate)).Post("/consume", handlers.Inventory.ConsumeToner)
				})
			}

			if handlers.Task != nil {
				pr.Route("/tasks", func(tr chi.Router) {
					tr.With(rbac.Require(auth.ModuleTasks, auth.PageBoard, auth.ActionView)).Get("/", handlers.Task.ListTasks)
					tr.With(rbac.Require(auth.ModuleTasks, auth.PageBoard, auth.ActionView)).Get("/{id}", handlers.Task.GetTask)
					tr.With(rbac.Require(auth.ModuleTasks, auth.PageBoard, auth.ActionEdit)).Post("/", handlers.Task.CreateTask)

					// the service enforces who may act; routes only require login
					tr.Patch("/{id}/accept", handlers.Task.AcceptTask)
					tr.Patch("/{id}/complete", handlers.Task.CompleteTask)
					tr.Patch("/{id}/approve", handlers.Task.ApproveTask)
					tr.Patch("/{id}/reject", handlers.Task.RejectTask)
				})
			}

			if handlers.Attendance != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					ar.With(rbac.Require(auth.ModuleHR, auth.PageAttendance, auth.ActionView)).Get("/", handlers.Attendance.ListRecords)
					ar.With(rbac.Require(auth.ModuleHR, auth.PageAttendance, auth.ActionEdit)).Post("/import", handlers.Attendance.Import)
					ar.With(rbac.Require(auth.ModuleHR, auth.PageReports, auth.ActionView)).Get("/report", handlers.Attendance.MonthlyReport)
					ar.With(rbac.Require(auth.ModuleHR, auth.PageReports, auth.ActionView)).Get("/report/export", handlers.Attendance.ExportMonthlyReport)
				})
			}
		})
	})
}
