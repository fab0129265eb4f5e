package http

import (
	"net/http"

	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	appointmentHandler  *handler.AppointmentHandler
	availabilityHandler *handler.AvailabilityHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	availabilityHandler *handler.AvailabilityHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		appointmentHandler:  appointmentHandler,
		availabilityHandler: availabilityHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

// protect requires a valid token carrying one of the given roles.
func (r *Router) protect(h http.HandlerFunc, roles ...entity.Role) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireRole(roles...)(h))
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered before route matching.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Appointments. Each route carries its own role since patients, doctors
	// and admins share the prefix.
	appointment := api.PathPrefix("/appointment").Subrouter()
	appointment.Handle("/create", r.protect(r.appointmentHandler.CreateAppointment, entity.RolePatient)).Methods(http.MethodPost)
	appointment.Handle("/mine", r.protect(r.appointmentHandler.GetMyAppointments, entity.RolePatient)).Methods(http.MethodGet)
	appointment.Handle("/doctor-owned", r.protect(r.appointmentHandler.GetDoctorAppointments, entity.RoleDoctor)).Methods(http.MethodGet)
	appointment.Handle("/all", r.protect(r.appointmentHandler.GetAllAppointments, entity.RoleAdmin)).Methods(http.MethodGet)
	appointment.Handle("/{id}/status", r.protect(r.appointmentHandler.AdminUpdateAppointment, entity.RoleAdmin)).Methods(http.MethodPut)
	appointment.Handle("/{id}/doctor-status", r.protect(r.appointmentHandler.DoctorUpdateStatus, entity.RoleDoctor)).Methods(http.MethodPut)
	appointment.Handle("/{id}/payment", r.protect(r.appointmentHandler.MarkPaymentStatus, entity.RoleAdmin)).Methods(http.MethodPut)
	appointment.Handle("/{id}/reschedule", r.protect(r.appointmentHandler.RescheduleAppointment, entity.RolePatient)).Methods(http.MethodPut)
	appointment.Handle("/{id}/notes", r.protect(r.appointmentHandler.AddAppointmentNotes, entity.RoleDoctor)).Methods(http.MethodPut)
	appointment.Handle("/{id}/cancel", r.protect(r.appointmentHandler.CancelAppointment, entity.RolePatient)).Methods(http.MethodDelete)
	appointment.Handle("/{id}", r.protect(r.appointmentHandler.AdminDeleteAppointment, entity.RoleAdmin)).Methods(http.MethodDelete)

	// Availability. Reads are public; /slots must be registered before /{doctorId}.
	availability := api.PathPrefix("/availability").Subrouter()
	availability.HandleFunc("/slots", r.availabilityHandler.GetAvailableSlots).Methods(http.MethodGet)
	availability.HandleFunc("/{doctorId}", r.availabilityHandler.GetDoctorAvailability).Methods(http.MethodGet)
	availability.Handle("/set", r.protect(r.availabilityHandler.SetAvailability, entity.RoleDoctor)).Methods(http.MethodPost)
	availability.Handle("/{id}", r.protect(r.availabilityHandler.UpdateAvailability, entity.RoleDoctor)).Methods(http.MethodPut)
	availability.Handle("/{id}", r.protect(r.availabilityHandler.DeleteAvailability, entity.RoleDoctor)).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
