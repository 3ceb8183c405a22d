// Package server assembles the HTTP surface: router, middleware chain,
// and the lifecycle of the listener.
package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appointmenthandler "clinic-access-core/internal/appointment/handler"
	appointmentrepo "clinic-access-core/internal/appointment/repository"
	audithandler "clinic-access-core/internal/audit/handler"
	auditrepo "clinic-access-core/internal/audit/repository"
	healthhandler "clinic-access-core/internal/health/handler"
	membershiphandler "clinic-access-core/internal/membership/handler"
	membershipservice "clinic-access-core/internal/membership/service"
	orghandler "clinic-access-core/internal/organization/handler"
	orgservice "clinic-access-core/internal/organization/service"
	patienthandler "clinic-access-core/internal/patient/handler"
	patientrepo "clinic-access-core/internal/patient/repository"
	"clinic-access-core/internal/platform/guard"
	professionalhandler "clinic-access-core/internal/professional/handler"
	professionalrepo "clinic-access-core/internal/professional/repository"
	projecthandler "clinic-access-core/internal/project/handler"
	projectrepo "clinic-access-core/internal/project/repository"
	"clinic-access-core/internal/server/middleware"
)

// Deps carries everything the router needs. The guard is shared by all
// resource handlers so every route runs the same pipeline.
type Deps struct {
	Guard         *guard.Guard
	Identities    guard.IdentityResolver
	DB            *sql.DB
	Patients      patientrepo.Repository
	Professionals professionalrepo.Repository
	Appointments  appointmentrepo.Repository
	Projects      projectrepo.Repository
	AuditLogs     auditrepo.Repository
	Organizations *orgservice.Service
	Memberships   *membershipservice.Service
	Log           zerolog.Logger
}

// NewRouter builds the full route table with the shared middleware chain.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestLog(d.Log))

	healthhandler.NewHandler(d.DB).Register(r)
	orghandler.NewHandler(d.Guard, d.Identities, d.Organizations).Register(r)
	membershiphandler.NewHandler(d.Guard, d.Memberships).Register(r)
	patienthandler.NewHandler(d.Guard, d.Patients).Register(r)
	professionalhandler.NewHandler(d.Guard, d.Professionals).Register(r)
	appointmenthandler.NewHandler(d.Guard, d.Appointments).Register(r)
	projecthandler.NewHandler(d.Guard, d.Projects).Register(r)
	audithandler.NewHandler(d.Guard, d.AuditLogs).Register(r)

	return r
}

// Server wraps the HTTP listener with graceful shutdown.
type Server struct {
	http *http.Server
	log  zerolog.Logger
}

// New returns a Server for addr serving handler, wrapped with OTel
// request tracing.
func New(addr string, handler http.Handler, log zerolog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           otelhttp.NewHandler(handler, "http.server"),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
