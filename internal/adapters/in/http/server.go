// Package http is the REST facade of dispatch built on echo.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Handlers are the use cases the server exposes.
type Handlers struct {
	SubmitQuote          commands.SubmitQuoteCommandHandler
	DecideQuote          commands.DecideQuoteCommandHandler
	AnnotateQuote        commands.AnnotateQuoteCommandHandler
	CreateOrder          commands.CreateOrderCommandHandler
	CreateOrderFromQuote commands.CreateOrderFromQuoteCommandHandler
	AssignResources      commands.AssignResourcesCommandHandler
	TransitionOrder      commands.TransitionOrderCommandHandler
	RecordPayment        commands.RecordPaymentCommandHandler
	RegisterDriver       commands.RegisterDriverCommandHandler
	ChangeDriverStatus   commands.ChangeDriverStatusCommandHandler
	RegisterVehicle      commands.RegisterVehicleCommandHandler
	ChangeVehicleStatus  commands.ChangeVehicleStatusCommandHandler

	GetQuote                   queries.GetQuoteQueryHandler
	GetOrder                   queries.GetOrderQueryHandler
	GetResourceAvailability    queries.GetResourceAvailabilityQueryHandler
	ListSchedule               queries.ListScheduleQueryHandler
	ListMaintenanceDueVehicles queries.ListMaintenanceDueVehiclesQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		h:      h,
		logger: logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/agencies/:agencyId")

	g.POST("/quotes", s.SubmitQuote)
	g.GET("/quotes/:quoteId", s.GetQuote)
	g.POST("/quotes/:quoteId/decision", s.DecideQuote)
	g.PUT("/quotes/:quoteId/notes", s.AnnotateQuote)
	g.POST("/quotes/:quoteId/order", s.CreateOrderFromQuote)

	g.POST("/orders", s.CreateOrder)
	g.GET("/orders/:orderId", s.GetOrder)
	g.POST("/orders/:orderId/assignment", s.AssignResources)
	g.POST("/orders/:orderId/transitions", s.TransitionOrder)
	g.PUT("/orders/:orderId/payment", s.RecordPayment)

	g.POST("/drivers", s.RegisterDriver)
	g.PUT("/drivers/:driverId/status", s.ChangeDriverStatus)
	g.GET("/drivers/:driverId/availability", s.GetDriverAvailability)

	g.POST("/vehicles", s.RegisterVehicle)
	g.GET("/vehicles/maintenance-due", s.ListMaintenanceDueVehicles)
	g.PUT("/vehicles/:vehicleId/status", s.ChangeVehicleStatus)
	g.GET("/vehicles/:vehicleId/availability", s.GetVehicleAvailability)

	g.GET("/schedule", s.ListSchedule)
}

func agencyParam(c echo.Context) (kernel.AgencyID, error) {
	agencyID, err := kernel.NewAgencyID(c.Param("agencyId"))
	if err != nil {
		return "", badRequest(err)
	}
	return agencyID, nil
}

func idParam(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, badRequest(err)
	}
	return id, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// atParam reads the optional RFC 3339 "at" query parameter. Zero means now.
func atParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("at")
	if raw == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "at must be an RFC 3339 timestamp")
	}
	return at, nil
}

func boolQuery(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, name+" must be a boolean")
	}
	return v, nil
}
