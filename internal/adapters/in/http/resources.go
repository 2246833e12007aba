package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"

	"github.com/labstack/echo/v4"
)

// RegisterDriver handles POST /api/v1/agencies/{agencyId}/drivers.
func (s *Server) RegisterDriver(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	var req RegisterDriverRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	profile := driver.Profile{
		Name:          req.Name,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
	}
	if req.HomeVehicleID != nil {
		home, err := kernel.UUIDFromBytes(req.HomeVehicleID[:])
		if err != nil {
			return badRequest(err)
		}
		profile.HomeVehicle = &home
	}

	cmd, err := commands.NewRegisterDriverCommand(kernel.NewUUID(), agencyID, profile)
	if err != nil {
		return err
	}
	d, err := s.h.RegisterDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, driverView(d))
}

// ChangeDriverStatus handles PUT /api/v1/agencies/{agencyId}/drivers/{driverId}/status.
func (s *Server) ChangeDriverStatus(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	driverID, err := idParam(c, "driverId")
	if err != nil {
		return err
	}
	var req ChangeDriverStatusRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	status, err := driver.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewChangeDriverStatusCommand(agencyID, driverID, status)
	if err != nil {
		return err
	}
	d, err := s.h.ChangeDriverStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, driverView(d))
}

// RegisterVehicle handles POST /api/v1/agencies/{agencyId}/vehicles.
func (s *Server) RegisterVehicle(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	var req RegisterVehicleRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterVehicleCommand(kernel.NewUUID(), agencyID, vehicle.Spec{
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		Capacity:    req.Capacity,
	}, vehicle.MaintenancePlan{
		Last: dateOf(req.LastMaintenanceDate),
		Next: dateOf(req.NextMaintenanceDate),
	})
	if err != nil {
		return err
	}
	v, err := s.h.RegisterVehicle.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, vehicleView(v))
}

// ChangeVehicleStatus handles PUT /api/v1/agencies/{agencyId}/vehicles/{vehicleId}/status.
// Maintenance dates are replaced only when at least one of them is sent.
func (s *Server) ChangeVehicleStatus(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	vehicleID, err := idParam(c, "vehicleId")
	if err != nil {
		return err
	}
	var req ChangeVehicleStatusRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	status, err := vehicle.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	var plan *vehicle.MaintenancePlan
	if req.LastMaintenanceDate != nil || req.NextMaintenanceDate != nil {
		plan = &vehicle.MaintenancePlan{
			Last: dateOf(req.LastMaintenanceDate),
			Next: dateOf(req.NextMaintenanceDate),
		}
	}

	cmd, err := commands.NewChangeVehicleStatusCommand(agencyID, vehicleID, status, plan)
	if err != nil {
		return err
	}
	v, err := s.h.ChangeVehicleStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicleView(v))
}

// ListMaintenanceDueVehicles handles GET /api/v1/agencies/{agencyId}/vehicles/maintenance-due.
func (s *Server) ListMaintenanceDueVehicles(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	at, err := atParam(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListMaintenanceDueVehiclesQuery(agencyID, at)
	if err != nil {
		return err
	}
	due, err := s.h.ListMaintenanceDueVehicles.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]VehicleView, len(due))
	for i, v := range due {
		out[i] = vehicleView(v)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) GetDriverAvailability(c echo.Context) error {
	return s.availability(c, kernel.ResourceDriver, "driverId")
}

func (s *Server) GetVehicleAvailability(c echo.Context) error {
	return s.availability(c, kernel.ResourceVehicle, "vehicleId")
}

func (s *Server) availability(c echo.Context, kind kernel.ResourceKind, param string) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, param)
	if err != nil {
		return err
	}
	at, err := atParam(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetResourceAvailabilityQuery(agencyID, kind, id, at)
	if err != nil {
		return err
	}
	report, err := s.h.GetResourceAvailability.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, availabilityView(report))
}
