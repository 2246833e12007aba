package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/agencies/{agencyId}/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	customer, err := newContact(req.Customer)
	if err != nil {
		return err
	}
	pickup, delivery, err := newAddresses(req.PickupAddress, req.DeliveryAddress)
	if err != nil {
		return err
	}
	pkg, err := order.NewPackage(req.Package.ID, req.Package.Name, req.Package.BasePrice)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), agencyID, order.Details{
		Customer:     customer,
		Pickup:       pickup,
		Delivery:     delivery,
		Package:      pkg,
		TotalPrice:   req.TotalPrice,
		ServiceDate:  req.ServiceDate.Time,
		DeliveryTime: req.DeliveryTime,
		Instructions: req.Instructions,
	})
	if err != nil {
		return err
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderView(o, nil))
}

// GetOrder handles GET /api/v1/agencies/{agencyId}/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(agencyID, orderID)
	if err != nil {
		return err
	}
	resp, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderView(resp.Order, resp.Entry))
}

// AssignResources handles POST /api/v1/agencies/{agencyId}/orders/{orderId}/assignment.
func (s *Server) AssignResources(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return err
	}
	var req AssignResourcesRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	driverID, err := kernel.UUIDFromBytes(req.DriverID[:])
	if err != nil {
		return badRequest(err)
	}
	vehicleID, err := kernel.UUIDFromBytes(req.VehicleID[:])
	if err != nil {
		return badRequest(err)
	}

	cmd, err := commands.NewAssignResourcesCommand(
		agencyID,
		orderID,
		driverID,
		vehicleID,
		commands.Window{
			Date:     req.Date,
			Time:     req.Time,
			Duration: time.Duration(req.DurationMinutes) * time.Minute,
		},
		req.JobType,
		kernel.NewUUID(),
	)
	if err != nil {
		return err
	}

	result, err := s.h.AssignResources.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AssignmentView{
		Order:   orderView(result.Order, result.Entry),
		Entry:   entryView(result.Entry),
		Created: result.Created,
	})
}

// TransitionOrder handles POST /api/v1/agencies/{agencyId}/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return err
	}
	var req TransitionOrderRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	to, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewTransitionOrderCommand(agencyID, orderID, to, req.Reason)
	if err != nil {
		return err
	}

	result, err := s.h.TransitionOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderView(result.Order, result.Entry))
}

// RecordPayment handles PUT /api/v1/agencies/{agencyId}/orders/{orderId}/payment.
func (s *Server) RecordPayment(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return err
	}
	var req RecordPaymentRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	status, err := order.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRecordPaymentCommand(agencyID, orderID, status)
	if err != nil {
		return err
	}

	o, err := s.h.RecordPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderView(o, nil))
}

// ListSchedule handles GET /api/v1/agencies/{agencyId}/schedule.
func (s *Server) ListSchedule(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	includeClosed, err := boolQuery(c, "includeClosed")
	if err != nil {
		return err
	}

	query, err := queries.NewListScheduleQuery(agencyID, c.QueryParam("date"), includeClosed)
	if err != nil {
		return err
	}
	entries, err := s.h.ListSchedule.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entryViews(entries))
}
