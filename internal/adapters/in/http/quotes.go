package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

func newContact(c Contact) (kernel.Contact, error) {
	return kernel.NewContact(c.Name, c.Phone, string(c.Email))
}

func newAddresses(pickup, delivery string) (kernel.Address, kernel.Address, error) {
	p, pErr := kernel.NewAddress(pickup)
	d, dErr := kernel.NewAddress(delivery)
	return p, d, errors.Join(pErr, dErr)
}

// SubmitQuote handles POST /api/v1/agencies/{agencyId}/quotes.
func (s *Server) SubmitQuote(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	var req SubmitQuoteRequest
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

	cmd, err := commands.NewSubmitQuoteCommand(kernel.NewUUID(), agencyID, commands.QuoteRequestData{
		Customer:      customer,
		Pickup:        pickup,
		Delivery:      delivery,
		PreferredDate: req.PreferredDate.Time,
		BasePrice:     req.BasePrice,
		Breakdown:     quote.PriceBreakdown(req.PriceBreakdown),
		DeclaredTotal: req.TotalPrice,
	})
	if err != nil {
		return err
	}

	q, err := s.h.SubmitQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, quoteView(q))
}

// GetQuote handles GET /api/v1/agencies/{agencyId}/quotes/{quoteId}.
func (s *Server) GetQuote(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	quoteID, err := idParam(c, "quoteId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetQuoteQuery(agencyID, quoteID)
	if err != nil {
		return err
	}
	q, err := s.h.GetQuote.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quoteView(q))
}

// DecideQuote handles POST /api/v1/agencies/{agencyId}/quotes/{quoteId}/decision.
func (s *Server) DecideQuote(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	quoteID, err := idParam(c, "quoteId")
	if err != nil {
		return err
	}
	var req DecideQuoteRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	decision, err := services.ParseDecision(req.Decision)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDecideQuoteCommand(agencyID, quoteID, decision, req.Notes, req.ReviewedBy)
	if err != nil {
		return err
	}

	q, err := s.h.DecideQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quoteView(q))
}

// AnnotateQuote handles PUT /api/v1/agencies/{agencyId}/quotes/{quoteId}/notes.
func (s *Server) AnnotateQuote(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	quoteID, err := idParam(c, "quoteId")
	if err != nil {
		return err
	}
	var req AnnotateQuoteRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewAnnotateQuoteCommand(agencyID, quoteID, req.Notes)
	if err != nil {
		return err
	}
	q, err := s.h.AnnotateQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quoteView(q))
}

// CreateOrderFromQuote handles POST /api/v1/agencies/{agencyId}/quotes/{quoteId}/order.
func (s *Server) CreateOrderFromQuote(c echo.Context) error {
	agencyID, err := agencyParam(c)
	if err != nil {
		return err
	}
	quoteID, err := idParam(c, "quoteId")
	if err != nil {
		return err
	}
	var req CreateOrderFromQuoteRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	pkg, err := order.NewPackage(req.Package.ID, req.Package.Name, req.Package.BasePrice)
	if err != nil {
		return err
	}
	terms := commands.OrderTerms{
		Package:      pkg,
		DeliveryTime: req.DeliveryTime,
		Instructions: req.Instructions,
	}
	if d := dateOf(req.ServiceDate); d != nil {
		terms.ServiceDate = *d
	}

	cmd, err := commands.NewCreateOrderFromQuoteCommand(kernel.NewUUID(), agencyID, quoteID, terms)
	if err != nil {
		return err
	}
	o, err := s.h.CreateOrderFromQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderView(o, nil))
}
