package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Create handles POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.Validate()
	if err != nil {
		return err
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), p, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Ticket created successfully", dto.NewTicketResponse(ticket))
}

// ListMine handles GET /api/tickets/me.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListMyTickets(c.UserContext(), p)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Tickets fetched successfully", fiber.Map{"tickets": dto.NewTicketResponses(tickets)})
}

// ListAll handles GET /api/tickets.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListAllTickets(c.UserContext(), p)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Tickets fetched successfully", fiber.Map{"tickets": dto.NewTicketResponses(tickets)})
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ticket fetched successfully", dto.NewTicketResponse(ticket))
}

// Update handles PATCH /api/tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.Validate()
	if err != nil {
		return err
	}
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), p, id, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ticket updated successfully", dto.NewTicketResponse(ticket))
}

// Assign handles PATCH /api/tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	ticket, err := h.tickets.AssignTicket(c.UserContext(), p, id, req.AgentID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ticket assigned successfully", dto.NewTicketResponse(ticket))
}

// UpdateStatus handles PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	status, err := req.Validate()
	if err != nil {
		return err
	}
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), p, id, status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ticket status updated successfully", dto.NewTicketResponse(ticket))
}

// Close handles PATCH /api/tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.CloseTicket(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ticket closed successfully", dto.NewTicketResponse(ticket))
}
