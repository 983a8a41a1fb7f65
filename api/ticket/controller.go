package ticket

import (
	"net/http"

	"servicedesk/api/ctxutil"
	"servicedesk/api/response"
	"servicedesk/application/mediator"
	ticketapp "servicedesk/application/ticket"
	"servicedesk/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller Ticket controller
type Controller struct {
	mediator *mediator.Mediator
}

// NewController Create ticket controller
func NewController(m *mediator.Mediator) *Controller {
	return &Controller{mediator: m}
}

// RegisterRoutes 工单按工单号寻址，例如 /tickets/TICK-2026-00001
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/tickets")
	{
		group.POST("", c.Open)
		group.GET("/:number", c.Get)
		group.POST("/:number/assign", c.Assign)
		group.PUT("/:number/status", c.ChangeStatus)
	}
	router.GET("/organizations/:id/tickets", c.ListByOrganization)
}

func (c *Controller) Open(ctx *gin.Context) {
	var cmd ticketapp.OpenTicketCommand
	if err := ctx.ShouldBindJSON(&cmd); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	t, err := mediator.Send[ticketapp.OpenTicketCommand, ticketapp.TicketDTO](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, t, "Ticket opened successfully")
}

func (c *Controller) Get(ctx *gin.Context) {
	query := ticketapp.GetTicketQuery{Number: ctx.Param("number")}

	t, err := mediator.Send[ticketapp.GetTicketQuery, ticketapp.TicketDTO](ctxutil.FromGin(ctx), c.mediator, query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, t, "Ticket retrieved successfully")
}

// AssignRequest Assign ticket request
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

func (c *Controller) Assign(ctx *gin.Context) {
	var req AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	cmd := ticketapp.AssignTicketCommand{Number: ctx.Param("number"), AssigneeID: req.AssigneeID}
	t, err := mediator.Send[ticketapp.AssignTicketCommand, ticketapp.TicketDTO](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, t, "Ticket assigned successfully")
}

// ChangeStatusRequest Change ticket status request
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus 不允许的状态迁移返回 422
func (c *Controller) ChangeStatus(ctx *gin.Context) {
	var req ChangeStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	cmd := ticketapp.ChangeTicketStatusCommand{Number: ctx.Param("number"), Status: req.Status}
	result, err := mediator.Send[ticketapp.ChangeTicketStatusCommand, shared.Result[ticketapp.TicketDTO]](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleResult(ctx, result, http.StatusOK, "Ticket status changed successfully")
}

func (c *Controller) ListByOrganization(ctx *gin.Context) {
	query := ticketapp.ListTicketsQuery{
		OrganizationID: ctx.Param("id"),
		Status:         ctx.Query("status"),
	}

	tickets, err := mediator.Send[ticketapp.ListTicketsQuery, []ticketapp.TicketDTO](ctxutil.FromGin(ctx), c.mediator, query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, tickets, "Tickets retrieved successfully")
}
