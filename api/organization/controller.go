package organization

import (
	"servicedesk/api/ctxutil"
	"servicedesk/api/response"
	"servicedesk/application/mediator"
	orgapp "servicedesk/application/organization"

	"github.com/gin-gonic/gin"
)

// Controller Organization controller
type Controller struct {
	mediator *mediator.Mediator
}

// NewController Create organization controller
func NewController(m *mediator.Mediator) *Controller {
	return &Controller{mediator: m}
}

// RegisterRoutes Register organization routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/organizations")
	{
		group.POST("", c.Register)
		group.GET("/:id", c.Get)
		group.POST("/:id/activate", c.Activate)
		group.POST("/:id/suspend", c.Suspend)
	}
}

// Register 登记组织
func (c *Controller) Register(ctx *gin.Context) {
	var cmd orgapp.RegisterOrganizationCommand
	if err := ctx.ShouldBindJSON(&cmd); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	org, err := mediator.Send[orgapp.RegisterOrganizationCommand, orgapp.OrganizationDTO](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, org, "Organization registered successfully")
}

// Get 查询组织
func (c *Controller) Get(ctx *gin.Context) {
	query := orgapp.GetOrganizationQuery{OrganizationID: ctx.Param("id")}

	org, err := mediator.Send[orgapp.GetOrganizationQuery, orgapp.OrganizationDTO](ctxutil.FromGin(ctx), c.mediator, query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, org, "Organization retrieved successfully")
}

// Activate 激活组织
func (c *Controller) Activate(ctx *gin.Context) {
	cmd := orgapp.ActivateOrganizationCommand{OrganizationID: ctx.Param("id")}

	org, err := mediator.Send[orgapp.ActivateOrganizationCommand, orgapp.OrganizationDTO](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, org, "Organization activated successfully")
}

// SuspendRequest 暂停原因
type SuspendRequest struct {
	Reason string `json:"reason"`
}

// Suspend 暂停组织
func (c *Controller) Suspend(ctx *gin.Context) {
	var req SuspendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	cmd := orgapp.SuspendOrganizationCommand{OrganizationID: ctx.Param("id"), Reason: req.Reason}
	org, err := mediator.Send[orgapp.SuspendOrganizationCommand, orgapp.OrganizationDTO](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, org, "Organization suspended successfully")
}

