package machine

import (
	"net/http"

	"servicedesk/api/ctxutil"
	"servicedesk/api/response"
	machineapp "servicedesk/application/machine"
	"servicedesk/application/mediator"
	"servicedesk/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller Machine controller
type Controller struct {
	mediator *mediator.Mediator
}

// NewController Create machine controller
func NewController(m *mediator.Mediator) *Controller {
	return &Controller{mediator: m}
}

// RegisterRoutes Register machine routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/machines")
	{
		group.POST("", c.Register)
		group.GET("/:id", c.Get)
		group.POST("/:id/retire", c.Retire)
	}
	router.GET("/organizations/:id/machines", c.ListByOrganization)
}

// Register 登记设备；组织不允许登记时返回 422
func (c *Controller) Register(ctx *gin.Context) {
	var cmd machineapp.RegisterMachineCommand
	if err := ctx.ShouldBindJSON(&cmd); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	result, err := mediator.Send[machineapp.RegisterMachineCommand, shared.Result[machineapp.MachineDTO]](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleResult(ctx, result, http.StatusCreated, "Machine registered successfully")
}

func (c *Controller) Get(ctx *gin.Context) {
	query := machineapp.GetMachineQuery{MachineID: ctx.Param("id")}

	m, err := mediator.Send[machineapp.GetMachineQuery, machineapp.MachineDTO](ctxutil.FromGin(ctx), c.mediator, query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, m, "Machine retrieved successfully")
}

func (c *Controller) Retire(ctx *gin.Context) {
	cmd := machineapp.RetireMachineCommand{MachineID: ctx.Param("id")}

	m, err := mediator.Send[machineapp.RetireMachineCommand, machineapp.MachineDTO](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, m, "Machine retired successfully")
}

// ListByOrganization 支持 ?status= 过滤
func (c *Controller) ListByOrganization(ctx *gin.Context) {
	query := machineapp.ListMachinesQuery{
		OrganizationID: ctx.Param("id"),
		Status:         ctx.Query("status"),
	}

	machines, err := mediator.Send[machineapp.ListMachinesQuery, []machineapp.MachineDTO](ctxutil.FromGin(ctx), c.mediator, query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, machines, "Machines retrieved successfully")
}
