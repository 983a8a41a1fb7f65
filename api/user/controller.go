package user

import (
	"servicedesk/api/ctxutil"
	"servicedesk/api/response"
	"servicedesk/application/mediator"
	userapp "servicedesk/application/user"

	"github.com/gin-gonic/gin"
)

// Controller User controller
type Controller struct {
	mediator *mediator.Mediator
}

// NewController Create user controller
func NewController(m *mediator.Mediator) *Controller {
	return &Controller{mediator: m}
}

// RegisterRoutes Register user routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/users")
	{
		userGroup.POST("", c.CreateUser)
		userGroup.GET("/:id", c.GetUser)
	}
}

// CreateUser Create user
func (c *Controller) CreateUser(ctx *gin.Context) {
	var cmd userapp.RegisterUserCommand
	if err := ctx.ShouldBindJSON(&cmd); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	user, err := mediator.Send[userapp.RegisterUserCommand, userapp.UserDTO](ctxutil.FromGin(ctx), c.mediator, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, user, "User created successfully")
}

// GetUser Get user information
func (c *Controller) GetUser(ctx *gin.Context) {
	query := userapp.GetUserQuery{UserID: ctx.Param("id")}

	user, err := mediator.Send[userapp.GetUserQuery, userapp.UserDTO](ctxutil.FromGin(ctx), c.mediator, query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, user, "User retrieved successfully")
}
