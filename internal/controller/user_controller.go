package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/service"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(us service.UserService) *UserController {
	return &UserController{userService: us}
}

func (c *UserController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/users", c.UpsertUser)
	api.GET("/users/:id", c.GetUser)
}

// UpsertUser godoc
// @Summary Create or update a user profile
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.UpsertUserRequest true "Profile keyed by the auth uid"
// @Success 200 {object} dto.UserEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users [post]
func (c *UserController) UpsertUser(ctx *gin.Context) {
	var req dto.UpsertUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	user, err := c.userService.UpsertUser(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: user})
}

// GetUser godoc
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserEnvelope
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.userService.GetUser(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: user})
}
