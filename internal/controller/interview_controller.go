package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/service"
	"github.com/rs/zerolog/log"
)

type InterviewController struct {
	interviewService service.InterviewService
}

func NewInterviewController(is service.InterviewService) *InterviewController {
	return &InterviewController{interviewService: is}
}

func (c *InterviewController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/generate", c.GenerateInterview)
	api.GET("/getinterview", c.GetInterview)
	api.GET("/interviews", c.ListUserInterviews)
	api.GET("/interviews/latest", c.ListLatestInterviews)
}

// GenerateInterview godoc
// @Summary Generate an interview
// @Description Asks the model for interview questions and stores them as a new finalized interview. Only userid is required.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param request body dto.GenerateInterviewRequest true "Interview parameters"
// @Success 200 {object} dto.GenerateInterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Missing userid"
// @Failure 500 {object} dto.ErrorResponse "Model or store failure"
// @Router /generate [post]
func (c *InterviewController) GenerateInterview(ctx *gin.Context) {
	var req dto.GenerateInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GenerateInterview: invalid request body")
		badRequest(ctx, "Invalid request body: "+err.Error())
		return
	}
	resp, err := c.interviewService.GenerateInterview(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetInterview godoc
// @Summary Get an interview
// @Tags Interviews
// @Produce json
// @Param interviewId query string true "Interview ID"
// @Success 200 {object} dto.GetInterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Missing interview ID"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 500 {object} dto.ErrorResponse "Store failure"
// @Router /getinterview [get]
func (c *InterviewController) GetInterview(ctx *gin.Context) {
	id := ctx.Query("interviewId")
	if id == "" {
		id = ctx.Query("id")
	}
	interview, err := c.interviewService.GetInterview(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.GetInterviewResponse{Success: true, Interview: interview})
}

// ListUserInterviews godoc
// @Summary List a user's interviews
// @Tags Interviews
// @Produce json
// @Param userId query string true "Owner user ID"
// @Success 200 {object} dto.ListInterviewsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /interviews [get]
func (c *InterviewController) ListUserInterviews(ctx *gin.Context) {
	var q dto.ListInterviewsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	interviews, err := c.interviewService.ListUserInterviews(ctx.Request.Context(), q.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ListInterviewsResponse{Success: true, Interviews: interviews})
}

// ListLatestInterviews godoc
// @Summary List recent community interviews
// @Description Finalized interviews created by other users, newest first.
// @Tags Interviews
// @Produce json
// @Param userId query string false "Exclude interviews owned by this user"
// @Param limit query int false "Maximum number of interviews (default 20)"
// @Success 200 {object} dto.ListInterviewsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /interviews/latest [get]
func (c *InterviewController) ListLatestInterviews(ctx *gin.Context) {
	var q dto.ListInterviewsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	interviews, err := c.interviewService.ListLatestInterviews(ctx.Request.Context(), q.UserID, q.Limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ListInterviewsResponse{Success: true, Interviews: interviews})
}
