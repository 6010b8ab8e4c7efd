package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/service"
	"github.com/rs/zerolog/log"
)

type FeedbackController struct {
	feedbackService service.FeedbackService
}

func NewFeedbackController(fs service.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: fs}
}

func (c *FeedbackController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/feedback", c.CreateFeedback)
	api.GET("/getfeedback", c.GetFeedback)
	api.POST("/getfeedback", c.GetFeedback)
}

// CreateFeedback godoc
// @Summary Score an interview transcript
// @Description Scores the transcript in five fixed categories and stores the result. With feedbackId the existing record is overwritten.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body dto.CreateFeedbackRequest true "Transcript to score"
// @Success 200 {object} dto.CreateFeedbackResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 500 {object} dto.ErrorResponse "Model or store failure"
// @Router /feedback [post]
func (c *FeedbackController) CreateFeedback(ctx *gin.Context) {
	var req dto.CreateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateFeedback: invalid request body")
		badRequest(ctx, "Missing required fields")
		return
	}
	resp, err := c.feedbackService.GenerateFeedback(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetFeedback godoc
// @Summary Get feedback for an interview
// @Description Accepts interviewId and userId as query parameters or as a JSON body.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param interviewId query string false "Interview ID"
// @Param userId query string false "User ID"
// @Param request body dto.GetFeedbackRequest false "Alternative to query parameters (POST only)"
// @Success 200 {object} dto.GetFeedbackResponse
// @Failure 400 {object} dto.ErrorResponse "Missing parameters"
// @Failure 404 {object} dto.ErrorResponse "Feedback not found"
// @Failure 500 {object} dto.ErrorResponse "Store failure"
// @Router /getfeedback [get]
// @Router /getfeedback [post]
func (c *FeedbackController) GetFeedback(ctx *gin.Context) {
	var req dto.GetFeedbackRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	if ctx.Request.Method == http.MethodPost && ctx.Request.ContentLength != 0 {
		var body dto.GetFeedbackRequest
		if err := ctx.ShouldBindJSON(&body); err != nil {
			badRequest(ctx, "Invalid request body: "+err.Error())
			return
		}
		if body.InterviewID != "" {
			req.InterviewID = body.InterviewID
		}
		if body.UserID != "" {
			req.UserID = body.UserID
		}
	}

	feedback, err := c.feedbackService.GetFeedback(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.GetFeedbackResponse{Success: true, Feedback: feedback})
}
