package controller

import (
	"hexaboard_backend/internal/service"
	"hexaboard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatbotController struct {
	ChatbotService *service.ChatbotService
}

func NewChatbotController(chatbotService *service.ChatbotService) *ChatbotController {
	return &ChatbotController{ChatbotService: chatbotService}
}

// swagger:model ChatMessageRequest
type ChatMessageRequest struct {
	Text     string `json:"text" binding:"required"`
	UserName string `json:"userName"`
}

// SendMessage godoc
// @Summary Send a message to the assistant
// @Description Records the message and returns the assistant's reply
// @Tags chatbot
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Param   body body ChatMessageRequest true "Message"
// @Success 200 {object} util.Response{data=model.ChatMessage} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/freshers/{id}/chat [post]
func (c *ChatbotController) SendMessage(ctx *gin.Context) {
	var req ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userName := req.UserName
	if userName == "" {
		if claims := util.GetUserFromContext(ctx); claims != nil {
			userName = claims.Email
		}
	}

	reply, err := c.ChatbotService.Respond(ctx.Request.Context(), ctx.Param("id"), userName, req.Text)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, reply)
}

// History godoc
// @Summary Get chat history
// @Tags chatbot
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Param   limit query int false "Max messages" default(50)
// @Success 200 {object} util.Response{data=[]model.ChatMessage} "Success"
// @Router /api/freshers/{id}/chat [get]
func (c *ChatbotController) History(ctx *gin.Context) {
	messages, err := c.ChatbotService.History(ctx.Param("id"), util.QueryInt(ctx, "limit", 50))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}

// Analytics godoc
// @Summary Chat topic analytics for one fresher
// @Tags chatbot
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Success 200 {object} util.Response{data=service.ChatAnalytics} "Success"
// @Router /api/admin/freshers/{id}/chat/analytics [get]
func (c *ChatbotController) Analytics(ctx *gin.Context) {
	analytics, err := c.ChatbotService.Analytics(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
