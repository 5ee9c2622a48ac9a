package handlers

import (
	"net/http"

	"csv-chat-api/pkg/models"
	"csv-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// OutcomeHeader carries the typed chat outcome alongside the reply body.
const OutcomeHeader = "X-Chat-Outcome"

// ChatHandler チャットのハンドラー
type ChatHandler struct {
	chat     *services.ChatService
	store    *services.SessionStore
	sessions *SessionResolver
}

// NewChatHandler 新しいChatHandlerを作成
func NewChatHandler(chat *services.ChatService, store *services.SessionStore, sessions *SessionResolver) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		store:    store,
		sessions: sessions,
	}
}

// Chat handles POST /chat/. Once the body is valid it always answers 200; the outcome is
// reported in the X-Chat-Outcome header.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request body: " + err.Error()})
		return
	}

	sessionID := h.sessions.Resolve(c, req.SessionID)
	table := h.store.Get(sessionID)

	result := h.chat.Chat(c.Request.Context(), table, req.Text)

	services.SetOutcome(c, result.Outcome)
	c.Header(OutcomeHeader, string(result.Outcome))
	c.JSON(http.StatusOK, result.Body)
}
