package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"MindBotGo/config"
	"MindBotGo/services"

	"github.com/gin-gonic/gin"
	"github.com/mymmrac/telego"
)

// WebhookController 接收 Telegram webhook 事件並轉交分發器
type WebhookController struct {
	dispatcher *services.Dispatcher
	notifier   services.Notifier
	secret     string
}

func NewWebhookController(dispatcher *services.Dispatcher, notifier services.Notifier, secret string) *WebhookController {
	return &WebhookController{
		dispatcher: dispatcher,
		notifier:   notifier,
		secret:     secret,
	}
}

// HandleTelegramUpdate 處理一則 webhook 更新
//
// 平台身份驗證只做 secret token 比對；無文字內容的更新直接確認不處理。
func (wc *WebhookController) HandleTelegramUpdate(c *gin.Context) {
	if wc.secret != "" && c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != wc.secret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var update telego.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的更新格式"})
		return
	}

	message := update.Message
	if message == nil || strings.TrimSpace(message.Text) == "" {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
		return
	}

	userID := strconv.FormatInt(message.Chat.ID, 10)
	text := strings.TrimSpace(message.Text)

	reply := wc.dispatcher.HandleIncomingText(c.Request.Context(), userID, text)

	if err := wc.notifier.Push(c.Request.Context(), userID, reply); err != nil {
		// 回覆失敗不影響對平台的確認，否則平台會重送同一則更新
		config.Logger.Errorw("回覆訊息失敗", "userID", userID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
