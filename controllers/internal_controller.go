package controllers

import (
	"fmt"
	"net/http"
	"time"

	"MindBotGo/config"
	"MindBotGo/models"
	"MindBotGo/services"

	"github.com/gin-gonic/gin"
)

// InternalController 僅限服務器內部調用的推送接口
type InternalController struct {
	tasks       *services.TaskService
	reflections *services.ReflectionService
	notifier    services.Notifier
	ownerID     string
	loc         *time.Location
}

func NewInternalController(tasks *services.TaskService, reflections *services.ReflectionService, notifier services.Notifier, ownerID string, loc *time.Location) *InternalController {
	return &InternalController{
		tasks:       tasks,
		reflections: reflections,
		notifier:    notifier,
		ownerID:     ownerID,
		loc:         loc,
	}
}

// SendPrompt 立即推送一個思考問題，category 參數缺省時依當下時段決定
func (ic *InternalController) SendPrompt(c *gin.Context) {
	category := c.Query("category")
	switch category {
	case models.CategoryMorning, models.CategoryEvening, models.CategoryDeep:
	case "":
		category = services.TimeOfDayCategory(time.Now().In(ic.loc))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的問題分類"})
		return
	}

	question, err := ic.reflections.AskQuestion(c.Request.Context(), ic.ownerID, category)
	if err != nil {
		config.Logger.Errorw("抽取問題失敗", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "抽取問題失敗"})
		return
	}
	if question == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "該分類沒有可用問題"})
		return
	}

	msg := models.TextMessage(fmt.Sprintf("💭 思考問題：\n\n%s", question))
	if err := ic.notifier.Push(c.Request.Context(), ic.ownerID, msg); err != nil {
		config.Logger.Errorw("推送問題失敗", "category", category, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "推送問題失敗"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已推送", "question": question})
}

// SendPlanReminder 立即推送指定時段的計畫提醒
func (ic *InternalController) SendPlanReminder(c *gin.Context) {
	slot := c.Query("slot")
	if slot == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少時段參數"})
		return
	}

	plan, err := ic.tasks.GetDailyPlan()
	if err != nil {
		config.Logger.Errorw("讀取每日計畫失敗", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "讀取每日計畫失敗"})
		return
	}

	activity, ok := plan[slot]
	if !ok || activity == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "該時段尚未設定計畫"})
		return
	}

	msg := models.TextMessage(fmt.Sprintf("⏰ 提醒：現在是%s，該執行「%s」了", slot, activity))
	if err := ic.notifier.Push(c.Request.Context(), ic.ownerID, msg); err != nil {
		config.Logger.Errorw("推送計畫提醒失敗", "slot", slot, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "推送計畫提醒失敗"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已推送", "slot": slot})
}
