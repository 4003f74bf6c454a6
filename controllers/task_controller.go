package controllers

import (
	"net/http"

	"MindBotGo/config"
	"MindBotGo/models"
	"MindBotGo/services"

	"github.com/gin-gonic/gin"
)

// TaskController 提供給配套網頁的只讀任務接口
type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// GetTasks 查詢任務列表，completed 參數可過濾完成狀態
func (tc *TaskController) GetTasks(c *gin.Context) {
	var completed *bool
	switch c.Query("completed") {
	case "true":
		v := true
		completed = &v
	case "false":
		v := false
		completed = &v
	}

	tasks, err := tc.tasks.ListTasks(completed)
	if err != nil {
		config.Logger.Errorw("查詢任務列表失敗", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查詢任務列表失敗"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetProgress 查詢今日任務完成率
func (tc *TaskController) GetProgress(c *gin.Context) {
	completed, total, percentage, err := tc.tasks.TodayProgress()
	if err != nil {
		config.Logger.Errorw("查詢今日進度失敗", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查詢今日進度失敗"})
		return
	}

	c.JSON(http.StatusOK, models.TodayProgressResponse{
		Completed:  completed,
		Total:      total,
		Percentage: percentage,
	})
}

// GetPlan 查詢當前每日計畫
func (tc *TaskController) GetPlan(c *gin.Context) {
	plan, err := tc.tasks.GetDailyPlan()
	if err != nil {
		config.Logger.Errorw("查詢每日計畫失敗", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查詢每日計畫失敗"})
		return
	}

	c.JSON(http.StatusOK, models.DailyPlanResponse{Plan: plan})
}
