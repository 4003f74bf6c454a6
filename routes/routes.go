package routes

import (
	"MindBotGo/config"
	"MindBotGo/controllers"
	"MindBotGo/middleware"
	"MindBotGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, conf config.Config, dispatcher *services.Dispatcher, tasks *services.TaskService, reflections *services.ReflectionService, notifier services.Notifier) error {
	loc, err := conf.Location()
	if err != nil {
		return err
	}

	webhookController := controllers.NewWebhookController(dispatcher, notifier, conf.TelegramWebhookSecret)
	taskController := controllers.NewTaskController(tasks)
	internalController := controllers.NewInternalController(tasks, reflections, notifier, conf.OwnerChatID, loc)

	// Webhook 入口（平台身份驗證在控制器內完成）
	r.POST("/webhook/telegram", webhookController.HandleTelegramUpdate)

	// 配套網頁的只讀接口
	api := r.Group("/api/v1")
	api.Use(middleware.InternalAuthMiddleware(conf.InternalAuthToken))
	{
		api.GET("/tasks", taskController.GetTasks)
		api.GET("/progress", taskController.GetProgress)
		api.GET("/plan", taskController.GetPlan)
	}

	// 內部路由組（僅限服務器內部調用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(conf.InternalAuthToken))
	{
		internal.POST("/prompt", internalController.SendPrompt)
		internal.POST("/plan-reminder", internalController.SendPlanReminder)
	}

	// 健康檢查路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	return nil
}
