package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"MindBotGo/config"
	"MindBotGo/middleware"
	"MindBotGo/routes"
	"MindBotGo/services"
	"MindBotGo/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化日誌
	if err := config.InitLogger(); err != nil {
		log.Fatalf("無法初始化日誌: %v", err)
	}
	defer config.Logger.Sync()

	// 加載配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("無法加載配置: %v", err)
		return
	}

	loc, err := conf.Location()
	if err != nil {
		log.Fatalf("無法加載時區: %v", err)
		return
	}

	// 初始化數據庫
	if err := config.InitDB(conf); err != nil {
		log.Fatalf("無法初始化數據庫: %v", err)
		return
	}

	// 初始化Redis
	if err := config.InitRedis(conf); err != nil {
		log.Fatalf("無法初始化Redis: %v", err)
		return
	}

	// 初始化持久化層，缺失的集合以預設文檔建立
	documentStore := store.NewDocumentStore(config.DB)
	if err := documentStore.InitDefaults(); err != nil {
		log.Fatalf("無法初始化持久化集合: %v", err)
	}

	// 初始化 Telegram 通知器
	notifier, err := services.NewTelegramNotifier(conf.TelegramBotToken)
	if err != nil {
		log.Fatalf("無法初始化 Telegram 通知器: %v", err)
	}

	// 構建核心服務
	questionCache := services.NewRedisQuestionCache(config.RedisClient)
	taskService := services.NewTaskService(documentStore, loc)
	reflectionService := services.NewReflectionService(documentStore, questionCache, loc)
	dispatcher := services.NewDispatcher(taskService, reflectionService, loc)
	scheduler := services.NewScheduler(taskService, reflectionService, notifier, conf.OwnerChatID, loc)

	// 設置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建Gin引擎
	r := gin.New()

	// 設置中間件
	middleware.SetupMiddleware(r)

	// 註冊路由
	if err := routes.RegisterRoutes(r, conf, dispatcher, taskService, reflectionService, notifier); err != nil {
		log.Fatalf("無法註冊路由: %v", err)
	}

	// 啟動背景排程器
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Start(schedulerCtx)
	}()

	// 創建HTTP服務器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	// 在goroutine中啟動服務器
	go func() {
		log.Printf("啟動服務器，監聽端口: %s", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服務器啟動失敗: %v", err)
		}
	}()

	// 等待中斷信號以實現優雅關閉
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在關閉服務器...")

	// 創建超時上下文
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 優雅關閉服務器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服務器關閉失敗: %v", err)
	}

	// 等待背景排程器退出
	stopScheduler()
	wg.Wait()
	log.Println("服務器已關閉")
}
