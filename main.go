package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"news-scraper/config"
	"news-scraper/internal/handler"
	"news-scraper/internal/model"
	"news-scraper/internal/scheduler"
	"news-scraper/internal/service"
	"news-scraper/internal/storage"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gin.SetMode(cfg.Server.Mode)

	// 初始化数据库
	os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755)

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	// 连接池上限
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle:", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleSeconds) * time.Second)

	// 自动迁移
	db.AutoMigrate(&model.Article{})

	// 初始化快照目录
	snapshot, err := storage.NewSnapshot(cfg.Storage.Dir, cfg.Storage.KeepFiles)
	if err != nil {
		log.Fatal("Failed to init snapshot storage:", err)
	}

	// 初始化服务
	scraperSvc, err := service.NewScraperService(cfg.Scraper)
	if err != nil {
		log.Fatal("Failed to init scraper:", err)
	}
	cacheSvc := service.NewCacheService(db, cfg.Cache)
	storeSvc := service.NewStoreService(db, snapshot)
	querySvc := service.NewQueryService(db)
	statusSvc := service.NewStatusService(db, snapshot)

	// 启动定时任务
	sched := scheduler.NewScheduler(scraperSvc, cacheSvc, storeSvc, cfg.Cron)
	sched.Start()
	defer sched.Stop()

	// 初始化Gin
	r := gin.Default()

	// 注册路由
	h := handler.NewHandler(scraperSvc, cacheSvc, storeSvc, querySvc, statusSvc)
	h.RegisterRoutes(r)

	// 启动服务
	srv := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: r,
	}

	go func() {
		log.Println("Server starting on " + cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	// 收到退出信号后排空连接再关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	sqlDB.Close()
}
