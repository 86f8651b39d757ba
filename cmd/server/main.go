package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortlink-service/internal/config"
	"shortlink-service/internal/handler"
	"shortlink-service/internal/middleware"
	"shortlink-service/internal/model"
	"shortlink-service/internal/repository"
	"shortlink-service/internal/service"
	"shortlink-service/internal/session"
	"shortlink-service/internal/shortcode"
	"shortlink-service/pkg/database"
	auth "shortlink-service/pkg/jwt"
	"shortlink-service/pkg/logger"
	"shortlink-service/pkg/redis"
	"shortlink-service/web"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisClient "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// .env 不存在时直接使用进程环境变量
	envErr := godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, "配置加载失败:", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()
	if envErr != nil {
		sugaredLogger.Debugf("未加载 .env: %v", envErr)
	}

	db, err := database.Open(cfg.Database, logger.NewGormLogger(sugaredLogger, cfg.Database.LogLevel))
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			sugaredLogger.Errorf("关闭数据库失败: %v", err)
		}
	}()
	sugaredLogger.Infof("✅ 数据库连接成功 (%s)", cfg.Database.Driver)

	var rdb *redisClient.Client
	if cfg.Cache.Host != "" {
		rdb, err = redis.NewRedisClient(&redis.Options{
			Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
		})
		if err != nil {
			sugaredLogger.Warnf("Redis 连接失败，注销将只清除 cookie: %v", err)
			rdb = nil
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
				}
			}()
			sugaredLogger.Info("✅ Redis 连接成功")
		}
	}

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)
	sessions := session.NewManager(tokenManager, session.NewRedisRevocations(rdb), session.Options{
		CookieName: cfg.Auth.CookieName,
		Secure:     cfg.Auth.SecureCookie,
	}, sugaredLogger)
	sugaredLogger.Info("✅ 会话管理器初始化成功")

	links := service.NewLinkService(
		repository.NewShortLinkRepository(db),
		shortcode.NewGenerator(sugaredLogger),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		sugaredLogger.Fatalf("模板加载失败: %v", err)
	}

	router := gin.New()
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.SetHTMLTemplate(tmpl)

	admin := model.Admin{Username: cfg.Admin.Username, PasswordHash: cfg.Admin.PasswordHash}
	handler.RegisterRoutes(router,
		handler.NewShortLinkHandler(links, cfg.App.BaseURL, sugaredLogger),
		handler.NewAuthHandler(admin, sessions, sugaredLogger),
		middleware.AdminRequired(sessions),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
		serverErr <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugaredLogger.Errorf("服务启动失败: %v", err)
		}
	case sig := <-shutdown:
		sugaredLogger.Infof("收到信号 %s，正在关闭服务...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			sugaredLogger.Errorf("优雅关闭失败: %v", err)
			_ = server.Close()
		}
		sugaredLogger.Info("服务已停止")
	}
}
