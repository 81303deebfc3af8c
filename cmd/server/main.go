package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"guardline/internal/config"
	"guardline/internal/controllers"
	"guardline/internal/db"
	"guardline/internal/logger"
	"guardline/internal/mailer"
	"guardline/internal/redis"
)

func main() {
	cfg := config.Load()

	zlog := logger.New(cfg.Log)
	defer zlog.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET required")
	}

	gin.SetMode(cfg.Mode)

	dbConn := db.Init(cfg.DSN)
	rdb := redis.Init(cfg.RedisAddr, cfg.RedisPass)
	mail := mailer.NewSMTPClient(cfg.Mail, zlog)

	r := controllers.NewRouter(controllers.RouterDeps{
		Cfg:   cfg,
		DB:    dbConn,
		Redis: rdb,
		Mail:  mail,
		Log:   zlog,
	})

	zlog.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
