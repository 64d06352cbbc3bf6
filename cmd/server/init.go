package main

import (
	"time"

	"cloud.google.com/go/firestore"

	"github.com/CheckMateSG/users-product/config"
	basehdl "github.com/CheckMateSG/users-product/internal/api/base/handler"
	triagehdl "github.com/CheckMateSG/users-product/internal/api/triage/handler"
	triagevc "github.com/CheckMateSG/users-product/internal/api/triage/service"
	"github.com/CheckMateSG/users-product/internal/clients/embedder"
	"github.com/CheckMateSG/users-product/internal/database"
	"github.com/CheckMateSG/users-product/internal/global"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// App giữ toàn bộ dependency của ứng dụng, khởi tạo một lần ở bootstrap
// và truyền tường minh xuống các tầng dưới.
type App struct {
	Config         *config.Configuration
	Firestore      *firestore.Client
	MessageHandler *triagehdl.MessageHandler
	UserHandler    *triagehdl.UserHandler
	SystemHandler  *basehdl.SystemHandler
}

// InitApp khởi tạo config, validator, Firestore và toàn bộ service/handler
func InitApp() (*App, error) {
	log := logger.GetAppLogger()

	global.InitValidator()

	cfg := config.NewConfig()
	log.WithFields(map[string]interface{}{
		"address":   cfg.Address,
		"projectId": cfg.FirebaseProjectID,
	}).Info("Đã load cấu hình")

	client, err := database.GetInstance(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Đã kết nối Firestore")

	// Embedder là optional: không cấu hình base URL thì bỏ qua enrichment
	var emb *embedder.Client
	if cfg.EmbedderBaseURL != "" {
		emb = embedder.NewClientWithConfig(
			cfg.EmbedderBaseURL,
			cfg.EmbedderAPIKey,
			cfg.HTTPClient_Retries,
			time.Duration(cfg.HTTPClient_RetryDelayMs)*time.Millisecond,
			time.Duration(cfg.HTTPClient_TimeoutMs)*time.Millisecond,
		)
		log.WithField("baseUrl", cfg.EmbedderBaseURL).Info("Đã khởi tạo embedder client")
	} else {
		log.Info("Không cấu hình embedder, bỏ qua embedding enrichment")
	}

	messageSvc := triagevc.NewMessageService(client, emb)
	userSvc := triagevc.NewUserService(client)

	return &App{
		Config:         cfg,
		Firestore:      client,
		MessageHandler: triagehdl.NewMessageHandler(messageSvc),
		UserHandler:    triagehdl.NewUserHandler(userSvc),
		SystemHandler:  basehdl.NewSystemHandler(client),
	}, nil
}

// Close giải phóng các tài nguyên của App
func (a *App) Close() {
	if a.Firestore != nil {
		database.CloseInstance(a.Firestore)
	}
}
