package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/CheckMateSG/users-product/internal/logger"
	"github.com/CheckMateSG/users-product/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// Hàm main
func main() {
	initLogger()
	log := logger.GetAppLogger()

	app, err := InitApp()
	if err != nil {
		log.Fatalf("Không thể khởi tạo ứng dụng: %v", err)
	}
	defer app.Close()

	fiberApp, err := InitFiberApp(app)
	if err != nil {
		log.Fatalf("Không thể khởi tạo Fiber app: %v", err)
	}

	// Chạy Assessment Expiry Worker (background) với recover
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	expiryWorker := worker.NewAssessmentExpiryWorker(app.Firestore, time.Hour, 200)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("⏰ [ASSESSMENT_EXPIRY] Worker goroutine panic")
			}
		}()
		expiryWorker.Start(ctx)
	}()

	address := app.Config.Address
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	if err := fiberApp.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}
