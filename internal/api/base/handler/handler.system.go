package basehdl

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gofiber/fiber/v3"
	"google.golang.org/api/iterator"

	"github.com/CheckMateSG/users-product/internal/common"
)

// SystemHandler xử lý các route system (health check)
type SystemHandler struct {
	client *firestore.Client
}

// NewSystemHandler tạo một instance mới của SystemHandler
func NewSystemHandler(client *firestore.Client) *SystemHandler {
	return &SystemHandler{client: client}
}

// HandleHealth kiểm tra tình trạng hệ thống: API và kết nối Firestore
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": fiber.Map{
			"api": "ok",
		},
	}

	if h.client != nil {
		// Probe Firestore bằng một query nhỏ nhất có thể
		iter := h.client.Collections(ctx)
		_, err := iter.Next()
		if err != nil && err != iterator.Done {
			healthData["status"] = "degraded"
			healthData["services"].(fiber.Map)["database"] = "error"
			healthData["database_error"] = err.Error()
			return c.Status(common.StatusServiceUnavailable).JSON(fiber.Map{
				"code":    common.StatusServiceUnavailable,
				"message": "Hệ thống đang gặp sự cố",
				"data":    healthData,
				"status":  "error",
			})
		}
		healthData["services"].(fiber.Map)["database"] = "ok"
	} else {
		healthData["status"] = "degraded"
		healthData["services"].(fiber.Map)["database"] = "not_initialized"
	}

	return c.Status(common.StatusOK).JSON(fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}
