// Package router đăng ký các route thuộc domain triage: messages, submissions, users.
package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/CheckMateSG/users-product/internal/api/base/handler"
	apirouter "github.com/CheckMateSG/users-product/internal/api/router"
	triagehdl "github.com/CheckMateSG/users-product/internal/api/triage/handler"
)

// Register trả về RegisterFunc đăng ký tất cả route triage lên v1.
// Handler được khởi tạo ở tầng bootstrap và truyền vào đây (explicit DI).
func Register(messageHandler *triagehdl.MessageHandler, userHandler *triagehdl.UserHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		middlewares := []fiber.Handler{}

		// POST /messages/submit — tiếp nhận một lần gửi, idempotent theo sourceUniqueId
		apirouter.RegisterRouteWithMiddleware(v1, "/messages", "POST", "/submit", middlewares, messageHandler.HandleSubmitMessage)

		// GET /messages/unassessed — đăng ký trước /:id để không bị nuốt param
		apirouter.RegisterRouteWithMiddleware(v1, "/messages", "GET", "/unassessed", middlewares, messageHandler.HandleListUnassessed)

		// GET /messages/:id
		apirouter.RegisterRouteWithMiddleware(v1, "/messages", "GET", "/:id", middlewares, messageHandler.HandleGetMessage)

		// PUT /messages/:id/assessment
		apirouter.RegisterRouteWithMiddleware(v1, "/messages", "PUT", "/:id/assessment", middlewares, messageHandler.HandleAssessMessage)

		// GET /messages/:id/submissions
		apirouter.RegisterRouteWithMiddleware(v1, "/messages", "GET", "/:id/submissions", middlewares, messageHandler.HandleGetSubmissions)

		// PUT /messages/:id/submissions/:subId/replied
		apirouter.RegisterRouteWithMiddleware(v1, "/messages", "PUT", "/:id/submissions/:subId/replied", middlewares, messageHandler.HandleMarkReplied)

		// POST /users
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/", middlewares, userHandler.HandleCreateUser)

		// GET /users/by-channel?channel=whatsapp&id=...
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "GET", "/by-channel", middlewares, userHandler.HandleFindByChannel)

		// GET /users/:id
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "GET", "/:id", middlewares, userHandler.HandleGetUser)

		// POST /users/:id/referral
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/:id/referral", middlewares, userHandler.HandleRecordReferral)

		return nil
	}
}

// RegisterSystem trả về RegisterFunc đăng ký route system (health check).
func RegisterSystem(systemHandler *basehdl.SystemHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		apirouter.RegisterRouteWithMiddleware(v1, "/system", "GET", "/health", nil, systemHandler.HandleHealth)
		return nil
	}
}
