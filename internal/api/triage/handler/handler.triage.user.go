// Package triagehdl - Handler user.
package triagehdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/CheckMateSG/users-product/internal/api/base/handler"
	triagedto "github.com/CheckMateSG/users-product/internal/api/triage/dto"
	triagevc "github.com/CheckMateSG/users-product/internal/api/triage/service"
	"github.com/CheckMateSG/users-product/internal/common"
)

// UserHandler xử lý các route user
type UserHandler struct {
	svc *triagevc.UserService
}

// NewUserHandler tạo UserHandler mới
func NewUserHandler(svc *triagevc.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// HandleCreateUser xử lý POST /users
func (h *UserHandler) HandleCreateUser(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input triagedto.UserCreateInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationFormat.Code, "message": "Dữ liệu gửi lên không đúng định dạng JSON", "status": "error",
			})
		}
		user, err := h.svc.CreateUser(c.Context(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, triagedto.ToUserResponse(user), nil)
		return nil
	})
}

// HandleGetUser xử lý GET /users/:id
func (h *UserHandler) HandleGetUser(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id := c.Params("id")
		if id == "" {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationInput.Code, "message": "Thiếu user id", "status": "error",
			})
		}
		user, err := h.svc.GetUser(c.Context(), id)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if user == nil {
			return basehdl.JSONResponse(c, common.StatusNotFound, fiber.Map{
				"code": common.ErrCodeDatabaseQuery.Code, "message": "Không tìm thấy user", "status": "error",
			})
		}
		basehdl.HandleResponse(c, triagedto.ToUserResponse(user), nil)
		return nil
	})
}

// HandleFindByChannel xử lý GET /users/by-channel?channel=whatsapp&id=...
func (h *UserHandler) HandleFindByChannel(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		channel := c.Query("channel")
		channelID := c.Query("id")
		if channel == "" || channelID == "" {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationInput.Code, "message": "Thiếu channel hoặc id", "status": "error",
			})
		}
		user, err := h.svc.FindByChannel(c.Context(), channel, channelID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if user == nil {
			return basehdl.JSONResponse(c, common.StatusNotFound, fiber.Map{
				"code": common.ErrCodeDatabaseQuery.Code, "message": "Không tìm thấy user", "status": "error",
			})
		}
		basehdl.HandleResponse(c, triagedto.ToUserResponse(user), nil)
		return nil
	})
}

// HandleRecordReferral xử lý POST /users/:id/referral
func (h *UserHandler) HandleRecordReferral(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id := c.Params("id")
		if id == "" {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationInput.Code, "message": "Thiếu user id", "status": "error",
			})
		}
		err := h.svc.RecordReferral(c.Context(), id)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}
