// Package triagehdl - Handler HTTP cho domain triage.
package triagehdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/CheckMateSG/users-product/internal/api/base/handler"
	triagedto "github.com/CheckMateSG/users-product/internal/api/triage/dto"
	triagevc "github.com/CheckMateSG/users-product/internal/api/triage/service"
	"github.com/CheckMateSG/users-product/internal/common"
)

// MessageHandler xử lý các route message và submission
type MessageHandler struct {
	svc *triagevc.MessageService
}

// NewMessageHandler tạo MessageHandler mới
func NewMessageHandler(svc *triagevc.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// HandleSubmitMessage xử lý POST /messages/submit
func (h *MessageHandler) HandleSubmitMessage(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input triagedto.SubmitMessageInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationFormat.Code, "message": "Dữ liệu gửi lên không đúng định dạng JSON", "status": "error",
			})
		}
		result, err := h.svc.SubmitMessage(c.Context(), &input)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetMessage xử lý GET /messages/:id
func (h *MessageHandler) HandleGetMessage(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id := c.Params("id")
		if id == "" {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationInput.Code, "message": "Thiếu message id", "status": "error",
			})
		}
		msg, err := h.svc.GetMessage(c.Context(), id)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if msg == nil {
			return basehdl.JSONResponse(c, common.StatusNotFound, fiber.Map{
				"code": common.ErrCodeDatabaseQuery.Code, "message": "Không tìm thấy message", "status": "error",
			})
		}
		basehdl.HandleResponse(c, triagedto.ToMessageResponse(msg), nil)
		return nil
	})
}

// HandleListUnassessed xử lý GET /messages/unassessed
func (h *MessageHandler) HandleListUnassessed(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		msgs, err := h.svc.ListUnassessedMessages(c.Context())
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		data := make([]*triagedto.MessageResponse, 0, len(msgs))
		for _, m := range msgs {
			data = append(data, triagedto.ToMessageResponse(m))
		}
		basehdl.HandleResponse(c, data, nil)
		return nil
	})
}

// HandleAssessMessage xử lý PUT /messages/:id/assessment
func (h *MessageHandler) HandleAssessMessage(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id := c.Params("id")
		if id == "" {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationInput.Code, "message": "Thiếu message id", "status": "error",
			})
		}
		var input triagedto.AssessMessageInput
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationFormat.Code, "message": "Dữ liệu gửi lên không đúng định dạng JSON", "status": "error",
			})
		}
		err := h.svc.AssessMessage(c.Context(), id, &input)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleGetSubmissions xử lý GET /messages/:id/submissions
func (h *MessageHandler) HandleGetSubmissions(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id := c.Params("id")
		if id == "" {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationInput.Code, "message": "Thiếu message id", "status": "error",
			})
		}
		subs, err := h.svc.GetSubmissions(c.Context(), id)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		data := make([]*triagedto.SubmissionResponse, 0, len(subs))
		for _, s := range subs {
			data = append(data, triagedto.ToSubmissionResponse(s))
		}
		basehdl.HandleResponse(c, data, nil)
		return nil
	})
}

// HandleMarkReplied xử lý PUT /messages/:id/submissions/:subId/replied
func (h *MessageHandler) HandleMarkReplied(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		messageID := c.Params("id")
		submissionID := c.Params("subId")
		if messageID == "" || submissionID == "" {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationInput.Code, "message": "Thiếu message id hoặc submission id", "status": "error",
			})
		}
		var input struct {
			ReplyCategory string `json:"replyCategory"`
		}
		if err := c.Bind().Body(&input); err != nil {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code": common.ErrCodeValidationFormat.Code, "message": "Dữ liệu gửi lên không đúng định dạng JSON", "status": "error",
			})
		}
		err := h.svc.MarkSubmissionReplied(c.Context(), messageID, submissionID, input.ReplyCategory)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}
