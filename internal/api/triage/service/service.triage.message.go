// Package triagevc - Service cho domain triage (messages, submissions).
package triagevc

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	triagedto "github.com/CheckMateSG/users-product/internal/api/triage/dto"
	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
	triagerepo "github.com/CheckMateSG/users-product/internal/api/triage/repository"
	"github.com/CheckMateSG/users-product/internal/clients/embedder"
	"github.com/CheckMateSG/users-product/internal/common"
	"github.com/CheckMateSG/users-product/internal/global"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// MessageService xử lý nghiệp vụ submit và assess message
type MessageService struct {
	messages *triagerepo.MessageRepository
	users    *triagerepo.UserRepository
	embedder *embedder.Client // nil = không tính embedding
	log      *logrus.Logger
}

// NewMessageService tạo MessageService mới
func NewMessageService(client *firestore.Client, emb *embedder.Client) *MessageService {
	return &MessageService{
		messages: triagerepo.NewMessageRepository(client),
		users:    triagerepo.NewUserRepository(client),
		embedder: emb,
		log:      logger.GetAppLogger(),
	}
}

// SubmitMessage xử lý một lần user gửi message.
// Idempotent theo input.SourceUniqueID: lần gửi trùng trả về Duplicate=true,
// không ghi gì và không trừ quota.
func (s *MessageService) SubmitMessage(ctx context.Context, input *triagedto.SubmitMessageInput) (*triagedto.SubmitMessageResult, error) {
	if err := global.Validate.Struct(input); err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput, "Dữ liệu submit không hợp lệ", common.StatusBadRequest, err.Error())
	}

	now := time.Now()
	sub := &models.Submission{
		Source:         input.Source,
		SourceUniqueID: input.SourceUniqueID,
		Timestamp:      now,
		Type:           input.Type,
		Text:           optional(input.Text),
		TextHash:       optional(input.TextHash),
		Caption:        optional(input.Caption),
		CaptionHash:    optional(input.CaptionHash),
		Sender:         optional(input.SenderID),
		Embedding:      s.embed(ctx, input.Text),
	}

	var createdMsg *models.Message
	var createdSub *models.Submission
	var err error

	if input.MessageID != "" {
		createdSub, err = s.messages.AddSubmission(ctx, input.MessageID, sub, input.SourceUniqueID)
	} else {
		msg := &models.Message{
			MachineCategory:        input.MachineCategory,
			IsMachineCategorised:   input.MachineCategory != "",
			Text:                   optional(input.Text),
			Caption:                optional(input.Caption),
			FirstTimestamp:         now,
			LastTimestamp:          now,
			LastRefreshedTimestamp: now,
			Tags:                   map[string]bool{},
			Embedding:              sub.Embedding,
		}
		createdMsg, createdSub, err = s.messages.CreateMessageWithSubmission(ctx, msg, sub, input.SourceUniqueID)
	}
	if err != nil {
		return nil, err
	}

	if createdSub == nil {
		return &triagedto.SubmitMessageResult{Duplicate: true}, nil
	}

	s.recordUserSubmission(ctx, input.SenderID, input.SenderType)

	return &triagedto.SubmitMessageResult{
		Duplicate:  false,
		Message:    triagedto.ToMessageResponse(createdMsg),
		Submission: triagedto.ToSubmissionResponse(createdSub),
	}, nil
}

// recordUserSubmission trừ quota của user gửi, tìm theo kênh của sender
// (senderType rỗng mặc định là whatsapp). Lỗi quota không làm fail submission
// đã được chấp nhận, chỉ log lại.
func (s *MessageService) recordUserSubmission(ctx context.Context, senderID, senderType string) {
	if senderID == "" {
		return
	}

	var user *models.User
	var err error
	switch senderType {
	case "", "whatsapp":
		user, err = s.users.FindByWhatsappId(ctx, senderID)
	case "telegram":
		user, err = s.users.FindByTelegramId(ctx, senderID)
	case "email":
		user, err = s.users.FindByEmailId(ctx, senderID)
	default:
		s.log.WithField("senderType", senderType).Warn("senderType không hợp lệ, bỏ qua cập nhật quota")
		return
	}
	if err != nil || user == nil {
		return
	}
	if err := s.users.IncrementSubmissionCount(ctx, user.ID, 1); err != nil {
		s.log.WithFields(logrus.Fields{"userId": user.ID, "error": err.Error()}).
			Error("Không thể cập nhật quota user sau submission")
	}
}

// embed tính embedding cho text, trả về nil khi không khả dụng.
// Embedding là enrichment, không phải điều kiện để chấp nhận submission.
func (s *MessageService) embed(ctx context.Context, text string) firestore.Vector32 {
	if s.embedder == nil || text == "" {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Embedding service lỗi, tiếp tục không có embedding")
		return nil
	}
	return firestore.Vector32(vec)
}

// GetMessage trả về message theo id, (nil, nil) nếu không tồn tại
func (s *MessageService) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	return s.messages.FindById(ctx, id)
}

// ListUnassessedMessages trả về các message đang chờ assess
func (s *MessageService) ListUnassessedMessages(ctx context.Context) ([]*models.Message, error) {
	return s.messages.FindUnassessedMessages(ctx)
}

// AssessMessage ghi kết quả assess cho message
func (s *MessageService) AssessMessage(ctx context.Context, id string, input *triagedto.AssessMessageInput) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, "Dữ liệu assessment không hợp lệ", common.StatusBadRequest, err.Error())
	}
	now := time.Now()
	assessed := true
	if input.IsAssessed != nil {
		assessed = *input.IsAssessed
	}
	return s.messages.UpdateAssessment(ctx, id, models.MessageAssessment{
		IsAssessed:          &assessed,
		AssessmentTimestamp: &now,
		AssessmentExpiry:    input.ExpireAt,
		TruthScore:          input.TruthScore,
		IsControversial:     input.IsControversial,
	})
}

// GetSubmissions trả về tất cả submissions của một message
func (s *MessageService) GetSubmissions(ctx context.Context, messageID string) ([]*models.Submission, error) {
	return s.messages.GetSubmissions(ctx, messageID)
}

// MarkSubmissionReplied đánh dấu submission đã được trả lời
func (s *MessageService) MarkSubmissionReplied(ctx context.Context, messageID, submissionID, replyCategory string) error {
	return s.messages.SubmissionRepositoryFor(messageID).MarkAsReplied(ctx, submissionID, replyCategory)
}

// optional chuyển string rỗng thành nil pointer
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
