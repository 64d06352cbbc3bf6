// Package dto - DTO cho domain triage (message, submission).
package dto

import (
	"time"

	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
)

// SubmitMessageInput dữ liệu cho một lần user gửi message vào hệ thống.
// MessageID rỗng = tạo message mới kèm submission đầu tiên; khác rỗng = gắn
// submission vào message đã có.
type SubmitMessageInput struct {
	MessageID       string `json:"messageId,omitempty"`
	Source          string `json:"source" validate:"required"`
	SourceUniqueID  string `json:"sourceUniqueId" validate:"required"`
	Type            string `json:"type" validate:"required,oneof=text image"`
	Text            string `json:"text,omitempty" validate:"omitempty,no_xss"`
	Caption         string `json:"caption,omitempty" validate:"omitempty,no_xss"`
	TextHash        string `json:"textHash,omitempty"`
	CaptionHash     string `json:"captionHash,omitempty"`
	SenderID        string `json:"senderId,omitempty"`
	SenderType      string `json:"senderType,omitempty" validate:"omitempty,oneof=whatsapp telegram email"`
	MachineCategory string `json:"machineCategory,omitempty"`
}

// SubmitMessageResult kết quả của một lần submit.
// Duplicate = true khi sourceUniqueId đã được xử lý trước đó, Message và
// Submission khi đó là nil.
type SubmitMessageResult struct {
	Duplicate  bool                `json:"duplicate"`
	Message    *MessageResponse    `json:"message,omitempty"`
	Submission *SubmissionResponse `json:"submission,omitempty"`
}

// AssessMessageInput dữ liệu cập nhật assessment cho message
type AssessMessageInput struct {
	IsAssessed      *bool      `json:"isAssessed"`
	TruthScore      *float64   `json:"truthScore" validate:"omitempty,gte=0,lte=5"`
	IsControversial *bool      `json:"isControversial"`
	ExpireAt        *time.Time `json:"expireAt"`
}

// MessageResponse trả về message
type MessageResponse struct {
	ID                   string     `json:"id"`
	MachineCategory      string     `json:"machineCategory"`
	IsMachineCategorised bool       `json:"isMachineCategorised"`
	Text                 *string    `json:"text"`
	Caption              *string    `json:"caption"`
	IsAssessed           bool       `json:"isAssessed"`
	IsVotingTriggered    bool       `json:"isVotingTriggered"`
	TruthScore           *float64   `json:"truthScore"`
	SubmissionCount      int64      `json:"submissionCount"`
	FirstTimestamp       time.Time  `json:"firstTimestamp"`
	LastTimestamp        time.Time  `json:"lastTimestamp"`
	AssessmentTimestamp  *time.Time `json:"assessmentTimestamp"`
}

// SubmissionResponse trả về submission
type SubmissionResponse struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	SourceUniqueID string    `json:"sourceUniqueId"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	IsReplied      bool      `json:"isReplied"`
	ReplyCategory  *string   `json:"replyCategory"`
}

// ToMessageResponse chuyển model sang response
func ToMessageResponse(m *models.Message) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:                   m.ID,
		MachineCategory:      m.MachineCategory,
		IsMachineCategorised: m.IsMachineCategorised,
		Text:                 m.Text,
		Caption:              m.Caption,
		IsAssessed:           m.IsAssessed,
		IsVotingTriggered:    m.IsVotingTriggered,
		TruthScore:           m.TruthScore,
		SubmissionCount:      m.SubmissionCount,
		FirstTimestamp:       m.FirstTimestamp,
		LastTimestamp:        m.LastTimestamp,
		AssessmentTimestamp:  m.AssessmentTimestamp,
	}
}

// ToSubmissionResponse chuyển model sang response
func ToSubmissionResponse(s *models.Submission) *SubmissionResponse {
	if s == nil {
		return nil
	}
	return &SubmissionResponse{
		ID:             s.ID,
		Source:         s.Source,
		SourceUniqueID: s.SourceUniqueID,
		Type:           s.Type,
		Timestamp:      s.Timestamp,
		IsReplied:      s.IsReplied,
		ReplyCategory:  s.ReplyCategory,
	}
}
