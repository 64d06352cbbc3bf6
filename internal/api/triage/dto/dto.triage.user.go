// Package dto - DTO cho domain triage (user).
package dto

import (
	"time"

	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
)

// UserCreateInput dữ liệu tạo user mới. Đúng một định danh kênh phải được set.
type UserCreateInput struct {
	WhatsappID *string `json:"whatsappId" validate:"omitempty,min=1"`
	TelegramID *string `json:"telegramId" validate:"omitempty,min=1"`
	EmailID    *string `json:"emailId" validate:"omitempty,email_format"`
	Language   string  `json:"language,omitempty"`
	UtmSource  string  `json:"utmSource,omitempty"`
	UtmMedium  string  `json:"utmMedium,omitempty"`
}

// UserResponse trả về user
type UserResponse struct {
	ID                      string    `json:"id"`
	WhatsappID              *string   `json:"whatsappId"`
	TelegramID              *string   `json:"telegramId"`
	EmailID                 *string   `json:"emailId"`
	SubmissionCount         int64     `json:"submissionCount"`
	NumSubmissionsRemaining int64     `json:"numSubmissionsRemaining"`
	ReferralCount           int64     `json:"referralCount"`
	Language                string    `json:"language"`
	IsSubscribedUpdates     bool      `json:"isSubscribedUpdates"`
	FirstInteractionTime    time.Time `json:"firstInteractionTime"`
}

// ToUserResponse chuyển model sang response
func ToUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:                      u.ID,
		WhatsappID:              u.WhatsappID,
		TelegramID:              u.TelegramID,
		EmailID:                 u.EmailID,
		SubmissionCount:         u.SubmissionCount,
		NumSubmissionsRemaining: u.NumSubmissionsRemaining,
		ReferralCount:           u.ReferralCount,
		Language:                u.Language,
		IsSubscribedUpdates:     u.IsSubscribedUpdates,
		FirstInteractionTime:    u.FirstInteractionTime,
	}
}
