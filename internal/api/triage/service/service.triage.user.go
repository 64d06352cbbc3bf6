// Package triagevc - Service user (quota, referral).
package triagevc

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	triagedto "github.com/CheckMateSG/users-product/internal/api/triage/dto"
	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
	triagerepo "github.com/CheckMateSG/users-product/internal/api/triage/repository"
	"github.com/CheckMateSG/users-product/internal/common"
	"github.com/CheckMateSG/users-product/internal/global"
)

// Quota mặc định cho user mới
const defaultDailySubmissionLimit = 5

// UserService xử lý nghiệp vụ user
type UserService struct {
	users *triagerepo.UserRepository
}

// NewUserService tạo UserService mới
func NewUserService(client *firestore.Client) *UserService {
	return &UserService{users: triagerepo.NewUserRepository(client)}
}

// CreateUser tạo user mới, yêu cầu đúng một identity channel được set
func (s *UserService) CreateUser(ctx context.Context, input *triagedto.UserCreateInput) (*models.User, error) {
	if err := global.Validate.Struct(input); err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput, "Dữ liệu user không hợp lệ", common.StatusBadRequest, err.Error())
	}
	channels := 0
	for _, c := range []*string{input.WhatsappID, input.TelegramID, input.EmailID} {
		if c != nil && *c != "" {
			channels++
		}
	}
	if channels != 1 {
		return nil, common.NewError(common.ErrCodeValidationInput,
			"User phải có đúng một identity channel (whatsappId, telegramId hoặc emailId)",
			common.StatusBadRequest, nil)
	}

	language := input.Language
	if language == "" {
		language = "en"
	}
	user := &models.User{
		WhatsappID:              input.WhatsappID,
		TelegramID:              input.TelegramID,
		EmailID:                 input.EmailID,
		FirstInteractionTime:    time.Now(),
		Utm:                     models.UtmParameters{Source: input.UtmSource, Medium: input.UtmMedium},
		Language:                language,
		Tier:                    "free",
		DailySubmissionLimit:    defaultDailySubmissionLimit,
		NumSubmissionsRemaining: defaultDailySubmissionLimit,
		InitialJourney:          map[string]string{},
	}
	return s.users.Create(ctx, user)
}

// GetUser trả về user theo id, (nil, nil) nếu không tồn tại
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindById(ctx, id)
}

// FindByChannel tìm user theo identity channel.
// channel nhận "whatsapp", "telegram" hoặc "email".
func (s *UserService) FindByChannel(ctx context.Context, channel, channelID string) (*models.User, error) {
	switch channel {
	case "whatsapp":
		return s.users.FindByWhatsappId(ctx, channelID)
	case "telegram":
		return s.users.FindByTelegramId(ctx, channelID)
	case "email":
		return s.users.FindByEmailId(ctx, channelID)
	default:
		return nil, common.NewError(common.ErrCodeValidationInput,
			"Channel không hợp lệ, chỉ nhận whatsapp, telegram hoặc email",
			common.StatusBadRequest, nil)
	}
}

// RecordReferral tăng referralCount của user giới thiệu
func (s *UserService) RecordReferral(ctx context.Context, userID string) error {
	return s.users.IncrementReferralCount(ctx, userID)
}
