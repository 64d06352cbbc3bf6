package triagevc

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	triagedto "github.com/CheckMateSG/users-product/internal/api/triage/dto"
	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
	triagerepo "github.com/CheckMateSG/users-product/internal/api/triage/repository"
	"github.com/CheckMateSG/users-product/internal/global"
)

// Các test trong file này chạy trên Firestore emulator, skip khi thiếu
// (xem repository.message_test.go về cách chạy emulator).

func newEmulatorService(t *testing.T) (*MessageService, *triagerepo.UserRepository) {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Bỏ qua: cần FIRESTORE_EMULATOR_HOST trỏ tới Firestore emulator")
	}
	global.InitValidator()

	client, err := firestore.NewClient(context.Background(), "triage-test")
	if err != nil {
		t.Fatalf("Không kết nối được emulator: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewMessageService(client, nil), triagerepo.NewUserRepository(client)
}

func TestSubmitMessageTruQuotaTheoSenderType(t *testing.T) {
	svc, users := newEmulatorService(t)
	ctx := context.Background()

	telegramID := fmt.Sprintf("%s-%d", t.Name(), time.Now().UnixNano())
	user, err := users.Create(ctx, &models.User{
		TelegramID:              &telegramID,
		FirstInteractionTime:    time.Now(),
		Language:                "en",
		Tier:                    "free",
		DailySubmissionLimit:    5,
		NumSubmissionsRemaining: 5,
	})
	if err != nil {
		t.Fatalf("Seed user thất bại: %v", err)
	}

	result, err := svc.SubmitMessage(ctx, &triagedto.SubmitMessageInput{
		Source:         "telegram",
		SourceUniqueID: telegramID + "-sub",
		Type:           "text",
		Text:           "tin nhắn cần kiểm chứng",
		SenderID:       telegramID,
		SenderType:     "telegram",
	})
	if err != nil {
		t.Fatalf("SubmitMessage thất bại: %v", err)
	}
	if result.Duplicate {
		t.Fatal("Lần gửi đầu không được coi là duplicate")
	}

	stored, err := users.FindById(ctx, user.ID)
	if err != nil {
		t.Fatalf("Đọc lại user thất bại: %v", err)
	}
	if stored.SubmissionCount != 1 {
		t.Errorf("submissionCount = %d, mong đợi 1 (sender telegram phải được tìm theo telegramId)", stored.SubmissionCount)
	}
	if stored.NumSubmissionsRemaining != 4 {
		t.Errorf("numSubmissionsRemaining = %d, mong đợi 4", stored.NumSubmissionsRemaining)
	}
}

func TestSubmitMessageSenderTypeKhongHopLeBiChan(t *testing.T) {
	svc, _ := newEmulatorService(t)

	_, err := svc.SubmitMessage(context.Background(), &triagedto.SubmitMessageInput{
		Source:         "whatsapp",
		SourceUniqueID: fmt.Sprintf("%s-%d", t.Name(), time.Now().UnixNano()),
		Type:           "text",
		Text:           "tin nhắn cần kiểm chứng",
		SenderID:       "someone",
		SenderType:     "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("senderType ngoài danh sách cho phép phải bị validation chặn")
	}
}
