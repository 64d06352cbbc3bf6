package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/CheckMateSG/users-product/internal/api/triage/models"
)

// Các test trong file này chạy trên Firestore emulator. Thiếu emulator thì
// skip, không fail: CI không bắt buộc có emulator.
//
//	gcloud emulators firestore start --host-port=localhost:8080
//	FIRESTORE_EMULATOR_HOST=localhost:8080 go test ./internal/api/triage/...

func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Bỏ qua: cần FIRESTORE_EMULATOR_HOST trỏ tới Firestore emulator")
	}

	client, err := firestore.NewClient(context.Background(), "triage-test")
	if err != nil {
		t.Fatalf("Không kết nối được emulator: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// newSourceUniqueID sinh token dedup không trùng giữa các lần chạy test
// (emulator giữ dữ liệu giữa các lần chạy trong cùng một phiên)
func newSourceUniqueID(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("%s-%d", t.Name(), time.Now().UnixNano())
}

func newTextSubmission(sourceUniqueID string) *models.Submission {
	text := "tin nhắn cần kiểm chứng"
	return &models.Submission{
		Source:         "whatsapp",
		SourceUniqueID: sourceUniqueID,
		Timestamp:      time.Now(),
		Type:           "text",
		Text:           &text,
	}
}

func newTextMessage() *models.Message {
	text := "tin nhắn cần kiểm chứng"
	now := time.Now()
	return &models.Message{
		Text:                   &text,
		FirstTimestamp:         now,
		LastTimestamp:          now,
		LastRefreshedTimestamp: now,
		Tags:                   map[string]bool{},
	}
}

func TestCreateMessageWithSubmissionIdempotent(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewMessageRepository(client)
	ctx := context.Background()
	sourceUniqueID := newSourceUniqueID(t)

	msg, sub, err := repo.CreateMessageWithSubmission(ctx, newTextMessage(), newTextSubmission(sourceUniqueID), sourceUniqueID)
	if err != nil {
		t.Fatalf("Lần ghi đầu thất bại: %v", err)
	}
	if msg == nil || sub == nil {
		t.Fatal("Lần ghi đầu phải trả về message và submission")
	}
	if msg.ID == "" || sub.ID == "" {
		t.Fatal("Entity trả về phải mang document ID")
	}

	// Cùng sourceUniqueId lần hai: không lỗi, không ghi gì
	msg2, sub2, err := repo.CreateMessageWithSubmission(ctx, newTextMessage(), newTextSubmission(sourceUniqueID), sourceUniqueID)
	if err != nil {
		t.Fatalf("Delivery trùng không được coi là lỗi: %v", err)
	}
	if msg2 != nil || sub2 != nil {
		t.Errorf("Delivery trùng phải trả (nil, nil), nhận được (%v, %v)", msg2, sub2)
	}

	stored, err := repo.FindById(ctx, msg.ID)
	if err != nil {
		t.Fatalf("Đọc lại message thất bại: %v", err)
	}
	if stored.SubmissionCount != 1 {
		t.Errorf("submissionCount = %d, mong đợi 1 (delivery trùng không được tăng counter)", stored.SubmissionCount)
	}
	if stored.LatestSubmission == nil || stored.LatestSubmission.ID != sub.ID {
		t.Error("latestSubmission phải trỏ tới submission đầu tiên")
	}
}

func TestAddSubmissionTangCounterVaLatestSubmission(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewMessageRepository(client)
	ctx := context.Background()

	firstID := newSourceUniqueID(t)
	msg, _, err := repo.CreateMessageWithSubmission(ctx, newTextMessage(), newTextSubmission(firstID), firstID)
	if err != nil {
		t.Fatalf("Seed message thất bại: %v", err)
	}

	secondID := firstID + "-2"
	sub2, err := repo.AddSubmission(ctx, msg.ID, newTextSubmission(secondID), secondID)
	if err != nil {
		t.Fatalf("AddSubmission thất bại: %v", err)
	}
	if sub2 == nil || sub2.ID == "" {
		t.Fatal("AddSubmission phải trả về submission đã gán ID")
	}

	stored, err := repo.FindById(ctx, msg.ID)
	if err != nil {
		t.Fatalf("Đọc lại message thất bại: %v", err)
	}
	if stored.SubmissionCount != 2 {
		t.Errorf("submissionCount = %d, mong đợi 2", stored.SubmissionCount)
	}
	if stored.LatestSubmission == nil || stored.LatestSubmission.ID != sub2.ID {
		t.Error("latestSubmission phải trỏ tới submission mới nhất")
	}

	subs, err := repo.GetSubmissions(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetSubmissions thất bại: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("Số submission = %d, mong đợi 2", len(subs))
	}
}

func TestAddSubmissionTrungSourceUniqueId(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewMessageRepository(client)
	ctx := context.Background()

	sourceUniqueID := newSourceUniqueID(t)
	msg, _, err := repo.CreateMessageWithSubmission(ctx, newTextMessage(), newTextSubmission(sourceUniqueID), sourceUniqueID)
	if err != nil {
		t.Fatalf("Seed message thất bại: %v", err)
	}

	// sourceUniqueId đã xử lý ở message này rồi, gắn lại phải là no-op
	sub, err := repo.AddSubmission(ctx, msg.ID, newTextSubmission(sourceUniqueID), sourceUniqueID)
	if err != nil {
		t.Fatalf("Delivery trùng không được coi là lỗi: %v", err)
	}
	if sub != nil {
		t.Errorf("Delivery trùng phải trả nil, nhận được %v", sub)
	}

	stored, err := repo.FindById(ctx, msg.ID)
	if err != nil {
		t.Fatalf("Đọc lại message thất bại: %v", err)
	}
	if stored.SubmissionCount != 1 {
		t.Errorf("submissionCount = %d, mong đợi 1", stored.SubmissionCount)
	}
}

func TestFindBySourceUniqueIdQuaCollectionGroup(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewMessageRepository(client)
	groupRepo := NewSubmissionRepository(client, "")
	ctx := context.Background()

	sourceUniqueID := newSourceUniqueID(t)
	if _, _, err := repo.CreateMessageWithSubmission(ctx, newTextMessage(), newTextSubmission(sourceUniqueID), sourceUniqueID); err != nil {
		t.Fatalf("Seed message thất bại: %v", err)
	}

	found, err := groupRepo.FindBySourceUniqueId(ctx, sourceUniqueID)
	if err != nil {
		t.Fatalf("FindBySourceUniqueId thất bại: %v", err)
	}
	if found == nil {
		t.Fatal("Submission phải tìm thấy được qua collection group, bất kể message cha")
	}
	if found.SourceUniqueID != sourceUniqueID {
		t.Errorf("sourceUniqueId = %q, mong đợi %q", found.SourceUniqueID, sourceUniqueID)
	}

	missing, err := groupRepo.FindBySourceUniqueId(ctx, sourceUniqueID+"-khong-ton-tai")
	if err != nil {
		t.Fatalf("Query không có kết quả không được lỗi: %v", err)
	}
	if missing != nil {
		t.Errorf("Token chưa từng xử lý phải trả nil, nhận được %v", missing)
	}
}

func TestUserQuotaLockstep(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewUserRepository(client)
	ctx := context.Background()

	whatsappID := newSourceUniqueID(t)
	user, err := repo.Create(ctx, &models.User{
		WhatsappID:              &whatsappID,
		FirstInteractionTime:    time.Now(),
		Language:                "en",
		Tier:                    "free",
		DailySubmissionLimit:    5,
		NumSubmissionsRemaining: 5,
	})
	if err != nil {
		t.Fatalf("Seed user thất bại: %v", err)
	}

	if err := repo.IncrementSubmissionCount(ctx, user.ID, 2); err != nil {
		t.Fatalf("IncrementSubmissionCount thất bại: %v", err)
	}

	stored, err := repo.FindById(ctx, user.ID)
	if err != nil {
		t.Fatalf("Đọc lại user thất bại: %v", err)
	}
	if stored.SubmissionCount != 2 {
		t.Errorf("submissionCount = %d, mong đợi 2", stored.SubmissionCount)
	}
	if stored.NumSubmissionsRemaining != 3 {
		t.Errorf("numSubmissionsRemaining = %d, mong đợi 3 (hai counter phải di chuyển lockstep)", stored.NumSubmissionsRemaining)
	}
}

func TestMarkAssessmentsExpired(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewMessageRepository(client)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	seed := func() string {
		msg := newTextMessage()
		msg.IsAssessed = true
		msg.AssessmentExpiry = &past
		created, err := repo.Create(ctx, msg)
		if err != nil {
			t.Fatalf("Seed message thất bại: %v", err)
		}
		return created.ID
	}
	ids := []string{seed(), seed()}

	expired, err := repo.FindExpiredAssessments(ctx, time.Now(), 100)
	if err != nil {
		t.Fatalf("FindExpiredAssessments thất bại: %v", err)
	}
	found := map[string]bool{}
	for _, m := range expired {
		found[m.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			t.Errorf("Message %s phải nằm trong kết quả expired", id)
		}
	}

	if err := repo.MarkAssessmentsExpired(ctx, ids); err != nil {
		t.Fatalf("MarkAssessmentsExpired thất bại: %v", err)
	}

	for _, id := range ids {
		stored, err := repo.FindById(ctx, id)
		if err != nil {
			t.Fatalf("Đọc lại message thất bại: %v", err)
		}
		if !stored.AssessmentExpired {
			t.Errorf("Message %s phải được đánh dấu assessmentExpired", id)
		}
	}

	// Đã đánh dấu rồi thì không xuất hiện lại trong batch kế tiếp
	expired, err = repo.FindExpiredAssessments(ctx, time.Now(), 100)
	if err != nil {
		t.Fatalf("FindExpiredAssessments thất bại: %v", err)
	}
	for _, m := range expired {
		if m.ID == ids[0] || m.ID == ids[1] {
			t.Errorf("Message %s đã expired vẫn xuất hiện trong kết quả", m.ID)
		}
	}
}
