package baserepo

import (
	"context"
	"errors"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
)

func TestBatchManagerTichLuyVaoCungMotHandle(t *testing.T) {
	m := NewBatchManager(nil)

	b1 := m.GetBatch()
	b2 := m.GetBatch()
	if b1 != b2 {
		t.Error("GetBatch trước khi commit phải trả về cùng một handle")
	}
}

func TestBatchManagerResetCapHandleMoi(t *testing.T) {
	m := NewBatchManager(nil)

	b1 := m.GetBatch()
	m.Reset()
	if m.GetBatch() == b1 {
		t.Error("Reset phải cấp một handle rỗng mới")
	}
}

// newEmulatorRepo tạo repository bind vào một collection thật trên Firestore
// emulator, skip khi thiếu emulator
func newEmulatorRepo(t *testing.T) *BaseRepositoryFirestore[guardEntity] {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Bỏ qua: cần FIRESTORE_EMULATOR_HOST trỏ tới Firestore emulator")
	}

	client, err := firestore.NewClient(context.Background(), "triage-test")
	if err != nil {
		t.Fatalf("Không kết nối được emulator: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewBaseRepositoryFirestore[guardEntity](client, NewCollectionBinding(client.Collection("batch_entities")))
}

func TestBatchCommitThatBaiKhongGhiMotPhan(t *testing.T) {
	repo := newEmulatorRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &guardEntity{Name: "truoc"})
	if err != nil {
		t.Fatalf("Seed document thất bại: %v", err)
	}

	// Một write hợp lệ + một update lên document không tồn tại: commit phải
	// fail và KHÔNG write nào được apply
	var staged *firestore.WriteBatch
	err = repo.WithBatch(ctx, func(batch *firestore.WriteBatch) error {
		staged = batch
		if err := repo.UpdateBatch(batch, created.ID, []firestore.Update{{Path: "name", Value: "sau"}}); err != nil {
			return err
		}
		return repo.UpdateBatch(batch, "khong-ton-tai", []firestore.Update{{Path: "name", Value: "x"}})
	})
	if err == nil {
		t.Fatal("Commit chứa update lên document không tồn tại phải thất bại")
	}

	stored, err := repo.FindById(ctx, created.ID)
	if err != nil {
		t.Fatalf("Đọc lại document thất bại: %v", err)
	}
	if stored.Name != "truoc" {
		t.Errorf("Không được apply một phần: name = %q, mong đợi %q", stored.Name, "truoc")
	}

	// Sau commit thất bại, handle phải được cấp mới và manager tái sử dụng được
	if repo.batchman.GetBatch() == staged {
		t.Error("Sau commit thất bại, handle phải được cấp mới")
	}
	err = repo.WithBatch(ctx, func(batch *firestore.WriteBatch) error {
		return repo.UpdateBatch(batch, created.ID, []firestore.Update{{Path: "name", Value: "sau"}})
	})
	if err != nil {
		t.Fatalf("Batch hợp lệ sau lần fail phải commit được: %v", err)
	}
	stored, err = repo.FindById(ctx, created.ID)
	if err != nil {
		t.Fatalf("Đọc lại document thất bại: %v", err)
	}
	if stored.Name != "sau" {
		t.Errorf("Batch hợp lệ phải được apply: name = %q, mong đợi %q", stored.Name, "sau")
	}
}

func TestWithBatchLoiTuFnKhongCommitVaResetHandle(t *testing.T) {
	repo := newGroupRepo(t)
	wantErr := errors.New("lỗi khi stage")

	var staged *firestore.WriteBatch
	err := repo.WithBatch(context.Background(), func(batch *firestore.WriteBatch) error {
		staged = batch
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Lỗi từ fn phải được propagate nguyên vẹn, nhận được %v", err)
	}
	if repo.batchman.GetBatch() == staged {
		t.Error("Sau khi fn lỗi, handle đang stage phải bị bỏ và cấp mới")
	}
}
