package baserepo

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/firestore"

	"github.com/CheckMateSG/users-product/internal/common"
)

// guardEntity là entity tối giản cho các test guard, không cần store thật
type guardEntity struct {
	ID   string `firestore:"-"`
	Name string `firestore:"name"`
}

func (e *guardEntity) SetID(id string) { e.ID = id }
func (e *guardEntity) GetID() string   { return e.ID }

// newGroupRepo tạo repository bind vào collection group mà không cần client.
// Các guard ghi phải trả lỗi trước khi chạm tới store nên client nil là đủ.
func newGroupRepo(t *testing.T) *BaseRepositoryFirestore[guardEntity] {
	t.Helper()
	return NewBaseRepositoryFirestore[guardEntity](nil, NewCollectionGroupBinding("submissions", nil))
}

func TestGhiTrenCollectionGroupBiChan(t *testing.T) {
	repo := newGroupRepo(t)
	ctx := context.Background()
	entity := &guardEntity{Name: "x"}
	updates := []firestore.Update{{Path: "name", Value: "y"}}

	if _, err := repo.Create(ctx, entity); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("Create trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
	if err := repo.Update(ctx, "id-1", updates); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("Update trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
	if err := repo.Delete(ctx, "id-1"); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("Delete trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
}

func TestGhiTransactionTrenCollectionGroupBiChan(t *testing.T) {
	repo := newGroupRepo(t)
	entity := &guardEntity{Name: "x"}
	updates := []firestore.Update{{Path: "name", Value: "y"}}

	// Guard đứng trước mọi thao tác trên transaction handle nên tx nil là đủ
	var tx *firestore.Transaction

	if _, err := repo.CreateTx(tx, entity); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("CreateTx trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
	if err := repo.UpdateTx(tx, "id-1", updates); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("UpdateTx trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
	if err := repo.DeleteTx(tx, "id-1"); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("DeleteTx trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
}

func TestGhiBatchTrenCollectionGroupBiChan(t *testing.T) {
	repo := newGroupRepo(t)
	entity := &guardEntity{Name: "x"}
	updates := []firestore.Update{{Path: "name", Value: "y"}}

	var batch *firestore.WriteBatch

	if _, err := repo.CreateBatch(batch, entity); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("CreateBatch trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
	if err := repo.UpdateBatch(batch, "id-1", updates); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("UpdateBatch trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
	if err := repo.DeleteBatch(batch, "id-1"); !errors.Is(err, common.ErrCollectionGroupWrite) {
		t.Errorf("DeleteBatch trên group binding phải trả ErrCollectionGroupWrite, nhận được %v", err)
	}
}

func TestBindingAccessor(t *testing.T) {
	group := NewCollectionGroupBinding("submissions", nil)
	if !group.IsGroup() {
		t.Error("Binding collection group phải có IsGroup() == true")
	}
	if group.Name() != "submissions" {
		t.Errorf("Name() = %q, mong đợi %q", group.Name(), "submissions")
	}
	if group.Collection() != nil {
		t.Error("Collection() trên group binding phải trả nil")
	}
}

func TestStampIDKhongSuaEntityGoc(t *testing.T) {
	repo := newGroupRepo(t)
	original := &guardEntity{Name: "x"}

	stamped := repo.stampID(original, "id-moi")

	if stamped.ID != "id-moi" {
		t.Errorf("Bản sao phải mang ID mới, nhận được %q", stamped.ID)
	}
	if original.ID != "" {
		t.Errorf("Entity gốc không được thay đổi, ID = %q", original.ID)
	}
}
