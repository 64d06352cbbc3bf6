// Package baserepo cung cấp repository generic type-safe trên Firestore.
// Một repository bind vào đúng một collection (có parent xác định) hoặc một
// collection group (view cross-partition, chỉ đọc).
package baserepo

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	basemodels "github.com/CheckMateSG/users-product/internal/api/base/models"
	"github.com/CheckMateSG/users-product/internal/common"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// BaseRepositoryFirestore định nghĩa các thao tác CRUD và truy vấn cơ bản
// trên một binding Firestore, với ba biến thể ghi: thường, transaction, batch.
//
// Type Parameters:
//   - T: Kiểu dữ liệu của entity, *T phải thỏa mãn basemodels.Model
//
// Quy ước trả về cho các thao tác đọc: không tìm thấy -> (nil, nil),
// không phải error. Các thao tác ghi trên binding collection group trả về
// common.ErrCollectionGroupWrite trước khi chạm tới store.
type BaseRepositoryFirestore[T any] struct {
	binding  FirestoreBinding
	client   *firestore.Client
	txman    *TransactionManager
	batchman *BatchManager
	log      *logrus.Logger
}

// NewBaseRepositoryFirestore tạo mới một BaseRepositoryFirestore
//
// Parameters:
//   - client: Firestore client (inject tường minh từ nơi khởi tạo app)
//   - binding: Binding collection hoặc collection group
func NewBaseRepositoryFirestore[T any](client *firestore.Client, binding FirestoreBinding) *BaseRepositoryFirestore[T] {
	return &BaseRepositoryFirestore[T]{
		binding:  binding,
		client:   client,
		txman:    NewTransactionManager(client),
		batchman: NewBatchManager(client),
		log:      logger.GetDataLogger(),
	}
}

// Binding trả về binding hiện tại của repository
func (r *BaseRepositoryFirestore[T]) Binding() FirestoreBinding {
	return r.binding
}

// Client trả về Firestore client (dùng bởi các repository domain khi cần
// truy cập collection group hoặc document ref ngoài binding)
func (r *BaseRepositoryFirestore[T]) Client() *firestore.Client {
	return r.client
}

// decodeSnapshot giải mã một document snapshot thành *T và gán document ID.
// ID không nằm trong payload lưu trên store; nó được merge vào entity ở đây.
func (r *BaseRepositoryFirestore[T]) decodeSnapshot(snap *firestore.DocumentSnapshot) (*T, error) {
	out := new(T)
	if err := snap.DataTo(out); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			"Lỗi định dạng dữ liệu khi decode từ Firestore",
			common.StatusBadRequest,
			err,
		)
	}
	if m, ok := any(out).(basemodels.Model); ok {
		m.SetID(snap.Ref.ID)
	}
	return out, nil
}

// stampID sao chép entity và gán document ID lên bản sao (dùng cho các path
// ghi trong transaction/batch, nơi không đọc lại document sau khi ghi)
func (r *BaseRepositoryFirestore[T]) stampID(data *T, id string) *T {
	created := *data
	if m, ok := any(&created).(basemodels.Model); ok {
		m.SetID(id)
	}
	return &created
}

// ====================================
// NHÓM 1: THAO TÁC THƯỜNG (NGOÀI TRANSACTION)
// ====================================

// FindById tìm một document theo ID.
//
// Với binding collection: point read trực tiếp, O(1).
// Với binding collection group: query lọc theo document ID, limit 1 —
// chi phí O(query), caller không được giả định chi phí point read.
//
// Returns:
//   - (*T, nil): Tìm thấy
//   - (nil, nil): Không tìm thấy
func (r *BaseRepositoryFirestore[T]) FindById(ctx context.Context, id string) (*T, error) {
	if r.binding.IsGroup() {
		return r.QueryOne(ctx, r.binding.Query().Where(firestore.DocumentID, "==", id))
	}

	snap, err := r.binding.Collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		r.logOpError("FindById", id, err)
		return nil, common.ConvertFirestoreError(err)
	}
	return r.decodeSnapshot(snap)
}

// Create tạo mới một document với ID do store sinh ra, rồi đọc lại document
// vừa tạo để trả về entity đầy đủ.
// Không hỗ trợ trên binding collection group.
func (r *BaseRepositoryFirestore[T]) Create(ctx context.Context, data *T) (*T, error) {
	if r.binding.IsGroup() {
		return nil, common.ErrCollectionGroupWrite
	}

	ref, _, err := r.binding.Collection().Add(ctx, data)
	if err != nil {
		r.logOpError("Create", "", err)
		return nil, common.ConvertFirestoreError(err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		r.logOpError("Create", ref.ID, err)
		return nil, common.ConvertFirestoreError(err)
	}
	return r.decodeSnapshot(snap)
}

// Update cập nhật một phần document theo ID.
// Document không tồn tại -> lỗi NotFound từ store được propagate, không nuốt.
// Không hỗ trợ trên binding collection group.
func (r *BaseRepositoryFirestore[T]) Update(ctx context.Context, id string, updates []firestore.Update) error {
	if r.binding.IsGroup() {
		return common.ErrCollectionGroupWrite
	}

	if _, err := r.binding.Collection().Doc(id).Update(ctx, updates); err != nil {
		r.logOpError("Update", id, err)
		return common.ConvertFirestoreError(err)
	}
	return nil
}

// Delete xóa một document theo ID (chỉ dùng cho test cleanup trong vận hành
// bình thường, các entity không bị xóa).
// Không hỗ trợ trên binding collection group.
func (r *BaseRepositoryFirestore[T]) Delete(ctx context.Context, id string) error {
	if r.binding.IsGroup() {
		return common.ErrCollectionGroupWrite
	}

	if _, err := r.binding.Collection().Doc(id).Delete(ctx); err != nil {
		r.logOpError("Delete", id, err)
		return common.ConvertFirestoreError(err)
	}
	return nil
}

// GetAll trả về tất cả documents trong binding
func (r *BaseRepositoryFirestore[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.QueryMany(ctx, r.binding.Query())
}

// QueryOne chạy query với limit 1 và decode kết quả đầu tiên.
// Không có kết quả -> (nil, nil).
func (r *BaseRepositoryFirestore[T]) QueryOne(ctx context.Context, q firestore.Query) (*T, error) {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		r.logOpError("QueryOne", "", err)
		return nil, common.ConvertFirestoreError(err)
	}
	return r.decodeSnapshot(snap)
}

// QueryMany chạy query và decode tất cả kết quả.
// Luôn trả về slice (có thể rỗng), không trả về nil khi thành công.
func (r *BaseRepositoryFirestore[T]) QueryMany(ctx context.Context, q firestore.Query) ([]*T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	results := []*T{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			r.logOpError("QueryMany", "", err)
			return nil, common.ConvertFirestoreError(err)
		}
		entity, err := r.decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// ====================================
// NHÓM 2: THAO TÁC TRONG TRANSACTION
// ====================================
//
// Các hàm *Tx nhận transaction handle do caller cung cấp (qua WithTransaction);
// mọi đọc/ghi đi qua handle đó nên tham gia vào tính atomic và cơ chế retry
// theo conflict của transaction.

// FindByIdTx tìm document theo ID trong transaction
func (r *BaseRepositoryFirestore[T]) FindByIdTx(tx *firestore.Transaction, id string) (*T, error) {
	if r.binding.IsGroup() {
		return r.QueryOneTx(tx, r.binding.Query().Where(firestore.DocumentID, "==", id))
	}

	snap, err := tx.Get(r.binding.Collection().Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		r.logOpError("FindByIdTx", id, err)
		return nil, common.ConvertFirestoreError(err)
	}
	return r.decodeSnapshot(snap)
}

// CreateTx stage việc tạo document vào transaction. ID được cấp phát ngay
// (store sinh ref mới) và gán lên entity trả về; bản ghi chỉ thực sự tồn tại
// khi transaction commit.
func (r *BaseRepositoryFirestore[T]) CreateTx(tx *firestore.Transaction, data *T) (*T, error) {
	if r.binding.IsGroup() {
		return nil, common.ErrCollectionGroupWrite
	}

	ref := r.binding.Collection().NewDoc()
	if err := tx.Set(ref, data); err != nil {
		r.logOpError("CreateTx", ref.ID, err)
		return nil, common.ConvertFirestoreError(err)
	}
	return r.stampID(data, ref.ID), nil
}

// UpdateTx stage việc cập nhật document vào transaction
func (r *BaseRepositoryFirestore[T]) UpdateTx(tx *firestore.Transaction, id string, updates []firestore.Update) error {
	if r.binding.IsGroup() {
		return common.ErrCollectionGroupWrite
	}

	if err := tx.Update(r.binding.Collection().Doc(id), updates); err != nil {
		r.logOpError("UpdateTx", id, err)
		return common.ConvertFirestoreError(err)
	}
	return nil
}

// DeleteTx stage việc xóa document vào transaction
func (r *BaseRepositoryFirestore[T]) DeleteTx(tx *firestore.Transaction, id string) error {
	if r.binding.IsGroup() {
		return common.ErrCollectionGroupWrite
	}

	if err := tx.Delete(r.binding.Collection().Doc(id)); err != nil {
		r.logOpError("DeleteTx", id, err)
		return common.ConvertFirestoreError(err)
	}
	return nil
}

// QueryOneTx chạy query với limit 1 trong transaction.
// Không có kết quả -> (nil, nil).
func (r *BaseRepositoryFirestore[T]) QueryOneTx(tx *firestore.Transaction, q firestore.Query) (*T, error) {
	iter := tx.Documents(q.Limit(1))
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		r.logOpError("QueryOneTx", "", err)
		return nil, common.ConvertFirestoreError(err)
	}
	return r.decodeSnapshot(snap)
}

// QueryManyTx chạy query trong transaction và decode tất cả kết quả
func (r *BaseRepositoryFirestore[T]) QueryManyTx(tx *firestore.Transaction, q firestore.Query) ([]*T, error) {
	iter := tx.Documents(q)
	defer iter.Stop()

	results := []*T{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			r.logOpError("QueryManyTx", "", err)
			return nil, common.ConvertFirestoreError(err)
		}
		entity, err := r.decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// WithTransaction chạy một unit of work trong một transaction của store.
// Lưu ý mô hình Firestore: mọi thao tác đọc phải đứng trước thao tác ghi
// trong cùng transaction — không có read-your-writes trong một transaction;
// fn không được có side effect ngoài transaction handle (không gọi API
// ngoài trong fn) vì store có thể tự chạy lại fn khi conflict.
func (r *BaseRepositoryFirestore[T]) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *firestore.Transaction) error) error {
	return r.txman.RunTransaction(ctx, fn)
}

// ====================================
// NHÓM 3: THAO TÁC TRONG BATCH
// ====================================
//
// Batch là write-only: không có biến thể đọc. Các hàm *Batch stage write vào
// batch handle do caller cung cấp; tất cả writes được apply atomic khi commit.

// CreateBatch stage việc tạo document vào batch, trả về entity đã gán ID mới
func (r *BaseRepositoryFirestore[T]) CreateBatch(batch *firestore.WriteBatch, data *T) (*T, error) {
	if r.binding.IsGroup() {
		return nil, common.ErrCollectionGroupWrite
	}

	ref := r.binding.Collection().NewDoc()
	batch.Set(ref, data)
	return r.stampID(data, ref.ID), nil
}

// UpdateBatch stage việc cập nhật document vào batch
func (r *BaseRepositoryFirestore[T]) UpdateBatch(batch *firestore.WriteBatch, id string, updates []firestore.Update) error {
	if r.binding.IsGroup() {
		return common.ErrCollectionGroupWrite
	}

	batch.Update(r.binding.Collection().Doc(id), updates)
	return nil
}

// WithBatch chạy fn với batch handle hiện tại của repository rồi commit.
// Vòng đời batch này confined trong một caller logic (xem BatchManager).
func (r *BaseRepositoryFirestore[T]) WithBatch(ctx context.Context, fn func(batch *firestore.WriteBatch) error) error {
	batch := r.batchman.GetBatch()
	if err := fn(batch); err != nil {
		r.batchman.Reset()
		return err
	}
	return r.batchman.Commit(ctx)
}

// DeleteBatch stage việc xóa document vào batch
func (r *BaseRepositoryFirestore[T]) DeleteBatch(batch *firestore.WriteBatch, id string) error {
	if r.binding.IsGroup() {
		return common.ErrCollectionGroupWrite
	}

	batch.Delete(r.binding.Collection().Doc(id))
	return nil
}

// logOpError log lỗi store với context thao tác trước khi propagate
func (r *BaseRepositoryFirestore[T]) logOpError(op string, id string, err error) {
	fields := logrus.Fields{
		"collection": r.binding.Name(),
		"operation":  op,
	}
	if id != "" {
		fields["id"] = id
	}
	r.log.WithFields(fields).WithError(err).Error("Thao tác Firestore thất bại")
}
