package baserepo

import (
	"cloud.google.com/go/firestore"
)

// bindingKind phân biệt hai dạng binding của repository
type bindingKind int

const (
	// bindingCollection: repository gắn với một collection có parent xác định
	// (collection gốc hoặc subcollection của một document cụ thể)
	bindingCollection bindingKind = iota

	// bindingCollectionGroup: repository gắn với collection group — view
	// cross-partition trên mọi collection cùng tên leaf, bất kể parent.
	// Chỉ đọc được, không ghi được (không có path duy nhất để ghi).
	bindingCollectionGroup
)

// FirestoreBinding xác định binding của một repository tại thời điểm khởi tạo.
// Kind được kiểm tra một lần ở constructor và mang theo như typed state,
// không suy lại từ runtime type check ở mỗi lần gọi.
type FirestoreBinding struct {
	kind  bindingKind
	name  string // Tên leaf collection, dùng cho logging
	coll  *firestore.CollectionRef
	group *firestore.CollectionGroupRef
}

// NewCollectionBinding tạo binding cho một collection có parent xác định
func NewCollectionBinding(coll *firestore.CollectionRef) FirestoreBinding {
	return FirestoreBinding{
		kind: bindingCollection,
		name: coll.ID,
		coll: coll,
	}
}

// NewCollectionGroupBinding tạo binding cho một collection group (chỉ đọc).
// name là tên leaf collection đã truyền cho client.CollectionGroup.
func NewCollectionGroupBinding(name string, group *firestore.CollectionGroupRef) FirestoreBinding {
	return FirestoreBinding{
		kind:  bindingCollectionGroup,
		name:  name,
		group: group,
	}
}

// IsGroup cho biết binding có phải collection group không
func (b FirestoreBinding) IsGroup() bool {
	return b.kind == bindingCollectionGroup
}

// Name trả về tên leaf collection của binding
func (b FirestoreBinding) Name() string {
	return b.name
}

// Collection trả về collection ref (nil nếu binding là collection group)
func (b FirestoreBinding) Collection() *firestore.CollectionRef {
	return b.coll
}

// Query trả về query gốc của binding, dùng làm điểm xuất phát cho các truy vấn
func (b FirestoreBinding) Query() firestore.Query {
	if b.kind == bindingCollectionGroup {
		return b.group.Query
	}
	return b.coll.Query
}
