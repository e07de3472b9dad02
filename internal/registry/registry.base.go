// Package registry cung cấp một generic registry thread-safe, dùng làm nơi
// giữ các singleton của ứng dụng (hiện tại là các *mongo.Collection, đăng ký
// một lần lúc khởi động rồi chỉ đọc).
package registry

import (
	"fmt"
	"sync"

	"planning_api/internal/common"
)

// Registry quản lý items theo tên. An toàn cho truy cập đồng thời.
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo một registry rỗng cho kiểu T.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register đăng ký item theo tên, ghi đè nếu tên đã tồn tại.
// Trả về isNew=true khi tên chưa từng được đăng ký.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("tên đăng ký không được rỗng: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}
