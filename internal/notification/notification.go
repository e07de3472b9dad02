// Package notification cung cấp cơ chế push notification trong tiến trình.
// Các service nghiệp vụ (lock/unlock, cascade, ingest) phát notification qua
// PushNotification; các subscriber (delivery queue, websocket gateway tương lai)
// đăng ký qua OnNotification. Cơ chế giống event bus của package events nhưng
// tách riêng: data-change event phản ánh CRUD, notification phản ánh nghiệp vụ.
package notification

import (
	"context"
	"sync"
	"time"
)

// Notification là một thông báo nghiệp vụ được phát ra từ service layer.
type Notification struct {
	Name      string                 // Tên thông báo, dạng "<resource>:<action>" (vd: "events:lock")
	Payload   map[string]interface{} // Dữ liệu kèm theo (item ID, user, ...)
	CreatedAt int64                  // UnixMilli thời điểm phát
}

// Handler xử lý một notification.
type Handler func(ctx context.Context, n Notification)

var (
	handlers   []Handler
	handlersMu sync.RWMutex
)

// OnNotification đăng ký handler. Gọi khi init (ví dụ từ delivery package).
func OnNotification(h Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// PushNotification phát một notification tới mọi handler đã đăng ký.
// Mỗi handler chạy trong goroutine riêng, panic được recover để một
// subscriber lỗi không kéo theo request đang xử lý.
func PushNotification(ctx context.Context, name string, payload map[string]interface{}) {
	n := Notification{
		Name:      name,
		Payload:   payload,
		CreatedAt: time.Now().UnixMilli(),
	}

	handlersMu.RLock()
	list := make([]Handler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	for _, h := range list {
		go func(fn Handler) {
			defer func() {
				if r := recover(); r != nil {
					_ = r
				}
			}()
			fn(ctx, n)
		}(h)
	}
}
