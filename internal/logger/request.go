package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest trả về một log entry đã gắn sẵn các thông tin của request hiện tại.
// Dùng trong middleware và error handler để trace request qua request ID.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	}

	if requestID := c.Get("X-Request-ID"); requestID != "" {
		fields["request_id"] = requestID
	}

	if userID := c.Locals("userID"); userID != nil {
		if uid, ok := userID.(string); ok {
			fields["user_id"] = uid
		}
	}

	return GetAppLogger().WithFields(fields)
}
