package middleware

import (
	"fmt"
	"strings"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/logger"
)

// AuthMiddleware middleware xác thực JWT cho Fiber.
// Token được lấy từ header Authorization (Bearer <token>), validate bằng JwtSecret.
// Claims bắt buộc:
//   - sub: user ID (chuỗi hex ObjectID)
//   - sid: session ID: một user có thể đăng nhập nhiều phiên, lock protocol phân biệt theo phiên
//
// Sau khi validate, user_id và session_id được lưu vào Locals cho handler/service dùng.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		tokenStr := parts[1]

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("phương thức ký không được hỗ trợ: %v", t.Header["alg"])
			}
			return []byte(global.MongoDB_ServerConfig.JwtSecret), nil
		})
		if err != nil {
			ve, ok := err.(*jwt.ValidationError)
			if ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
				HandleErrorResponse(c, common.ErrTokenExpired)
				return nil
			}
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token validation failed")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if !token.Valid {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		userID, _ := claims["sub"].(string)
		if userID == "" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Session ID phân biệt các phiên đăng nhập của cùng một user.
		// Token cũ không có sid: fallback về user ID để không phá vỡ client cũ.
		sessionID, _ := claims["sid"].(string)
		if sessionID == "" {
			sessionID = userID
		}

		c.Locals("user_id", userID)
		c.Locals("session_id", sessionID)

		return c.Next()
	}
}

// GetUserID lấy user ID từ Locals (đã được AuthMiddleware set). Trả về chuỗi rỗng nếu chưa xác thực.
func GetUserID(c fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// GetSessionID lấy session ID từ Locals (đã được AuthMiddleware set). Trả về chuỗi rỗng nếu chưa xác thực.
func GetSessionID(c fiber.Ctx) string {
	sessionID, _ := c.Locals("session_id").(string)
	return sessionID
}
