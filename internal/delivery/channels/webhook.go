package channels

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"planning_api/internal/logger"
)

// SignatureHeader mang chữ ký HMAC-SHA256 của body, hex-encoded.
const SignatureHeader = "X-Planning-Signature"

// SendWebhook POST notification dạng JSON tới URL của subscriber.
// secret khác rỗng thì body được ký HMAC-SHA256 vào SignatureHeader.
func SendWebhook(ctx context.Context, url, notificationName string, payload map[string]interface{}, secret string) error {
	log := logger.GetAppLogger()

	body, err := json.Marshal(map[string]interface{}{
		"notification": notificationName,
		"payload":      payload,
		"sentAt":       time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SignatureHeader, SignPayload(body, secret))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"url":          url,
			"notification": notificationName,
		}).Error("🔗 [WEBHOOK] Lỗi khi gọi webhook")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.WithFields(map[string]interface{}{
			"url":          url,
			"notification": notificationName,
			"statusCode":   resp.StatusCode,
			"response":     string(bodyBytes),
		}).Error("🔗 [WEBHOOK] Webhook trả về lỗi")
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	log.WithFields(map[string]interface{}{
		"url":          url,
		"notification": notificationName,
	}).Info("🔗 [WEBHOOK] Gửi webhook thành công")
	return nil
}

// SignPayload ký body bằng HMAC-SHA256, trả về hex.
func SignPayload(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
