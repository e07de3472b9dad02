// Package channels chứa các kênh gửi thông báo ra ngoài (email, webhook).
package channels

import (
	"encoding/json"
	"fmt"

	"gopkg.in/gomail.v2"

	"planning_api/internal/global"
	"planning_api/internal/logger"
)

// SendEmail gửi notification qua SMTP. Nội dung là payload render dạng JSON
// đủ cho các hệ thống nhận máy-đọc lẫn người trực đọc nhanh.
func SendEmail(to, notificationName string, payload map[string]interface{}) error {
	cfg := global.MongoDB_ServerConfig
	if cfg == nil || cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP chưa được cấu hình")
	}

	body, err := json.MarshalIndent(map[string]interface{}{
		"notification": notificationName,
		"payload":      payload,
	}, "", "  ")
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.SMTPFromEmail, cfg.SMTPFromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("[Planning] %s", notificationName))
	m.SetBody("text/plain", string(body))

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
			"recipient":    to,
			"notification": notificationName,
		}).Error("📧 [EMAIL] Gửi email thất bại")
		return err
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"recipient":    to,
		"notification": notificationName,
	}).Info("📧 [EMAIL] Gửi email thành công")
	return nil
}
