package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	authdto "planning_api/internal/api/auth/dto"
	authmodels "planning_api/internal/api/auth/models"
	authsvc "planning_api/internal/api/auth/service"
	"planning_api/internal/logger"
)

// Email của tài khoản admin được seed ở lần chạy đầu tiên.
const defaultAdminEmail = "admin@planning.local"

// InitDefaultData seed dữ liệu mặc định khi database còn trống:
// một desk "Newsroom" và một tài khoản admin với mật khẩu ngẫu nhiên
// (in ra log đúng một lần, đổi ngay sau lần đăng nhập đầu).
func InitDefaultData() {
	log := logger.GetAppLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userService, err := authsvc.NewUserService()
	if err != nil {
		log.Fatalf("Failed to initialize user service: %v", err)
	}
	deskService, err := authsvc.NewDeskService()
	if err != nil {
		log.Fatalf("Failed to initialize desk service: %v", err)
	}

	// Đã có user thì không seed gì cả
	hasUser, err := userService.DocumentExists(ctx, bson.M{})
	if err != nil {
		log.WithError(err).Error("🔄 [INIT] Không kiểm tra được users, bỏ qua seed dữ liệu mặc định")
		return
	}
	if hasUser {
		return
	}

	log.Info("🔄 [INIT] Database trống, seed dữ liệu mặc định...")

	// Desk mặc định
	desk, err := deskService.InsertOne(ctx, authmodels.Desk{
		Name:        "Newsroom",
		Description: "Desk mặc định",
	})
	if err != nil {
		log.WithError(err).Error("🔄 [INIT] Lỗi khi tạo desk mặc định")
	}

	// Admin mặc định với mật khẩu ngẫu nhiên
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		log.WithError(err).Error("🔄 [INIT] Không sinh được mật khẩu admin, bỏ qua seed user")
		return
	}
	password := hex.EncodeToString(buf)

	input := &authdto.UserCreateInput{
		Name:     "Administrator",
		Email:    defaultAdminEmail,
		Password: password,
		Role:     authmodels.RoleAdmin,
	}
	if !desk.ID.IsZero() {
		input.Desk = desk.ID.Hex()
	}
	admin, err := userService.CreateUser(ctx, input)
	if err != nil {
		log.WithError(err).Error("🔄 [INIT] Lỗi khi tạo tài khoản admin mặc định")
		return
	}

	log.WithFields(map[string]interface{}{
		"email":    admin.Email,
		"password": password,
	}).Warn("✅ [INIT] Đã tạo tài khoản admin mặc định, hãy đổi mật khẩu ngay sau khi đăng nhập")
}
