// Package authsvc - service người dùng (User) và desk.
package authsvc

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "planning_api/internal/api/auth/dto"
	models "planning_api/internal/api/auth/models"
	basesvc "planning_api/internal/api/base/service"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/itemlock"
	"planning_api/internal/logger"
)

// Thời hạn của JWT token phiên đăng nhập.
const sessionTokenTTL = 7 * 24 * time.Hour

// Số phiên đăng nhập tối đa giữ lại cho một user. Login mới vượt ngưỡng
// sẽ đẩy phiên cũ nhất ra.
const maxSessionsPerUser = 10

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	deskService *basesvc.BaseServiceMongoImpl[models.Desk]
	locker      *itemlock.Locker
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	deskCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Desks)
	if !exist {
		return nil, fmt.Errorf("failed to get desks collection: %v", common.ErrNotFound)
	}
	locker, err := itemlock.NewLocker()
	if err != nil {
		return nil, err
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		deskService:          basesvc.NewBaseServiceMongo[models.Desk](deskCollection),
		locker:               locker,
	}, nil
}

// newSalt sinh salt ngẫu nhiên cho mật khẩu.
func newSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashPassword băm mật khẩu với salt.
func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// verifyPassword so sánh mật khẩu với hash đã lưu (constant-time).
func verifyPassword(password, salt, stored string) bool {
	computed := hashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

// CreateUser tạo người dùng mới với mật khẩu đã băm.
func (s *UserService) CreateUser(ctx context.Context, input *authdto.UserCreateInput) (models.User, error) {
	var zero models.User

	salt, err := newSalt()
	if err != nil {
		return zero, err
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashPassword(input.Password, salt),
		Salt:     salt,
		Role:     input.Role,
		Tokens:   []models.Token{},
	}
	if user.Role == "" {
		user.Role = models.RoleContributor
	}
	if input.Desk != "" {
		deskID, err := primitive.ObjectIDFromHex(input.Desk)
		if err != nil {
			return zero, common.NewBadRequest("Desk không phải ObjectID hợp lệ")
		}
		exists, err := s.deskService.DocumentExists(ctx, bson.M{"_id": deskID})
		if err != nil {
			return zero, err
		}
		if !exists {
			return zero, common.NewBadRequest("Desk không tồn tại")
		}
		user.Desk = deskID
	}

	return s.BaseServiceMongoImpl.InsertOne(ctx, user)
}

// Login xác thực email/mật khẩu và phát hành JWT token cho một phiên mới.
// Mỗi phiên có session ID riêng (sid trong claims) để lock protocol phân biệt.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeAuth, "Email hoặc mật khẩu không đúng", common.StatusUnauthorized, nil)
		}
		return nil, err
	}
	if !verifyPassword(input.Password, user.Salt, user.Password) {
		return nil, common.NewError(common.ErrCodeAuth, "Email hoặc mật khẩu không đúng", common.StatusUnauthorized, nil)
	}
	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuth, "Tài khoản đã bị khóa", common.StatusForbidden, nil)
	}

	// Session ID là ObjectID hex: lock protocol lưu nó dưới dạng ObjectID.
	sessionID := primitive.NewObjectID().Hex()
	now := time.Now()
	claims := models.SessionClaims{
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(sessionTokenTTL).Unix(),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(global.MongoDB_ServerConfig.JwtSecret))
	if err != nil {
		return nil, err
	}

	tokens := append(user.Tokens, models.Token{
		SessionID: sessionID,
		Hwid:      input.Hwid,
		JwtToken:  tokenStr,
	})
	if len(tokens) > maxSessionsPerUser {
		tokens = tokens[len(tokens)-maxSessionsPerUser:]
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":  tokenStr,
			"tokens": tokens,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, err
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"userId":    updatedUser.ID.Hex(),
		"sessionId": sessionID,
	}).Info("🔑 [AUTH] Đăng nhập thành công")
	return &updatedUser, nil
}

// Logout đăng xuất phiên hiện tại: gỡ token của phiên và nhả toàn bộ lock
// mà phiên đang giữ trên events, planning, assignments.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, sessionID string) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	newTokens := make([]models.Token, 0, len(user.Tokens))
	for _, t := range user.Tokens {
		if t.SessionID != sessionID {
			newTokens = append(newTokens, t)
		}
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"tokens": newTokens,
			"token":  "",
		},
	}
	if _, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData); err != nil {
		return err
	}

	// Phiên kết thúc thì lock của phiên cũng hết hiệu lực.
	if sessionObjID, parseErr := primitive.ObjectIDFromHex(sessionID); parseErr == nil {
		if unlockErr := s.locker.UnlockSession(ctx, userID, sessionObjID); unlockErr != nil {
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"userId":    userID.Hex(),
				"sessionId": sessionID,
				"error":     unlockErr.Error(),
			}).Error("🔑 [AUTH] Lỗi khi nhả lock của phiên đăng xuất")
		}
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"userId":    userID.Hex(),
		"sessionId": sessionID,
	}).Info("🔑 [AUTH] Đăng xuất thành công")
	return nil
}

// ChangePassword đổi mật khẩu sau khi xác nhận mật khẩu cũ. Toàn bộ phiên
// đăng nhập hiện có bị hủy.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	if !verifyPassword(input.OldPassword, user.Salt, user.Password) {
		return common.NewError(common.ErrCodeAuth, "Mật khẩu cũ không đúng", common.StatusUnauthorized, nil)
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"password": hashPassword(input.NewPassword, salt),
			"salt":     salt,
			"tokens":   []models.Token{},
			"token":    "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// SetBlockStatus khóa hoặc mở khóa người dùng theo email. Khóa đồng thời hủy
// toàn bộ phiên đăng nhập.
func (s *UserService) SetBlockStatus(ctx context.Context, email string, block bool, note string) (models.User, error) {
	var zero models.User
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		return zero, err
	}

	set := map[string]interface{}{
		"isBlock":   block,
		"blockNote": note,
	}
	if block {
		set["tokens"] = []models.Token{}
		set["token"] = ""
	}
	return s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, &basesvc.UpdateData{Set: set})
}
