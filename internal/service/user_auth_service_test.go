package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bookmart-next/internal/config"
	"github.com/bookmart-next/internal/constants"
	"github.com/bookmart-next/internal/models"
	"github.com/bookmart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{
		UserJWT: config.JWTConfig{
			SecretKey:   "unit-test-secret",
			ExpireHours: 1,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestUserAuthServiceRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	birth := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	user, token, expiresAt, err := svc.Register(RegisterInput{
		Email:     " Reader@Example.COM ",
		Password:  "Passw0rd!",
		FirstName: "Bob",
		LastName:  "Reader",
		BirthDate: &birth,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "reader@example.com" {
		t.Fatalf("expected normalized email, got: %s", user.Email)
	}
	if user.Status != constants.UserStatusActive {
		t.Fatalf("expected active status, got: %s", user.Status)
	}
	if user.IsAuthor {
		t.Fatalf("new user must not be an author")
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("unexpected token/expiry: %q %v", token, expiresAt)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// 大小写不同的同一邮箱视为重复注册
	_, _, _, err = svc.Register(RegisterInput{
		Email:     "READER@example.com",
		Password:  "Passw0rd!",
		FirstName: "Bob",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got: %v", err)
	}

	if _, _, _, err := svc.Login("reader@example.com", "Passw0rd!"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, _, _, err := svc.Login("reader@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "Passw0rd!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got: %v", err)
	}
}

func TestUserAuthServiceRegisterValidation(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "Passw0rd!", FirstName: "A"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "short", FirstName: "A"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "alllower1a", FirstName: "A"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password without upper, got: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "Passw0rd!", FirstName: "   "}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected invalid name, got: %v", err)
	}
}

func TestUserAuthServiceActivateAuthor(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register(RegisterInput{
		Email:     "writer@example.com",
		Password:  "Passw0rd!",
		FirstName: "Ada",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// 只能本人给自己开通作者身份
	if _, err := svc.ActivateAuthor(user.ID+1, user.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got: %v", err)
	}

	updated, err := svc.ActivateAuthor(user.ID, user.ID)
	if err != nil {
		t.Fatalf("activate author failed: %v", err)
	}
	if !updated.IsAuthor {
		t.Fatalf("expected author flag set")
	}

	// 重复开通是幂等操作
	again, err := svc.ActivateAuthor(user.ID, user.ID)
	if err != nil {
		t.Fatalf("repeat activate failed: %v", err)
	}
	if !again.IsAuthor {
		t.Fatalf("expected author flag to remain set")
	}
}

func TestUserAuthServiceDeactivate(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register(RegisterInput{
		Email:     "leaver@example.com",
		Password:  "Passw0rd!",
		FirstName: "Eve",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Deactivate(user.ID+1, user.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got: %v", err)
	}
	if err := svc.Deactivate(user.ID, user.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.Status != constants.UserStatusDisabled {
		t.Fatalf("expected disabled status, got: %s", stored.Status)
	}
	if stored.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version bump, got: %d", stored.TokenVersion)
	}
	if stored.TokenInvalidBefore == nil {
		t.Fatalf("expected token invalid before to be set")
	}

	// 停用后不能再登录
	if _, _, _, err := svc.Login("leaver@example.com", "Passw0rd!"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got: %v", err)
	}
}
