package service

import (
	"errors"
	"testing"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/repository"
	"gongu-report-go/pkg/token"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	jwtManager := token.NewJWTManager("test-secret", 1, 7)
	return NewUserService(repository.NewUserRepository(newTestDB(t)), jwtManager)
}

// TestRegisterAndLogin 验证注册、登录与令牌签发的完整流程。
func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register("zhangsan", "zhangsan@example.com", "secret123")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.PasswordHash == "secret123" {
		t.Fatalf("密码不应明文存储")
	}

	// 重复用户名
	if _, err := svc.Register("zhangsan", "other@example.com", "secret123"); !apperr.IsValidation(err) {
		t.Fatalf("重复用户名应返回校验错误, got %v", err)
	}

	got, pair, err := svc.Login("zhangsan", "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if got.ID != user.ID || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("登录应返回用户与令牌对")
	}

	if _, _, err := svc.Login("zhangsan", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("错误密码应返回 ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("不存在的用户应返回 ErrInvalidCredentials, got %v", err)
	}
}

// TestRefreshToken 验证刷新令牌签发新的令牌对。
func TestRefreshToken(t *testing.T) {
	svc := newUserService(t)

	if _, err := svc.Register("lisi", "lisi@example.com", "secret123"); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	_, pair, err := svc.Login("lisi", "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	newPair, err := svc.RefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("刷新令牌失败: %v", err)
	}
	if newPair.AccessToken == "" || newPair.RefreshToken == "" {
		t.Fatalf("刷新应返回新的令牌对")
	}

	if _, err := svc.RefreshToken("not-a-token"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("非法令牌应返回 ErrInvalidCredentials, got %v", err)
	}
}
