package token

import "testing"

// TestGenerateAndVerify 验证令牌签发与验证的往返。
func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	access, err := m.GenerateToken(42, "zhangsan")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	claims, err := m.VerifyToken(access)
	if err != nil {
		t.Fatalf("验证令牌失败: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "zhangsan" {
		t.Fatalf("claims 不符: %+v", claims)
	}
}

// TestVerifyRejectsWrongSecret 验证不同密钥签发的令牌被拒绝。
func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", 1, 7)
	other := NewJWTManager("secret-b", 1, 7)

	access, err := other.GenerateToken(1, "zhangsan")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	if _, err := m.VerifyToken(access); err == nil {
		t.Fatalf("不同密钥的令牌应验证失败")
	}
	if _, err := m.VerifyToken("garbage"); err == nil {
		t.Fatalf("非法令牌应验证失败")
	}
}

// TestExpiredTokenRejected 验证过期令牌被拒绝。
func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("secret", -1, 7)

	access, err := m.GenerateToken(1, "zhangsan")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	if _, err := m.VerifyToken(access); err == nil {
		t.Fatalf("过期令牌应验证失败")
	}
}
