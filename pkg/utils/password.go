package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword 生成带盐的 bcrypt 哈希（cost=10）。
// 只有 bcrypt 内部失败（熵源等）才会返回 error。
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 校验明文与存储哈希；不匹配或哈希损坏一律返回 false，不抛错。
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
