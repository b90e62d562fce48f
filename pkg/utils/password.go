package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt 加盐哈希，默认 cost
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 恒定时间比对；hash 格式非法一律返回 false，不往外抛
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
