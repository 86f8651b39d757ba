package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Admin 唯一的管理员凭据，来自启动配置而不是数据库
type Admin struct {
	Username     string
	PasswordHash string
}

// SetPassword 加密并设置密码
func (a *Admin) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (a *Admin) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// Authenticate 用户名和密码都匹配才算登录成功
func (a *Admin) Authenticate(username, password string) bool {
	if a.Username == "" || a.PasswordHash == "" {
		return false
	}
	// 用户名不匹配时仍然做一次 bcrypt 比较，避免通过耗时区分用户名
	passwordOK := a.CheckPassword(password)
	return username == a.Username && passwordOK
}
