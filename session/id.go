package session

import (
	"github.com/google/uuid"
)

// MaxIDLength 是会话 ID 的最大长度，与表结构中的 varchar(450) 对应
const MaxIDLength = 450

// ValidateID 校验会话 ID 是否可以写入存储
func ValidateID(id string) error {
	if id == "" || len(id) > MaxIDLength {
		return ErrInvalidID
	}
	return nil
}

// NewID 生成一个随机的会话 ID
func NewID() string {
	return uuid.NewString()
}
