package utils

import (
	"github.com/google/uuid"
)

// GenerateID 生成記錄用的唯一識別碼
func GenerateID() string {
	return uuid.New().String()
}
