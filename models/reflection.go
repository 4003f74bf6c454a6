package models

import (
	"time"
)

// Reflection 反思記錄，只追加不修改
type Reflection struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"` // 可能為空，表示找不到對應問題
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// ReflectionState reflections 集合的文檔結構
type ReflectionState struct {
	Reflections []Reflection `json:"reflections"`
}

// NewReflectionState 返回空的初始文檔
func NewReflectionState() *ReflectionState {
	return &ReflectionState{Reflections: []Reflection{}}
}
