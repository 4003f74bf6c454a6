package models

import (
	"time"
)

// Document 持久化文檔模型，每個集合整份存為一行 JSON
type Document struct {
	Name      string    `gorm:"type:varchar(50);primary_key" json:"name"`
	Body      string    `gorm:"type:longtext" json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 集合名稱
const (
	CollectionTasks       = "tasks"
	CollectionReflections = "reflections"
	CollectionQuestions   = "questions"
)
