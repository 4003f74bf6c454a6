package models

import (
	"time"
)

// Task 任務模型
type Task struct {
	ID             string     `json:"id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	ReminderTime   string     `json:"reminder_time,omitempty"` // HH:MM，每日提醒；空字串表示無提醒
	LastRemindedAt *time.Time `json:"last_reminded_at"`
	Progress       int        `json:"progress"` // 進度百分比
}

// TaskState tasks 集合的文檔結構
type TaskState struct {
	Tasks     []Task            `json:"tasks"`
	DailyPlan map[string]string `json:"daily_plan"`
}

// NewTaskState 返回空的初始文檔
func NewTaskState() *TaskState {
	return &TaskState{
		Tasks:     []Task{},
		DailyPlan: map[string]string{},
	}
}
