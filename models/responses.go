package models

import "time"

// MessageType 出站訊息類型
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageTaskList MessageType = "task_list"
)

// OutboundMessage 分發器產生的出站訊息：純文字或結構化任務清單
type OutboundMessage struct {
	Type  MessageType    `json:"type"`
	Text  string         `json:"text,omitempty"`
	Tasks []TaskListItem `json:"tasks,omitempty"`
}

// TextMessage 構造純文字訊息
func TextMessage(text string) OutboundMessage {
	return OutboundMessage{Type: MessageText, Text: text}
}

// TaskListItem 任務清單項目
type TaskListItem struct {
	Content      string    `json:"content"`
	Completed    bool      `json:"completed"`
	ReminderTime string    `json:"reminderTime,omitempty"`
	Progress     int       `json:"progress"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TaskListMessage 構造任務清單訊息
func TaskListMessage(tasks []Task) OutboundMessage {
	items := make([]TaskListItem, len(tasks))
	for i, t := range tasks {
		items[i] = TaskListItem{
			Content:      t.Content,
			Completed:    t.Completed,
			ReminderTime: t.ReminderTime,
			Progress:     t.Progress,
			CreatedAt:    t.CreatedAt,
		}
	}
	return OutboundMessage{Type: MessageTaskList, Tasks: items}
}

// TodayProgressResponse 今日進度響應結構體
type TodayProgressResponse struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// DailyPlanResponse 每日計畫響應結構體
type DailyPlanResponse struct {
	Plan map[string]string `json:"plan"`
}
