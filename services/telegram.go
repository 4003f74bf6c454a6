package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"MindBotGo/models"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegramNotifier 基於 Telegram Bot API 的訊息投遞實現
type TelegramNotifier struct {
	bot *telego.Bot
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("建立 Telegram 機器人失敗: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

// Push 投遞一則出站訊息；任務清單在此渲染為文字
func (n *TelegramNotifier) Push(ctx context.Context, userID string, msg models.OutboundMessage) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("無效的聊天 ID %q: %w", userID, err)
	}

	text := msg.Text
	if msg.Type == models.MessageTaskList {
		text = renderTaskList(msg.Tasks)
	}

	if _, err := n.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("推送訊息失敗: %w", err)
	}
	return nil
}

// renderTaskList 把結構化任務清單渲染成對話文字
func renderTaskList(tasks []models.TaskListItem) string {
	if len(tasks) == 0 {
		return "目前沒有任何任務"
	}

	var sb strings.Builder
	sb.WriteString("📋 任務清單\n")
	for _, t := range tasks {
		status := "⬜"
		if t.Completed {
			status = "✅"
		}
		sb.WriteString(fmt.Sprintf("\n%s %s", status, t.Content))
		if t.ReminderTime != "" {
			sb.WriteString(fmt.Sprintf("（每日 %s 提醒）", t.ReminderTime))
		}
		if t.Progress > 0 {
			sb.WriteString(fmt.Sprintf("（進度 %d%%）", t.Progress))
		}
	}
	return sb.String()
}
