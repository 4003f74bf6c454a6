package services

import (
	"context"

	"MindBotGo/models"
)

// Notifier 出站訊息投遞抽象，由具體訊息平台實現
type Notifier interface {
	Push(ctx context.Context, userID string, msg models.OutboundMessage) error
}
