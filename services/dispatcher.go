package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"MindBotGo/config"
	"MindBotGo/models"
)

// 通用錯誤回覆
const (
	replyStoreFailure  = "❌ 系統忙碌中，請稍後再試"
	replyNotUnderstood = "🤔 我看不懂這則訊息，輸入「幫助」查看可用指令"
)

const helpText = "📌 指令說明：\n" +
	"• 新增：[任務內容] - 新增一項任務（可加「 @HH:MM」設定每日提醒）\n" +
	"• 完成：[任務內容] - 標記任務為已完成\n" +
	"• 提醒：[任務內容]=HH:MM - 設定任務的每日提醒時間\n" +
	"• 進度：[任務內容]=數字 - 更新任務進度（0-100）\n" +
	"• 查詢任務 - 檢視所有未完成任務\n" +
	"• 今日進度 - 查看今日任務完成率\n" +
	"• 反思：[內容] - 記錄你的反思\n" +
	"• 反思問題 - 取得一個思考問題\n" +
	"• 深度反思 - 取得一個深度反思問題\n" +
	"• 設定計畫：{JSON格式} - 設定每日計畫\n" +
	"• 查詢計畫 - 查看目前的每日計畫"

// Dispatcher 指令分發器：把解析後的指令路由到對應引擎並渲染回覆
type Dispatcher struct {
	tasks       *TaskService
	reflections *ReflectionService
	now         func() time.Time
	loc         *time.Location
}

func NewDispatcher(tasks *TaskService, reflections *ReflectionService, loc *time.Location) *Dispatcher {
	return &Dispatcher{
		tasks:       tasks,
		reflections: reflections,
		now:         time.Now,
		loc:         loc,
	}
}

// HandleIncomingText 核心入口：每則輸入恰好產生一則出站訊息
func (d *Dispatcher) HandleIncomingText(ctx context.Context, userID, text string) models.OutboundMessage {
	cmd, err := ParseCommand(text)
	if err != nil {
		if IsFormatError(err) {
			return models.TextMessage("❌ " + err.Error())
		}
		config.Logger.Errorw("指令解析失敗", "text", text, "error", err)
		return models.TextMessage(replyStoreFailure)
	}

	switch cmd.Type {
	case models.CmdAddTask:
		return d.handleAddTask(cmd)
	case models.CmdCompleteTask:
		return d.handleCompleteTask(cmd)
	case models.CmdSetReminder:
		return d.handleSetReminder(cmd)
	case models.CmdSetProgress:
		return d.handleSetProgress(cmd)
	case models.CmdListTasks:
		return d.handleListTasks()
	case models.CmdTodayProgress:
		return d.handleTodayProgress()
	case models.CmdReflectPrompt:
		return d.handlePrompt(ctx, userID, TimeOfDayCategory(d.now().In(d.loc)))
	case models.CmdDeepPrompt:
		return d.handlePrompt(ctx, userID, models.CategoryDeep)
	case models.CmdReflectAnswer:
		return d.handleReflectAnswer(cmd)
	case models.CmdSetPlan:
		return d.handleSetPlan(cmd)
	case models.CmdGetPlan:
		return d.handleGetPlan()
	case models.CmdHelp:
		return models.TextMessage(helpText)
	default:
		return d.handleUnknown(ctx, userID, cmd.Raw)
	}
}

func (d *Dispatcher) handleAddTask(cmd models.Command) models.OutboundMessage {
	if err := d.tasks.AddTask(cmd.Content, cmd.Time); err != nil {
		config.Logger.Errorw("新增任務失敗", "content", cmd.Content, "error", err)
		return models.TextMessage("❌ 新增任務失敗，請稍後再試")
	}
	if cmd.Time != "" {
		return models.TextMessage(fmt.Sprintf("✅ 已新增任務：%s（每日 %s 提醒）", cmd.Content, cmd.Time))
	}
	return models.TextMessage(fmt.Sprintf("✅ 已新增任務：%s", cmd.Content))
}

func (d *Dispatcher) handleCompleteTask(cmd models.Command) models.OutboundMessage {
	if err := d.tasks.CompleteTask(cmd.Content); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return models.TextMessage("❌ 找不到該未完成任務，請確認任務名稱")
		}
		config.Logger.Errorw("完成任務失敗", "content", cmd.Content, "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	return models.TextMessage(fmt.Sprintf("🎉 恭喜完成任務：%s", cmd.Content))
}

func (d *Dispatcher) handleSetReminder(cmd models.Command) models.OutboundMessage {
	if err := d.tasks.SetReminder(cmd.Content, cmd.Time); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return models.TextMessage("❌ 找不到該未完成任務，請確認任務名稱")
		}
		config.Logger.Errorw("設定提醒失敗", "content", cmd.Content, "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	return models.TextMessage(fmt.Sprintf("⏰ 已設定「%s」的提醒時間為 %s", cmd.Content, cmd.Time))
}

func (d *Dispatcher) handleSetProgress(cmd models.Command) models.OutboundMessage {
	if err := d.tasks.SetProgress(cmd.Content, cmd.Percent); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return models.TextMessage("❌ 找不到該未完成任務，請確認任務名稱")
		}
		config.Logger.Errorw("更新進度失敗", "content", cmd.Content, "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	return models.TextMessage(fmt.Sprintf("📈 已更新「%s」的進度為 %d%%", cmd.Content, cmd.Percent))
}

func (d *Dispatcher) handleListTasks() models.OutboundMessage {
	notCompleted := false
	tasks, err := d.tasks.ListTasks(&notCompleted)
	if err != nil {
		config.Logger.Errorw("查詢任務失敗", "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	if len(tasks) == 0 {
		return models.TextMessage("目前沒有任何任務")
	}
	return models.TaskListMessage(tasks)
}

func (d *Dispatcher) handleTodayProgress() models.OutboundMessage {
	completed, total, percentage, err := d.tasks.TodayProgress()
	if err != nil {
		config.Logger.Errorw("查詢今日進度失敗", "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	return models.TextMessage(fmt.Sprintf("📊 今日任務進度：\n完成 %d/%d 項任務\n完成率：%.1f%%", completed, total, percentage))
}

func (d *Dispatcher) handlePrompt(ctx context.Context, userID, category string) models.OutboundMessage {
	question, err := d.reflections.AskQuestion(ctx, userID, category)
	if err != nil {
		config.Logger.Errorw("取得反思問題失敗", "category", category, "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	if question == "" {
		return models.TextMessage("❌ 目前沒有可用的反思問題")
	}

	prefix := "💭 今天的思考問題："
	if category == models.CategoryDeep {
		prefix = "🧘 深度反思問題："
	}
	return models.TextMessage(fmt.Sprintf("%s\n\n%s", prefix, question))
}

// handleReflectAnswer 處理「反思：」指令；問題欄位以當下時段隨機抽題作為佔位
func (d *Dispatcher) handleReflectAnswer(cmd models.Command) models.OutboundMessage {
	category := TimeOfDayCategory(d.now().In(d.loc))
	question, err := d.reflections.RandomQuestion(category)
	if err != nil {
		config.Logger.Errorw("抽取佔位問題失敗", "category", category, "error", err)
	}

	if err := d.reflections.RecordReflection(question, cmd.Content); err != nil {
		config.Logger.Errorw("儲存反思失敗", "error", err)
		return models.TextMessage("❌ 儲存反思失敗，請稍後再試")
	}
	return models.TextMessage("✨ 感謝分享你的反思，已記錄下來！")
}

func (d *Dispatcher) handleSetPlan(cmd models.Command) models.OutboundMessage {
	if err := d.tasks.SetDailyPlan(cmd.Plan); err != nil {
		config.Logger.Errorw("更新每日計畫失敗", "error", err)
		return models.TextMessage("❌ 更新計畫失敗，請稍後再試")
	}
	return models.TextMessage("📅 每日計畫已更新！")
}

func (d *Dispatcher) handleGetPlan() models.OutboundMessage {
	plan, err := d.tasks.GetDailyPlan()
	if err != nil {
		config.Logger.Errorw("查詢每日計畫失敗", "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	if len(plan) == 0 {
		return models.TextMessage("目前尚未設定每日計畫")
	}

	slots := make([]string, 0, len(plan))
	for slot := range plan {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	var sb strings.Builder
	sb.WriteString("📅 目前的每日計畫：")
	for _, slot := range slots {
		sb.WriteString(fmt.Sprintf("\n• %s：%s", slot, plan[slot]))
	}
	return models.TextMessage(sb.String())
}

// handleUnknown 把自由文字當成對最近問題的回答
func (d *Dispatcher) handleUnknown(ctx context.Context, userID, raw string) models.OutboundMessage {
	recorded, err := d.reflections.AnswerFallback(ctx, userID, raw)
	if err != nil {
		config.Logger.Errorw("關聯反思回答失敗", "error", err)
		return models.TextMessage(replyStoreFailure)
	}
	if !recorded {
		return models.TextMessage(replyNotUnderstood)
	}
	return models.TextMessage("✨ 感謝分享你的反思，已記錄下來！")
}
