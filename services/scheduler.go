package services

import (
	"context"
	"fmt"
	"time"

	"MindBotGo/config"
	"MindBotGo/models"
)

// 固定推送時刻
const (
	morningPromptClock = "07:00"
	eveningPromptClock = "21:00"
)

// 固定時刻對應的計畫時段標籤
const (
	morningPlanSlot = "早上"
	eveningPlanSlot = "晚上"
)

// Scheduler 背景排程器：固定時刻的早晚推送與每分鐘的提醒掃描
//
// 與請求處理路徑相互獨立，僅共享 Store 的集合級串行化。任何單次 tick 的
// 異常都不會終止循環。
type Scheduler struct {
	tasks       *TaskService
	reflections *ReflectionService
	notifier    Notifier
	ownerID     string
	loc         *time.Location

	now      func() time.Time
	interval time.Duration

	lastMorning string // 最近一次晨間推送的日期
	lastEvening string
}

func NewScheduler(tasks *TaskService, reflections *ReflectionService, notifier Notifier, ownerID string, loc *time.Location) *Scheduler {
	return &Scheduler{
		tasks:       tasks,
		reflections: reflections,
		notifier:    notifier,
		ownerID:     ownerID,
		loc:         loc,
		now:         time.Now,
		interval:    time.Minute,
	}
}

// Start 啟動背景循環，直到 ctx 取消
func (s *Scheduler) Start(ctx context.Context) {
	config.Logger.Infow("排程器啟動", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			config.Logger.Infow("排程器停止")
			return
		case <-ticker.C:
			s.safeTick()
		}
	}
}

// safeTick 執行一次 tick 並吸收 panic，保證循環存活
func (s *Scheduler) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			config.Logger.Errorw("排程器單次執行發生異常", "panic", r)
		}
	}()
	s.RunTick(s.now())
}

// RunTick 執行一次排程：固定時刻推送、計畫時段提醒、提醒掃描
//
// 也作為外部定時驅動的入口，now 由調用方提供以便測試。
func (s *Scheduler) RunTick(now time.Time) {
	local := now.In(s.loc)
	clock := local.Format("15:04")
	today := local.Format("2006-01-02")

	// 早晚固定推送，每天每個時段至多一次；抽題失敗不蓋章，
	// 同一分鐘內的下一次 tick 可以重試
	if clock == morningPromptClock && s.lastMorning != today {
		if s.sendDailyPrompt(models.CategoryMorning) {
			s.lastMorning = today
		}
		s.sendPlanReminder(morningPlanSlot)
	}
	if clock == eveningPromptClock && s.lastEvening != today {
		if s.sendDailyPrompt(models.CategoryEvening) {
			s.lastEvening = today
		}
		s.sendPlanReminder(eveningPlanSlot)
	}

	s.sweepReminders(now)
}

// sendDailyPrompt 推送當日的思考問題
//
// 返回該時段是否已消耗：抽題成功（含題庫為空）即消耗，推送失敗也算；
// 只有抽題本身失敗才保留時段等待重試。
func (s *Scheduler) sendDailyPrompt(category string) bool {
	ctx := context.Background()

	question, err := s.reflections.AskQuestion(ctx, s.ownerID, category)
	if err != nil {
		config.Logger.Errorw("抽取每日問題失敗", "category", category, "error", err)
		return false
	}
	if question == "" {
		return true
	}

	prefix := "🌞 早安！今天的思考問題："
	if category == models.CategoryEvening {
		prefix = "🌙 晚安！今天的反思問題："
	}

	msg := models.TextMessage(fmt.Sprintf("%s\n\n%s", prefix, question))
	if err := s.notifier.Push(ctx, s.ownerID, msg); err != nil {
		// 推送失敗只記錄，不中斷排程
		config.Logger.Errorw("推送每日問題失敗", "category", category, "error", err)
	}
	return true
}

// sendPlanReminder 推送對應時段的每日計畫提醒；時段未設定時跳過
func (s *Scheduler) sendPlanReminder(slot string) {
	ctx := context.Background()

	plan, err := s.tasks.GetDailyPlan()
	if err != nil {
		config.Logger.Errorw("讀取每日計畫失敗", "slot", slot, "error", err)
		return
	}
	activity, ok := plan[slot]
	if !ok || activity == "" {
		return
	}

	msg := models.TextMessage(fmt.Sprintf("⏰ 提醒：現在是%s，該執行「%s」了", slot, activity))
	if err := s.notifier.Push(ctx, s.ownerID, msg); err != nil {
		config.Logger.Errorw("推送計畫提醒失敗", "slot", slot, "error", err)
	}
}

// sweepReminders 掃描到點的任務提醒並逐一推送，單筆失敗不影響其餘
func (s *Scheduler) sweepReminders(now time.Time) {
	fired, err := s.tasks.ReminderSweep(now)
	if err != nil {
		config.Logger.Errorw("提醒掃描失敗", "error", err)
		return
	}

	ctx := context.Background()
	for _, task := range fired {
		msg := models.TextMessage(fmt.Sprintf("⏰ 任務提醒：該執行「%s」了", task.Content))
		if err := s.notifier.Push(ctx, s.ownerID, msg); err != nil {
			config.Logger.Errorw("推送任務提醒失敗", "content", task.Content, "error", err)
		}
	}
}
