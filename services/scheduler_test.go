package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() (*Scheduler, *TaskService, *fakeNotifier, *memStore) {
	ms := newMemStore()
	ms.seedQuestions()
	cache := newMemQuestionCache()
	notifier := &fakeNotifier{}

	ts := NewTaskService(ms, time.UTC)
	ts.now = fixedNow(testClock)
	rs := NewReflectionService(ms, cache, time.UTC)
	rs.now = fixedNow(testClock)

	s := NewScheduler(ts, rs, notifier, "42", time.UTC)
	return s, ts, notifier, ms
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 29, hour, minute, 0, 0, time.UTC)
}

func TestScheduler_MorningPromptOncePerDay(t *testing.T) {
	s, _, notifier, _ := newTestScheduler()

	s.RunTick(at(7, 0))
	require.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.texts()[0], "🌞 早安")

	// 同一天重複的 07:00 tick 不再推送
	s.RunTick(at(7, 0))
	assert.Equal(t, 1, notifier.count())

	// 隔天再次推送
	s.RunTick(at(7, 0).AddDate(0, 0, 1))
	assert.Equal(t, 2, notifier.count())
}

func TestScheduler_PromptRetriesAfterDrawFailure(t *testing.T) {
	s, _, notifier, ms := newTestScheduler()

	// 抽題失敗不蓋章，時段保留
	ms.failLoad = true
	s.RunTick(at(7, 0))
	assert.Equal(t, 0, notifier.count())

	// 同一分鐘內的下一次 tick 重試成功
	ms.failLoad = false
	s.RunTick(at(7, 0).Add(30 * time.Second))
	require.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.texts()[0], "🌞 早安")

	// 成功後才蓋章，同日不再推送
	s.RunTick(at(7, 0))
	assert.Equal(t, 1, notifier.count())
}

func TestScheduler_EveningPrompt(t *testing.T) {
	s, _, notifier, _ := newTestScheduler()

	s.RunTick(at(21, 0))
	require.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.texts()[0], "🌙 晚安")
}

func TestScheduler_NoPromptAtOtherTimes(t *testing.T) {
	s, _, notifier, _ := newTestScheduler()

	s.RunTick(at(7, 1))
	s.RunTick(at(12, 0))
	s.RunTick(at(20, 59))
	assert.Equal(t, 0, notifier.count())
}

func TestScheduler_PlanSlotReminder(t *testing.T) {
	s, ts, notifier, _ := newTestScheduler()
	require.NoError(t, ts.SetDailyPlan(map[string]string{"早上": "晨間閱讀"}))

	s.RunTick(at(7, 0))

	texts := notifier.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[1], "現在是早上")
	assert.Contains(t, texts[1], "晨間閱讀")
}

func TestScheduler_ReminderSweepPushes(t *testing.T) {
	s, ts, notifier, _ := newTestScheduler()
	require.NoError(t, ts.AddTask("買牛奶", "08:30"))
	require.NoError(t, ts.AddTask("寫報告", "08:30"))
	require.NoError(t, ts.AddTask("沒提醒的任務", ""))

	s.RunTick(at(8, 30))

	texts := notifier.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "買牛奶")
	assert.Contains(t, texts[1], "寫報告")

	// 下一分鐘不重複
	s.RunTick(at(8, 31))
	assert.Equal(t, 2, notifier.count())
}

func TestScheduler_NotifyFailureDoesNotAbortSweep(t *testing.T) {
	s, ts, notifier, _ := newTestScheduler()
	notifier.err = errors.New("推送失敗")
	require.NoError(t, ts.AddTask("買牛奶", "08:30"))
	require.NoError(t, ts.AddTask("寫報告", "08:30"))

	// 兩筆提醒都應嘗試推送，單筆失敗不中斷
	s.RunTick(at(8, 30))
	assert.Equal(t, 2, notifier.count())

	// 掃描已蓋章，失敗的推送不會在下一輪重試
	s.RunTick(at(8, 30).Add(30 * time.Second))
	assert.Equal(t, 2, notifier.count())
}

func TestScheduler_StoreFailureSurvives(t *testing.T) {
	s, ts, _, ms := newTestScheduler()
	require.NoError(t, ts.AddTask("買牛奶", "08:30"))
	ms.failSave = true

	// 持久化失敗只記錄，不 panic
	assert.NotPanics(t, func() {
		s.RunTick(at(8, 30))
	})
}

func TestScheduler_SafeTickRecovers(t *testing.T) {
	s, _, _, _ := newTestScheduler()
	s.now = func() time.Time { panic("模擬時鐘異常") }

	assert.NotPanics(t, func() {
		s.safeTick()
	})
}
