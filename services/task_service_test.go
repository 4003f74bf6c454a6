package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTaskService() (*TaskService, *memStore) {
	ms := newMemStore()
	ts := NewTaskService(ms, time.UTC)
	ts.now = fixedNow(testClock)
	return ts, ms
}

func TestAddTaskThenList(t *testing.T) {
	ts, _ := newTestTaskService()

	require.NoError(t, ts.AddTask("買牛奶", "08:30"))

	notCompleted := false
	tasks, err := ts.ListTasks(&notCompleted)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "買牛奶", tasks[0].Content)
	assert.Equal(t, "08:30", tasks[0].ReminderTime)
	assert.False(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].CompletedAt)
	assert.Equal(t, 0, tasks[0].Progress)
	assert.NotEmpty(t, tasks[0].ID)
}

func TestListTasks_OrderAndFilter(t *testing.T) {
	ts, _ := newTestTaskService()

	base := testClock
	for i, content := range []string{"任務一", "任務二", "任務三"} {
		ts.now = fixedNow(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, ts.AddTask(content, ""))
	}
	require.NoError(t, ts.CompleteTask("任務二"))

	all, err := ts.ListTasks(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// 建立時間倒序
	assert.Equal(t, "任務三", all[0].Content)
	assert.Equal(t, "任務一", all[2].Content)

	completed := true
	done, err := ts.ListTasks(&completed)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "任務二", done[0].Content)
}

func TestCompleteTask(t *testing.T) {
	ts, _ := newTestTaskService()
	require.NoError(t, ts.AddTask("寫報告", ""))

	require.NoError(t, ts.CompleteTask("寫報告"))

	all, err := ts.ListTasks(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Completed)
	require.NotNil(t, all[0].CompletedAt)

	// 重複完成視為找不到，而不是再次完成
	err = ts.CompleteTask("寫報告")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCompleteTask_DuplicateContentActsOnLatest(t *testing.T) {
	ts, _ := newTestTaskService()

	ts.now = fixedNow(testClock)
	require.NoError(t, ts.AddTask("讀書", ""))
	ts.now = fixedNow(testClock.Add(time.Hour))
	require.NoError(t, ts.AddTask("讀書", ""))

	require.NoError(t, ts.CompleteTask("讀書"))

	all, err := ts.ListTasks(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// 倒序排列後第一筆是較新的那筆，應已完成
	assert.True(t, all[0].Completed)
	assert.False(t, all[1].Completed)
}

func TestSetReminder(t *testing.T) {
	ts, _ := newTestTaskService()
	require.NoError(t, ts.AddTask("寫報告", ""))

	require.NoError(t, ts.SetReminder("寫報告", "09:00"))

	all, err := ts.ListTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "09:00", all[0].ReminderTime)

	// 允許覆蓋既有提醒
	require.NoError(t, ts.SetReminder("寫報告", "10:00"))
	all, _ = ts.ListTasks(nil)
	assert.Equal(t, "10:00", all[0].ReminderTime)

	assert.ErrorIs(t, ts.SetReminder("不存在", "09:00"), ErrTaskNotFound)
}

func TestSetProgress(t *testing.T) {
	ts, _ := newTestTaskService()
	require.NoError(t, ts.AddTask("寫報告", ""))

	require.NoError(t, ts.SetProgress("寫報告", 60))

	all, err := ts.ListTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, 60, all[0].Progress)

	assert.ErrorIs(t, ts.SetProgress("不存在", 10), ErrTaskNotFound)
}

func TestTodayProgress(t *testing.T) {
	ts, _ := newTestTaskService()

	t.Run("沒有任務時為零而非除零錯誤", func(t *testing.T) {
		completed, total, percentage, err := ts.TodayProgress()
		require.NoError(t, err)
		assert.Equal(t, 0, completed)
		assert.Equal(t, 0, total)
		assert.Equal(t, 0.0, percentage)
	})

	t.Run("新增並完成後為百分之百", func(t *testing.T) {
		require.NoError(t, ts.AddTask("買牛奶", ""))
		require.NoError(t, ts.CompleteTask("買牛奶"))

		completed, total, percentage, err := ts.TodayProgress()
		require.NoError(t, err)
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1, total)
		assert.Equal(t, 100.0, percentage)
	})

	t.Run("只統計今天建立的任務", func(t *testing.T) {
		ts.now = fixedNow(testClock.AddDate(0, 0, -1))
		require.NoError(t, ts.AddTask("昨天的任務", ""))
		ts.now = fixedNow(testClock)

		_, total, _, err := ts.TodayProgress()
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}

func TestDailyPlanRoundTrip(t *testing.T) {
	ts, _ := newTestTaskService()

	require.NoError(t, ts.SetDailyPlan(map[string]string{"早上": "閱讀"}))
	plan, err := ts.GetDailyPlan()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"早上": "閱讀"}, plan)

	// 第二次設定整份替換，不做合併
	require.NoError(t, ts.SetDailyPlan(map[string]string{"中午": "午餐"}))
	plan, err = ts.GetDailyPlan()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"中午": "午餐"}, plan)
}

func TestConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	ts, ms := newTestTaskService()
	require.NoError(t, ts.AddTask("既有任務", ""))

	// 拉長讀取與寫回之間的窗口，讓未被串行化的讀改寫必然互相覆蓋
	ms.loadDelay = 20 * time.Millisecond

	var wg sync.WaitGroup
	for _, content := range []string{"任務A", "任務B"} {
		wg.Add(1)
		go func(content string) {
			defer wg.Done()
			assert.NoError(t, ts.AddTask(content, ""))
		}(content)
	}
	wg.Wait()

	all, err := ts.ListTasks(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3, "併發新增不得遺失任何一筆")
}

func TestConcurrentCompleteAndSweepDoNotLoseUpdates(t *testing.T) {
	ts, ms := newTestTaskService()
	require.NoError(t, ts.AddTask("買牛奶", "08:30"))
	require.NoError(t, ts.AddTask("寫報告", ""))

	ms.loadDelay = 20 * time.Millisecond
	sweepTime := time.Date(2026, 8, 29, 8, 30, 0, 0, time.UTC)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, ts.CompleteTask("寫報告"))
	}()
	go func() {
		defer wg.Done()
		_, err := ts.ReminderSweep(sweepTime)
		assert.NoError(t, err)
	}()
	wg.Wait()

	// 完成標記與提醒時間戳都必須留存
	all, err := ts.ListTasks(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, task := range all {
		switch task.Content {
		case "寫報告":
			assert.True(t, task.Completed)
		case "買牛奶":
			assert.NotNil(t, task.LastRemindedAt)
		}
	}
}

func TestAddTask_StoreFailure(t *testing.T) {
	ts, ms := newTestTaskService()
	ms.failSave = true

	err := ts.AddTask("買牛奶", "")
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestReminderSweep(t *testing.T) {
	sweepTime := time.Date(2026, 8, 29, 8, 30, 0, 0, time.UTC)

	t.Run("到點的未完成任務觸發一次並蓋章", func(t *testing.T) {
		ts, _ := newTestTaskService()
		require.NoError(t, ts.AddTask("買牛奶", "08:30"))

		fired, err := ts.ReminderSweep(sweepTime)
		require.NoError(t, err)
		require.Len(t, fired, 1)
		assert.Equal(t, "買牛奶", fired[0].Content)

		all, _ := ts.ListTasks(nil)
		require.NotNil(t, all[0].LastRemindedAt)
		assert.Equal(t, sweepTime, all[0].LastRemindedAt.UTC())
	})

	t.Run("已完成任務不觸發", func(t *testing.T) {
		ts, _ := newTestTaskService()
		require.NoError(t, ts.AddTask("買牛奶", "08:30"))
		require.NoError(t, ts.CompleteTask("買牛奶"))

		fired, err := ts.ReminderSweep(sweepTime)
		require.NoError(t, err)
		assert.Empty(t, fired)
	})

	t.Run("時間不符不觸發", func(t *testing.T) {
		ts, _ := newTestTaskService()
		require.NoError(t, ts.AddTask("買牛奶", "08:30"))

		fired, err := ts.ReminderSweep(sweepTime.Add(time.Minute))
		require.NoError(t, err)
		assert.Empty(t, fired)
	})

	t.Run("同一分鐘內不重複觸發", func(t *testing.T) {
		ts, _ := newTestTaskService()
		require.NoError(t, ts.AddTask("買牛奶", "08:30"))

		fired, err := ts.ReminderSweep(sweepTime)
		require.NoError(t, err)
		require.Len(t, fired, 1)

		fired, err = ts.ReminderSweep(sweepTime.Add(30 * time.Second))
		require.NoError(t, err)
		assert.Empty(t, fired)
	})

	t.Run("隔天同一時刻再次觸發", func(t *testing.T) {
		ts, _ := newTestTaskService()
		require.NoError(t, ts.AddTask("買牛奶", "08:30"))

		fired, err := ts.ReminderSweep(sweepTime)
		require.NoError(t, err)
		require.Len(t, fired, 1)

		fired, err = ts.ReminderSweep(sweepTime.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, fired, 1)
	})
}
