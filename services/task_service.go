package services

import (
	"sort"
	"time"

	"MindBotGo/config"
	"MindBotGo/models"
	"MindBotGo/store"
	"MindBotGo/utils"
)

// TaskService 任務引擎：任務的增改查、完成、進度與提醒掃描
type TaskService struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewTaskService(s store.Store, loc *time.Location) *TaskService {
	return &TaskService{
		store: s,
		loc:   loc,
		now:   time.Now,
	}
}

// loadState 讀取 tasks 集合；集合尚未建立時返回空文檔
func (s *TaskService) loadState() (*models.TaskState, error) {
	state := models.NewTaskState()
	if err := s.store.Load(models.CollectionTasks, state); err != nil {
		if err == store.ErrCollectionNotFound {
			return state, nil
		}
		return nil, &StoreError{Op: "load tasks", Err: err}
	}
	if state.DailyPlan == nil {
		state.DailyPlan = map[string]string{}
	}
	return state, nil
}

// mutateState 在集合鎖內執行一次完整的讀改寫
//
// 所有任務變更都必須經過這裡：讀取、修改、寫回被同一把集合鎖覆蓋，
// 併發的 webhook 請求或排程掃描不會互相覆蓋。mutate 返回 false 表示
// 狀態未變，跳過寫回。
func (s *TaskService) mutateState(mutate func(state *models.TaskState) (bool, error)) error {
	return s.store.Update(models.CollectionTasks, func(load store.LoadFunc, save store.SaveFunc) error {
		state := models.NewTaskState()
		if err := load(state); err != nil && err != store.ErrCollectionNotFound {
			return &StoreError{Op: "load tasks", Err: err}
		}
		if state.DailyPlan == nil {
			state.DailyPlan = map[string]string{}
		}

		dirty, err := mutate(state)
		if err != nil || !dirty {
			return err
		}

		if err := save(state); err != nil {
			return &StoreError{Op: "save tasks", Err: err}
		}
		return nil
	})
}

// AddTask 新增任務，reminderTime 為空表示不設提醒
func (s *TaskService) AddTask(content, reminderTime string) error {
	err := s.mutateState(func(state *models.TaskState) (bool, error) {
		state.Tasks = append(state.Tasks, models.Task{
			ID:           utils.GenerateID(),
			Content:      content,
			CreatedAt:    s.now().In(s.loc),
			ReminderTime: reminderTime,
		})
		return true, nil
	})
	if err != nil {
		return err
	}
	config.Logger.Infow("新增任務", "content", content, "reminderTime", reminderTime)
	return nil
}

// findActiveTaskByContent 在未完成任務中按內容精確匹配，從最新往回找第一筆
//
// 任務以內容字串而非穩定識別碼定位；重複內容時只作用於最近一筆。
func findActiveTaskByContent(tasks []models.Task, content string) int {
	for i := len(tasks) - 1; i >= 0; i-- {
		if !tasks[i].Completed && tasks[i].Content == content {
			return i
		}
	}
	return -1
}

// CompleteTask 標記任務為已完成；重複完成視為找不到
func (s *TaskService) CompleteTask(content string) error {
	err := s.mutateState(func(state *models.TaskState) (bool, error) {
		idx := findActiveTaskByContent(state.Tasks, content)
		if idx < 0 {
			return false, ErrTaskNotFound
		}
		completedAt := s.now().In(s.loc)
		state.Tasks[idx].Completed = true
		state.Tasks[idx].CompletedAt = &completedAt
		return true, nil
	})
	if err != nil {
		return err
	}
	config.Logger.Infow("完成任務", "content", content)
	return nil
}

// SetReminder 為未完成任務設定每日提醒時間，允許覆蓋既有提醒
func (s *TaskService) SetReminder(content, clock string) error {
	err := s.mutateState(func(state *models.TaskState) (bool, error) {
		idx := findActiveTaskByContent(state.Tasks, content)
		if idx < 0 {
			return false, ErrTaskNotFound
		}
		state.Tasks[idx].ReminderTime = clock
		return true, nil
	})
	if err != nil {
		return err
	}
	config.Logger.Infow("設定提醒", "content", content, "time", clock)
	return nil
}

// SetProgress 更新未完成任務的進度百分比
func (s *TaskService) SetProgress(content string, percent int) error {
	err := s.mutateState(func(state *models.TaskState) (bool, error) {
		idx := findActiveTaskByContent(state.Tasks, content)
		if idx < 0 {
			return false, ErrTaskNotFound
		}
		state.Tasks[idx].Progress = percent
		return true, nil
	})
	if err != nil {
		return err
	}
	config.Logger.Infow("更新進度", "content", content, "percent", percent)
	return nil
}

// ListTasks 按建立時間倒序返回任務；completed 為 nil 時返回全部
func (s *TaskService) ListTasks(completed *bool) ([]models.Task, error) {
	state, err := s.loadState()
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		if completed == nil || t.Completed == *completed {
			tasks = append(tasks, t)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// TodayProgress 統計今天（配置時區）建立的任務完成率；沒有任務時為 0
func (s *TaskService) TodayProgress() (completed, total int, percentage float64, err error) {
	state, err := s.loadState()
	if err != nil {
		return 0, 0, 0, err
	}

	today := s.now().In(s.loc).Format("2006-01-02")
	for _, t := range state.Tasks {
		if t.CreatedAt.In(s.loc).Format("2006-01-02") != today {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
	}

	if total == 0 {
		return 0, 0, 0, nil
	}
	return completed, total, float64(completed) / float64(total) * 100, nil
}

// ReminderSweep 掃描提醒時間等於 now（HH:MM）的未完成任務並蓋上提醒時間戳
//
// 同一分鐘內已提醒過的任務會被跳過，避免時鐘漂移造成重複推送。
func (s *TaskService) ReminderSweep(now time.Time) ([]models.Task, error) {
	local := now.In(s.loc)
	clock := local.Format("15:04")

	var fired []models.Task
	err := s.mutateState(func(state *models.TaskState) (bool, error) {
		for i := range state.Tasks {
			t := &state.Tasks[i]
			if t.Completed || t.ReminderTime != clock {
				continue
			}
			if t.LastRemindedAt != nil && sameMinute(t.LastRemindedAt.In(s.loc), local) {
				continue
			}
			remindedAt := local
			t.LastRemindedAt = &remindedAt
			fired = append(fired, *t)
		}
		return len(fired) > 0, nil
	})
	if err != nil {
		return nil, err
	}

	if len(fired) == 0 {
		return nil, nil
	}
	config.Logger.Infow("提醒掃描觸發", "clock", clock, "count", len(fired))
	return fired, nil
}

// sameMinute 判斷兩個時刻是否落在同一分鐘
func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}

// SetDailyPlan 整份替換每日計畫
func (s *TaskService) SetDailyPlan(plan map[string]string) error {
	if plan == nil {
		plan = map[string]string{}
	}
	err := s.mutateState(func(state *models.TaskState) (bool, error) {
		state.DailyPlan = plan
		return true, nil
	})
	if err != nil {
		return err
	}
	config.Logger.Infow("更新每日計畫", "slots", len(plan))
	return nil
}

// GetDailyPlan 返回當前每日計畫
func (s *TaskService) GetDailyPlan() (map[string]string, error) {
	state, err := s.loadState()
	if err != nil {
		return nil, err
	}
	return state.DailyPlan, nil
}
