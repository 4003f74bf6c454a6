package services

import (
	"context"
	"math/rand"
	"time"

	"MindBotGo/config"
	"MindBotGo/models"
	"MindBotGo/store"
	"MindBotGo/utils"
)

// ReflectionService 反思引擎：問題抽樣、反思記錄與自由文字的問題關聯
type ReflectionService struct {
	store store.Store
	cache QuestionCache
	loc   *time.Location
	now   func() time.Time
}

func NewReflectionService(s store.Store, cache QuestionCache, loc *time.Location) *ReflectionService {
	return &ReflectionService{
		store: s,
		cache: cache,
		loc:   loc,
		now:   time.Now,
	}
}

func (s *ReflectionService) loadState() (*models.ReflectionState, error) {
	state := models.NewReflectionState()
	if err := s.store.Load(models.CollectionReflections, state); err != nil {
		if err == store.ErrCollectionNotFound {
			return state, nil
		}
		return nil, &StoreError{Op: "load reflections", Err: err}
	}
	return state, nil
}

// RandomQuestion 從問題庫對應分類中均勻隨機抽一題；分類為空或不存在時返回空字串
func (s *ReflectionService) RandomQuestion(category string) (string, error) {
	bank := models.QuestionBank{}
	if err := s.store.Load(models.CollectionQuestions, &bank); err != nil {
		if err == store.ErrCollectionNotFound {
			return "", nil
		}
		return "", &StoreError{Op: "load questions", Err: err}
	}

	questions := bank[category]
	if len(questions) == 0 {
		return "", nil
	}
	return questions[rand.Intn(len(questions))], nil
}

// RecordReflection 追加一筆反思記錄，question 可以為空
//
// 讀改寫在集合鎖內完成，併發記錄不會互相覆蓋。
func (s *ReflectionService) RecordReflection(question, answer string) error {
	err := s.store.Update(models.CollectionReflections, func(load store.LoadFunc, save store.SaveFunc) error {
		state := models.NewReflectionState()
		if err := load(state); err != nil && err != store.ErrCollectionNotFound {
			return &StoreError{Op: "load reflections", Err: err}
		}

		state.Reflections = append(state.Reflections, models.Reflection{
			ID:        utils.GenerateID(),
			Question:  question,
			Answer:    answer,
			CreatedAt: s.now().In(s.loc),
		})

		if err := save(state); err != nil {
			return &StoreError{Op: "save reflections", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}
	config.Logger.Infow("記錄反思", "question", question)
	return nil
}

// AskQuestion 為用戶抽一題並記下待答問題，供之後的自由文字回答關聯
func (s *ReflectionService) AskQuestion(ctx context.Context, userID, category string) (string, error) {
	question, err := s.RandomQuestion(category)
	if err != nil || question == "" {
		return "", err
	}

	if err := s.cache.SetPending(ctx, userID, question); err != nil {
		// 待答問題寫入失敗只影響關聯精度，不影響出題
		config.Logger.Errorw("記錄待答問題失敗", "userID", userID, "error", err)
	}
	return question, nil
}

// AnswerFallback 把不符合任何指令的自由文字當成對最近問題的回答
//
// 關聯順序：該用戶的待答問題 -> 反思日誌最後一筆的問題。兩者皆無且日誌為空時
// 不做記錄，返回 false 讓分發器回覆「看不懂」。
func (s *ReflectionService) AnswerFallback(ctx context.Context, userID, answer string) (bool, error) {
	question, err := s.cache.GetPending(ctx, userID)
	if err != nil {
		config.Logger.Errorw("讀取待答問題失敗", "userID", userID, "error", err)
		question = ""
	}

	if question == "" {
		state, err := s.loadState()
		if err != nil {
			return false, err
		}
		if len(state.Reflections) == 0 {
			return false, nil
		}
		question = state.Reflections[len(state.Reflections)-1].Question
	}

	if err := s.RecordReflection(question, answer); err != nil {
		return false, err
	}
	return true, nil
}
