package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"MindBotGo/models"
	"MindBotGo/store"
)

// memStore 測試用的內存持久化實現
//
// loadDelay 在讀取後故意停頓，放大讀改寫之間的競態窗口。
type memStore struct {
	mu        sync.Mutex
	docs      map[string][]byte
	failSave  bool
	failLoad  bool
	loadDelay time.Duration
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (m *memStore) Load(collection string, out interface{}) error {
	m.mu.Lock()
	err := m.load(collection, out)
	m.mu.Unlock()

	if err == nil && m.loadDelay > 0 {
		time.Sleep(m.loadDelay)
	}
	return err
}

func (m *memStore) Save(collection string, doc interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(collection, doc)
}

// Update 在整個讀改寫週期內持有鎖，與 DocumentStore 的語義一致
func (m *memStore) Update(collection string, fn func(load store.LoadFunc, save store.SaveFunc) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(
		func(out interface{}) error {
			err := m.load(collection, out)
			if err == nil && m.loadDelay > 0 {
				time.Sleep(m.loadDelay)
			}
			return err
		},
		func(doc interface{}) error { return m.save(collection, doc) },
	)
}

func (m *memStore) load(collection string, out interface{}) error {
	if m.failLoad {
		return errors.New("讀取失敗")
	}
	body, ok := m.docs[collection]
	if !ok {
		return store.ErrCollectionNotFound
	}
	return json.Unmarshal(body, out)
}

func (m *memStore) save(collection string, doc interface{}) error {
	if m.failSave {
		return errors.New("寫入失敗")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.docs[collection] = body
	return nil
}

// seedQuestions 寫入預設問題庫
func (m *memStore) seedQuestions() {
	_ = m.Save(models.CollectionQuestions, models.DefaultQuestionBank())
}

// memQuestionCache 測試用的待答問題緩存
type memQuestionCache struct {
	mu      sync.Mutex
	pending map[string]string
}

func newMemQuestionCache() *memQuestionCache {
	return &memQuestionCache{pending: make(map[string]string)}
}

func (c *memQuestionCache) GetPending(ctx context.Context, userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[userID], nil
}

func (c *memQuestionCache) SetPending(ctx context.Context, userID, question string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[userID] = question
	return nil
}

// fakeNotifier 記錄推送的測試通知器
type fakeNotifier struct {
	mu     sync.Mutex
	pushes []pushRecord
	err    error
}

type pushRecord struct {
	userID string
	msg    models.OutboundMessage
}

func (n *fakeNotifier) Push(ctx context.Context, userID string, msg models.OutboundMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, pushRecord{userID: userID, msg: msg})
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pushes)
}

func (n *fakeNotifier) texts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.pushes))
	for i, p := range n.pushes {
		out[i] = p.msg.Text
	}
	return out
}

// testClock 固定時刻：2026-08-29 週六上午十點
var testClock = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
