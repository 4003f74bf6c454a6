package store

import (
	"encoding/json"
	"sync"

	"MindBotGo/config"
	"MindBotGo/models"

	"gorm.io/gorm"
)

// DocumentStore 基於 documents 表的持久化實現
type DocumentStore struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex // 集合級鎖
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

// collectionLock 取得集合對應的鎖
func (s *DocumentStore) collectionLock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[collection] = lock
	}
	return lock
}

// Load 讀取整份集合文檔並反序列化到 out
func (s *DocumentStore) Load(collection string, out interface{}) error {
	lock := s.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	return s.load(collection, out)
}

// Save 以整份替換的方式寫入集合文檔
func (s *DocumentStore) Save(collection string, doc interface{}) error {
	lock := s.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	return s.save(collection, doc)
}

// Update 在集合鎖內執行一次完整的讀改寫週期
//
// fn 收到的 load/save 不再各自搶鎖，整個週期被同一把集合鎖覆蓋，
// 併發的讀改寫因此不會交錯造成遺失更新。
func (s *DocumentStore) Update(collection string, fn func(load LoadFunc, save SaveFunc) error) error {
	lock := s.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	return fn(
		func(out interface{}) error { return s.load(collection, out) },
		func(doc interface{}) error { return s.save(collection, doc) },
	)
}

// load 不加鎖的讀取，調用方需已持有集合鎖
func (s *DocumentStore) load(collection string, out interface{}) error {
	var doc models.Document
	if err := s.db.Where("name = ?", collection).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCollectionNotFound
		}
		config.Logger.Errorw("讀取集合失敗", "collection", collection, "error", err)
		return err
	}

	if err := json.Unmarshal([]byte(doc.Body), out); err != nil {
		config.Logger.Errorw("集合內容反序列化失敗", "collection", collection, "error", err)
		return err
	}
	return nil
}

// save 不加鎖的寫入，調用方需已持有集合鎖
func (s *DocumentStore) save(collection string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		config.Logger.Errorw("集合內容序列化失敗", "collection", collection, "error", err)
		return err
	}

	// 開啟事務
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var existing models.Document
	if err := tx.Where("name = ?", collection).First(&existing).Error; err == nil {
		// 如果存在，整份替換文檔內容
		if err := tx.Model(&existing).Update("body", string(body)).Error; err != nil {
			tx.Rollback()
			config.Logger.Errorw("更新集合失敗", "collection", collection, "error", err)
			return err
		}
	} else if err == gorm.ErrRecordNotFound {
		// 如果不存在，建立新文檔
		record := models.Document{Name: collection, Body: string(body)}
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			config.Logger.Errorw("建立集合失敗", "collection", collection, "error", err)
			return err
		}
	} else {
		tx.Rollback()
		config.Logger.Errorw("查詢集合失敗", "collection", collection, "error", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		config.Logger.Errorw("提交集合寫入失敗", "collection", collection, "error", err)
		return err
	}
	return nil
}

// InitDefaults 為缺失的集合寫入預設文檔
func (s *DocumentStore) InitDefaults() error {
	defaults := map[string]interface{}{
		models.CollectionTasks:       models.NewTaskState(),
		models.CollectionReflections: models.NewReflectionState(),
		models.CollectionQuestions:   models.DefaultQuestionBank(),
	}

	for name, doc := range defaults {
		var existing models.Document
		err := s.db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := s.Save(name, doc); err != nil {
			return err
		}
		config.Logger.Infow("初始化集合", "collection", name)
	}
	return nil
}
