package store

import "errors"

// ErrCollectionNotFound 集合尚未建立
var ErrCollectionNotFound = errors.New("集合不存在")

// LoadFunc 在 Update 週期內讀取集合文檔
type LoadFunc func(out interface{}) error

// SaveFunc 在 Update 週期內寫回集合文檔
type SaveFunc func(doc interface{}) error

// Store 持久化抽象：以集合為單位整份讀寫
//
// Save 必須具備整份替換語義：寫入失敗時先前的持久化狀態不得被破壞。
// 所有讀改寫必須通過 Update 進行：Update 在整個週期內持有集合鎖，
// 併發的讀改寫不得交錯，避免排程器與併發請求互相覆蓋（遺失更新）。
type Store interface {
	Load(collection string, out interface{}) error
	Save(collection string, doc interface{}) error
	Update(collection string, fn func(load LoadFunc, save SaveFunc) error) error
}
