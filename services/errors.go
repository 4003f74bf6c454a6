package services

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound 在未完成任務中找不到指定內容
var ErrTaskNotFound = errors.New("找不到該未完成任務")

// FormatError 指令格式錯誤（時間格式、JSON 格式、提醒後綴）
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}

// NewFormatError 構造格式錯誤
func NewFormatError(format string, args ...interface{}) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// IsFormatError 判斷是否為格式錯誤
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// StoreError 持久化讀寫失敗
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("持久化操作失敗 %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError 判斷是否為持久化錯誤
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
