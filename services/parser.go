package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"MindBotGo/models"
)

// 指令動詞，同時接受全形與半形冒號
const (
	verbAddTask     = "新增"
	verbComplete    = "完成"
	verbSetReminder = "提醒"
	verbSetProgress = "進度"
	verbReflect     = "反思"
	verbSetPlan     = "設定計畫"
)

// 無操作數的關鍵字指令
const (
	keywordListTasks     = "查詢任務"
	keywordTodayProgress = "今日進度"
	keywordGetPlan       = "查詢計畫"
	keywordReflectPrompt = "反思問題"
	keywordDeepPrompt    = "深度反思"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseCommand 將一行文字解析為帶類型的指令值
//
// 不符合任何前綴或關鍵字的輸入歸為 Unknown，由分發器決定後續語義。
func ParseCommand(text string) (models.Command, error) {
	text = strings.TrimSpace(text)

	switch text {
	case keywordListTasks:
		return models.Command{Type: models.CmdListTasks}, nil
	case keywordTodayProgress:
		return models.Command{Type: models.CmdTodayProgress}, nil
	case keywordGetPlan:
		return models.Command{Type: models.CmdGetPlan}, nil
	case keywordReflectPrompt:
		return models.Command{Type: models.CmdReflectPrompt}, nil
	case keywordDeepPrompt:
		return models.Command{Type: models.CmdDeepPrompt}, nil
	case "幫助", "help":
		return models.Command{Type: models.CmdHelp}, nil
	}

	if operand, ok := stripVerb(text, verbAddTask); ok {
		return parseAddTask(operand)
	}
	if operand, ok := stripVerb(text, verbComplete); ok {
		if operand == "" {
			return models.Command{}, NewFormatError("任務內容不能為空")
		}
		return models.Command{Type: models.CmdCompleteTask, Content: operand}, nil
	}
	if operand, ok := stripVerb(text, verbSetReminder); ok {
		return parseSetReminder(operand)
	}
	if operand, ok := stripVerb(text, verbSetProgress); ok {
		return parseSetProgress(operand)
	}
	if operand, ok := stripVerb(text, verbReflect); ok {
		if operand == "" {
			return models.Command{}, NewFormatError("反思內容不能為空")
		}
		return models.Command{Type: models.CmdReflectAnswer, Content: operand}, nil
	}
	if operand, ok := stripVerb(text, verbSetPlan); ok {
		return parseSetPlan(operand)
	}

	return models.Command{Type: models.CmdUnknown, Raw: text}, nil
}

// stripVerb 剝除指令前綴，返回修剪後的操作數
func stripVerb(text, verb string) (string, bool) {
	for _, colon := range []string{"：", ":"} {
		prefix := verb + colon
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix)), true
		}
	}
	return "", false
}

// parseAddTask 解析「新增：內容 @HH:MM」，提醒後綴可省略
func parseAddTask(operand string) (models.Command, error) {
	if operand == "" {
		return models.Command{}, NewFormatError("任務內容不能為空")
	}

	idx := strings.LastIndex(operand, " @")
	if idx < 0 {
		return models.Command{Type: models.CmdAddTask, Content: operand}, nil
	}

	content := strings.TrimSpace(operand[:idx])
	clock, err := normalizeClock(operand[idx+len(" @"):])
	if err != nil {
		// 帶了 @ 後綴但格式不對，整條指令判定失敗而不是默默忽略
		return models.Command{}, NewFormatError("提醒時間格式錯誤，請使用「新增：任務內容 @HH:MM」")
	}
	if content == "" {
		return models.Command{}, NewFormatError("任務內容不能為空")
	}
	return models.Command{Type: models.CmdAddTask, Content: content, Time: clock}, nil
}

// parseSetReminder 解析「提醒：內容=HH:MM」
func parseSetReminder(operand string) (models.Command, error) {
	parts := strings.SplitN(operand, "=", 2)
	if len(parts) != 2 {
		return models.Command{}, NewFormatError("提醒格式錯誤，請使用「提醒：任務內容=HH:MM」")
	}

	content := strings.TrimSpace(parts[0])
	clock, err := normalizeClock(strings.TrimSpace(parts[1]))
	if err != nil || content == "" {
		return models.Command{}, NewFormatError("提醒格式錯誤，請使用「提醒：任務內容=HH:MM」")
	}
	return models.Command{Type: models.CmdSetReminder, Content: content, Time: clock}, nil
}

// parseSetProgress 解析「進度：內容=NN」，NN 為 0-100
func parseSetProgress(operand string) (models.Command, error) {
	parts := strings.SplitN(operand, "=", 2)
	if len(parts) != 2 {
		return models.Command{}, NewFormatError("進度格式錯誤，請使用「進度：任務內容=數字」")
	}

	content := strings.TrimSpace(parts[0])
	percent, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || content == "" || percent < 0 || percent > 100 {
		return models.Command{}, NewFormatError("進度格式錯誤，數字需介於 0 到 100")
	}
	return models.Command{Type: models.CmdSetProgress, Content: content, Percent: percent}, nil
}

// parseSetPlan 解析「設定計畫：{JSON}」
func parseSetPlan(operand string) (models.Command, error) {
	var plan map[string]string
	if err := json.Unmarshal([]byte(operand), &plan); err != nil {
		return models.Command{}, NewFormatError("計畫格式錯誤，請使用正確的 JSON 格式")
	}
	// "null" 能成功反序列化為 nil，但它不是 JSON 物件
	if plan == nil {
		return models.Command{}, NewFormatError("計畫格式錯誤，請使用正確的 JSON 格式")
	}
	return models.Command{Type: models.CmdSetPlan, Plan: plan}, nil
}

// normalizeClock 校驗並規整 HH:MM 字串，小時可省略前導零
func normalizeClock(s string) (string, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "", NewFormatError("時間格式錯誤")
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", NewFormatError("時間格式錯誤")
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// TimeOfDayCategory 依當前時刻分類反思問題池：5-12 點為晨間，其餘為晚間
func TimeOfDayCategory(now time.Time) string {
	if h := now.Hour(); h >= 5 && h < 12 {
		return models.CategoryMorning
	}
	return models.CategoryEvening
}
