package models

// CommandType 指令類型
type CommandType string

const (
	CmdAddTask       CommandType = "add_task"
	CmdCompleteTask  CommandType = "complete_task"
	CmdSetReminder   CommandType = "set_reminder"
	CmdSetProgress   CommandType = "set_progress"
	CmdListTasks     CommandType = "list_tasks"
	CmdTodayProgress CommandType = "today_progress"
	CmdReflectPrompt CommandType = "reflect_prompt"
	CmdDeepPrompt    CommandType = "deep_prompt"
	CmdReflectAnswer CommandType = "reflect_answer"
	CmdSetPlan       CommandType = "set_plan"
	CmdGetPlan       CommandType = "get_plan"
	CmdHelp          CommandType = "help"
	CmdUnknown       CommandType = "unknown"
)

// Command 解析後的指令值
type Command struct {
	Type    CommandType
	Content string            // 任務內容或反思內容
	Time    string            // HH:MM 提醒時間
	Percent int               // 進度百分比
	Plan    map[string]string // 每日計畫
	Raw     string            // 原始輸入，僅 Unknown 使用
}
