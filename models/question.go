package models

// 問題分類
const (
	CategoryMorning = "morning"
	CategoryEvening = "evening"
	CategoryDeep    = "deep"
)

// QuestionBank questions 集合的文檔結構：分類 -> 問題列表
type QuestionBank map[string][]string

// DefaultQuestionBank 首次啟動時寫入的預設問題庫
func DefaultQuestionBank() QuestionBank {
	return QuestionBank{
		CategoryMorning: {
			"今天你最重要的一件事是什麼？",
			"你希望今天結束時能完成什麼？",
			"今天有什麼可能讓你分心的事情？你要如何應對？",
			"你今天最期待什麼事情？",
			"如果今天只能完成一件事，你會選擇做什麼？",
			"今天你想要專注發展哪方面的能力？",
			"有什麼小習慣是你今天想要堅持的？",
		},
		CategoryEvening: {
			"今天你完成了什麼有意義的事？",
			"你今天遇到最大的阻力是什麼？",
			"今天有什麼事情讓你感到開心或有成就感？",
			"明天你想要改進什麼？",
			"今天你學到了什麼？",
			"今天你最感恩的一件事是什麼？",
			"今天有哪個決定你覺得做得特別好？",
		},
		CategoryDeep: {
			"在過去的一個月中，你注意到自己有什麼成長或改變？",
			"目前有什麼事情正在阻礙你實現目標？你可以如何突破？",
			"如果回顧你人生中最有意義的幾個決定，有什麼共同點？",
			"你最近感到壓力的根源是什麼？有哪些方法可以幫助你減輕它？",
			"如果可以給一年前的自己一個建議，你會說什麼？",
		},
	}
}
