package model

import "time"

// AIGenerationLog 定义了 ai_generation_logs 表的 ORM 模型。
// 每条记录对应一次 AI 章节生成调用，仅追加，不修改不删除。
type AIGenerationLog struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID         uint   `gorm:"not null;index" json:"reportId"`
	ChapterType      string `gorm:"type:varchar(50);not null" json:"chapterType"`
	PromptText       string `gorm:"type:text;not null" json:"promptText"`
	GeneratedContent string `gorm:"type:text;not null" json:"generatedContent"`

	ModelName      string  `gorm:"type:varchar(100);not null" json:"modelName"`
	TokensUsed     int     `gorm:"not null" json:"tokensUsed"`
	GenerationTime float64 `gorm:"not null" json:"generationTime"` // 生成耗时（秒）

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (AIGenerationLog) TableName() string {
	return "ai_generation_logs"
}
