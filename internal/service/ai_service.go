package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/model"
	"gongu-report-go/internal/repository"
	"gongu-report-go/pkg/ai"
	"gongu-report-go/pkg/log"
)

// historyPreviewLimit 是生成历史中内容预览的最大字符数。
const historyPreviewLimit = 100

// noTemplateSentinel 在章节没有任何可用模板时返回。
const noTemplateSentinel = "暂无该章节模板"

// promptTemplates 是章节提示词模板目录：
// 外层键为章节标识，内层键为保险类型（"default" 为该章节的兜底模板）。
var promptTemplates = map[string]map[string]string{
	model.ChapterAccidentDetails: {
		"default": `请根据以下信息生成事故经过及索赔章节：

上下文信息：
{context}

请包括以下要点：
1. 事故发生的时间、地点、经过
2. 当事人信息
3. 损失情况概述
4. 索赔申请情况

要求：
- 语言专业、客观
- 逻辑清晰、条理分明
- 篇幅适中（300-500字）
`,
		model.InsuranceTypeAuto: `请根据以下信息生成车险事故经过及索赔章节：

上下文信息：
{context}

请重点描述：
1. 交通事故发生经过
2. 车辆损坏情况
3. 人员伤亡情况（如有）
4. 交警处理情况
5. 保险报案及理赔申请

格式要求：
- 时间线清晰
- 责任认定明确
- 损失描述详细
`,
	},
	model.ChapterSiteInvestigation: {
		"default": `请根据以下信息生成现场查勘情况章节：

上下文信息：
{context}

请详细描述：
1. 查勘时间、地点、参与人员
2. 现场环境和条件
3. 损失标的查勘情况
4. 现场拍照和取证
5. 相关人员询问记录

要求：
- 客观真实、详实准确
- 重点突出、条理清晰
- 为后续定损提供依据
`,
	},
}

// GenerateResultDTO 是一次章节生成的响应数据。
type GenerateResultDTO struct {
	ChapterType      string  `json:"chapterType"`
	GeneratedContent string  `json:"generatedContent"`
	TokensUsed       int     `json:"tokensUsed"`
	GenerationTime   float64 `json:"generationTime"`
}

// HistoryEntryDTO 是一条生成历史记录，内容以预览形式返回。
type HistoryEntryDTO struct {
	ID             uint      `json:"id"`
	ChapterType    string    `json:"chapterType"`
	ModelName      string    `json:"modelName"`
	TokensUsed     int       `json:"tokensUsed"`
	GenerationTime float64   `json:"generationTime"`
	CreatedAt      time.Time `json:"createdAt"`
	ContentPreview string    `json:"contentPreview"`
}

// PromptTemplateDTO 是章节提示词模板的查询结果。
type PromptTemplateDTO struct {
	ChapterType    string   `json:"chapterType"`
	Template       string   `json:"template"`
	AvailableTypes []string `json:"availableTypes"`
}

// ChatResultDTO 是一次对话调用的响应数据。
type ChatResultDTO struct {
	Response   string `json:"response"`
	TokensUsed int    `json:"tokensUsed"`
	Model      string `json:"model"`
}

// AIService 接口定义了 AI 章节生成相关的业务操作。
type AIService interface {
	Generate(ctx context.Context, reportID, ownerID uint, chapterType, contextText, promptTemplate string) (*GenerateResultDTO, error)
	ListHistory(reportID, ownerID uint, skip, limit int) ([]HistoryEntryDTO, int64, error)
	GetPromptTemplate(chapterType, insuranceType string) *PromptTemplateDTO
	Chat(ctx context.Context, message string, history []ai.Message) (*ChatResultDTO, error)
}

type aiService struct {
	reportRepo repository.ReportRepository
	aiLogRepo  repository.AILogRepository
	aiClient   ai.Client
}

// NewAIService 创建一个新的 AIService 实例。
func NewAIService(reportRepo repository.ReportRepository, aiLogRepo repository.AILogRepository, aiClient ai.Client) AIService {
	return &aiService{
		reportRepo: reportRepo,
		aiLogRepo:  aiLogRepo,
		aiClient:   aiClient,
	}
}

// Generate 调用生成能力为报告撰写指定章节。
// 生成日志与章节内容在同一事务中落库：任一失败则双双回滚，
// 报告章节保持调用前的内容，也不会留下日志记录。
func (s *aiService) Generate(ctx context.Context, reportID, ownerID uint, chapterType, contextText, promptTemplate string) (*GenerateResultDTO, error) {
	report, err := s.reportRepo.FindByIDAndOwner(reportID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("报告不存在")
		}
		return nil, err
	}

	if !model.IsValidChapterType(chapterType) {
		return nil, apperr.Validationf("无效的章节类型: %s", chapterType)
	}

	start := time.Now()
	result, err := s.aiClient.GenerateChapter(ctx, ai.ChapterRequest{
		ChapterType:    chapterType,
		Context:        contextText,
		Report:         report,
		PromptTemplate: promptTemplate,
	})
	if err != nil {
		log.Errorf("AI 章节生成调用失败: reportID=%d, chapter=%s, error: %v", reportID, chapterType, err)
		return nil, apperr.Generation("AI生成失败", err)
	}
	generationTime := time.Since(start).Seconds()

	genLog := &model.AIGenerationLog{
		ReportID:         reportID,
		ChapterType:      chapterType,
		PromptText:       result.PromptUsed,
		GeneratedContent: result.Content,
		ModelName:        result.ModelName,
		TokensUsed:       result.TokensUsed,
		GenerationTime:   generationTime,
	}
	if err := s.aiLogRepo.CreateWithChapter(genLog); err != nil {
		log.Error("保存生成结果失败", err)
		return nil, apperr.Generation("保存生成结果失败", err)
	}

	log.Infof("AI 章节生成成功: reportID=%d, chapter=%s, tokens=%d", reportID, chapterType, result.TokensUsed)
	return &GenerateResultDTO{
		ChapterType:      chapterType,
		GeneratedContent: result.Content,
		TokensUsed:       result.TokensUsed,
		GenerationTime:   generationTime,
	}, nil
}

// ListHistory 分页查询报告的生成历史，按时间倒序。
func (s *aiService) ListHistory(reportID, ownerID uint, skip, limit int) ([]HistoryEntryDTO, int64, error) {
	if _, err := s.reportRepo.FindByIDAndOwner(reportID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperr.NotFound("报告不存在")
		}
		return nil, 0, err
	}

	skip, limit = normalizePagination(skip, limit)
	logs, total, err := s.aiLogRepo.FindByReport(reportID, skip, limit)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]HistoryEntryDTO, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, HistoryEntryDTO{
			ID:             l.ID,
			ChapterType:    l.ChapterType,
			ModelName:      l.ModelName,
			TokensUsed:     l.TokensUsed,
			GenerationTime: l.GenerationTime,
			CreatedAt:      l.CreatedAt,
			ContentPreview: previewContent(l.GeneratedContent),
		})
	}
	return entries, total, nil
}

// previewContent 截取内容前 100 个字符作为预览，超长部分以省略号标记。
// 按 rune 截取，避免把中文字符截断。
func previewContent(content string) string {
	runes := []rune(content)
	if len(runes) <= historyPreviewLimit {
		return content
	}
	return string(runes[:historyPreviewLimit]) + "..."
}

// GetPromptTemplate 查询章节的提示词模板。
// 优先取保险类型专属模板，再退回章节默认模板，最后返回固定的占位提示。
func (s *aiService) GetPromptTemplate(chapterType, insuranceType string) *PromptTemplateDTO {
	chapterTemplates := promptTemplates[chapterType]

	template := noTemplateSentinel
	if insuranceType != "" {
		if t, ok := chapterTemplates[insuranceType]; ok {
			template = t
		} else if t, ok := chapterTemplates["default"]; ok {
			template = t
		}
	} else if t, ok := chapterTemplates["default"]; ok {
		template = t
	}

	available := make([]string, 0, len(chapterTemplates))
	for key := range chapterTemplates {
		available = append(available, key)
	}

	return &PromptTemplateDTO{
		ChapterType:    chapterType,
		Template:       template,
		AvailableTypes: available,
	}
}

// Chat 与生成能力进行一次无状态对话，不关联任何报告。
func (s *aiService) Chat(ctx context.Context, message string, history []ai.Message) (*ChatResultDTO, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperr.Validation("消息内容不能为空")
	}

	result, err := s.aiClient.Chat(ctx, message, history)
	if err != nil {
		log.Errorf("AI 对话调用失败: %v", err)
		return nil, apperr.Generation("AI对话失败", err)
	}

	return &ChatResultDTO{
		Response:   result.Content,
		TokensUsed: result.TokensUsed,
		Model:      result.ModelName,
	}, nil
}
