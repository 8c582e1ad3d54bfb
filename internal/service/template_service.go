package service

import (
	"errors"

	"gorm.io/gorm"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/model"
	"gongu-report-go/internal/repository"
	"gongu-report-go/pkg/log"
)

// TemplateTypeDTO 描述一个可用的模板类型。
type TemplateTypeDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// templateTypeCatalog 是六个章节模板类型的静态目录。
var templateTypeCatalog = []TemplateTypeDTO{
	{ID: model.ChapterAccidentDetails, Title: "事故经过及索赔", Description: "描述事故发生的经过和索赔情况", Icon: "📋"},
	{ID: model.ChapterPolicySummary, Title: "保单内容摘要", Description: "总结保险合同的主要内容", Icon: "📄"},
	{ID: model.ChapterSiteInvestigation, Title: "现场查勘情况", Description: "记录现场查勘的详细情况", Icon: "🔍"},
	{ID: model.ChapterCauseAnalysis, Title: "事故原因分析", Description: "分析事故发生的原因", Icon: "🧐"},
	{ID: model.ChapterLossAssessment, Title: "损失核定", Description: "核定损失的程度和金额", Icon: "🧮"},
	{ID: model.ChapterConclusion, Title: "公估结论", Description: "给出最终的公估结论", Icon: "✅"},
}

// TemplateUpdateInput 封装模板的部分更新字段，nil 表示不更新。
type TemplateUpdateInput struct {
	TemplateType *string
	Title        *string
	Content      *string
}

// TemplateService 接口定义了报告模板管理的业务操作。
type TemplateService interface {
	List(templateType string, skip, limit int) ([]model.ReportTemplate, int64, error)
	Get(id uint) (*model.ReportTemplate, error)
	Create(creatorID uint, templateType, title, content string) (*model.ReportTemplate, error)
	Update(id uint, in TemplateUpdateInput) (*model.ReportTemplate, error)
	Delete(id uint) error
	AvailableTypes() []TemplateTypeDTO
	SeedDefaults() error
}

type templateService struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateService 创建一个新的 TemplateService 实例。
func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

// List 分页查询模板列表，可按模板类型过滤。
func (s *templateService) List(templateType string, skip, limit int) ([]model.ReportTemplate, int64, error) {
	skip, limit = normalizePagination(skip, limit)
	return s.templateRepo.Find(templateType, skip, limit)
}

// Get 获取单个模板详情。
func (s *templateService) Get(id uint) (*model.ReportTemplate, error) {
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("模板不存在")
		}
		return nil, err
	}
	return tpl, nil
}

// Create 创建一个用户自定义模板，type/title/content 均为必填。
func (s *templateService) Create(creatorID uint, templateType, title, content string) (*model.ReportTemplate, error) {
	if templateType == "" || title == "" || content == "" {
		return nil, apperr.Validation("缺少必需字段: type/title/content")
	}
	if !model.IsValidChapterType(templateType) {
		return nil, apperr.Validationf("无效的模板类型: %s", templateType)
	}

	tpl := &model.ReportTemplate{
		TemplateType: templateType,
		Title:        title,
		Content:      content,
		IsDefault:    false,
		CreatedBy:    creatorID,
	}
	if err := s.templateRepo.Create(tpl); err != nil {
		log.Error("创建模板失败", err)
		return nil, err
	}
	return tpl, nil
}

// Update 按字段部分更新模板。
func (s *templateService) Update(id uint, in TemplateUpdateInput) (*model.ReportTemplate, error) {
	if in.TemplateType != nil && !model.IsValidChapterType(*in.TemplateType) {
		return nil, apperr.Validationf("无效的模板类型: %s", *in.TemplateType)
	}

	tpl, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.TemplateType != nil {
		tpl.TemplateType = *in.TemplateType
	}
	if in.Title != nil {
		tpl.Title = *in.Title
	}
	if in.Content != nil {
		tpl.Content = *in.Content
	}

	if err := s.templateRepo.Save(tpl); err != nil {
		log.Error("更新模板失败", err)
		return nil, err
	}
	return tpl, nil
}

// Delete 删除模板，默认模板受保护不可删除。
func (s *templateService) Delete(id uint) error {
	tpl, err := s.Get(id)
	if err != nil {
		return err
	}
	if tpl.IsDefault {
		return apperr.Conflict("默认模板不能删除")
	}

	affected, err := s.templateRepo.DeleteByID(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("模板不存在")
	}
	return nil
}

// AvailableTypes 返回可用的模板类型目录。
func (s *templateService) AvailableTypes() []TemplateTypeDTO {
	return templateTypeCatalog
}

// SeedDefaults 在模板表为空时写入三个内置的默认模板。
func (s *templateService) SeedDefaults() error {
	total, err := s.templateRepo.Count()
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	for _, tpl := range defaultTemplates() {
		t := tpl
		if err := s.templateRepo.Create(&t); err != nil {
			return err
		}
	}
	log.Info("默认报告模板初始化完成")
	return nil
}

// defaultTemplates 返回系统内置的默认模板。
func defaultTemplates() []model.ReportTemplate {
	return []model.ReportTemplate{
		{
			TemplateType: model.ChapterAccidentDetails,
			Title:        "车辆事故经过模板",
			IsDefault:    true,
			Content: `根据现场勘查和当事人陈述，事故发生经过如下：

1. 事故发生时间：{事故时间}
2. 事故发生地点：{事故地点}
3. 天气条件：{天气情况}
4. 道路状况：{道路状况}
5. 事故经过：{详细经过}

当事人陈述：
- 投保人陈述：{投保人陈述}
- 第三方陈述：{第三方陈述}

证据材料：
- 现场照片：{照片数量}张
- 交警认定书：{是否有}
- 其他证据：{其他证据}`,
		},
		{
			TemplateType: model.ChapterLossAssessment,
			Title:        "财产损失核定模板",
			IsDefault:    true,
			Content: `根据现场查勘和相关资料，损失核定情况如下：

一、受损财产清单
{财产清单}

二、损失程度评估
1. 完全损毁：{完全损毁项目}
2. 部分损坏：{部分损坏项目}
3. 可修复项目：{可修复项目}

三、损失金额核定
1. 直接损失：￥{直接损失金额}
2. 间接损失：￥{间接损失金额}
3. 合计损失：￥{总损失金额}

四、核定依据
- 市场价格调研：{价格依据}
- 专业评估报告：{评估报告}
- 维修报价单：{维修报价}`,
		},
		{
			TemplateType: model.ChapterConclusion,
			Title:        "公估结论标准模板",
			IsDefault:    true,
			Content: `综合本次事故的调查情况，现作出如下公估结论：

一、事故责任认定
{责任认定结果}

二、保险责任分析
1. 保险标的：{保险标的}
2. 承保风险：{承保风险}
3. 免责条款：{免责条款分析}
4. 责任结论：{责任结论}

三、损失核定结论
1. 认定损失：￥{认定损失}
2. 免赔额：￥{免赔额}
3. 赔偿金额：￥{赔偿金额}

四、处理建议
{处理建议}

以上结论供保险公司理赔参考。`,
		},
	}
}
