// Package ai 定义了报告章节生成与对话能力的接口及其实现。
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gongu-report-go/internal/config"
	"gongu-report-go/internal/model"
)

// Message 表示一条角色消息。
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChapterRequest 封装了一次章节生成调用的输入。
type ChapterRequest struct {
	ChapterType    string
	Context        string
	Report         *model.ReportDraft
	PromptTemplate string // 可选的提示词模板覆盖，内含 {context} 占位符
}

// GenerateResult 是一次章节生成调用的结果。
type GenerateResult struct {
	Content    string
	PromptUsed string
	ModelName  string
	TokensUsed int
}

// ChatResult 是一次对话调用的结果。
type ChatResult struct {
	Content    string
	ModelName  string
	TokensUsed int
}

// Client 抽象了 AI 生成能力，业务流程通过该接口调用，
// 便于替换底层模型供应商以及在测试中注入。
type Client interface {
	GenerateChapter(ctx context.Context, req ChapterRequest) (*GenerateResult, error)
	Chat(ctx context.Context, message string, history []Message) (*ChatResult, error)
}

// NewClient 根据配置选择实现：配置了 api_key 时调用 OpenAI 兼容接口，
// 否则使用内置的模拟生成器。
func NewClient(cfg config.AIConfig) Client {
	if cfg.APIKey != "" {
		return &openaiClient{cfg: cfg, client: &http.Client{}}
	}
	return NewMockClient()
}

// BuildChapterPrompt 组装章节生成的最终提示词。
// 优先使用调用方传入的模板，占位符 {context} 会被替换为上下文信息。
func BuildChapterPrompt(req ChapterRequest) string {
	if req.PromptTemplate != "" {
		return strings.ReplaceAll(req.PromptTemplate, "{context}", req.Context)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "你是一名资深保险公估师，正在撰写《%s》的「%s」章节。\n\n",
		req.Report.Title, model.ChapterTitles[req.ChapterType])
	if req.Report.InsuranceType != "" {
		fmt.Fprintf(&sb, "保险类型：%s\n", req.Report.InsuranceType)
	}
	fmt.Fprintf(&sb, "上下文信息：\n%s\n\n", req.Context)
	sb.WriteString("要求：语言专业客观，逻辑清晰，条理分明，篇幅适中（300-500字）。")
	return sb.String()
}

// openaiClient 通过 OpenAI 兼容的 chat completions 接口完成生成。
type openaiClient struct {
	cfg    config.AIConfig
	client *http.Client
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Model string `json:"model"`
}

// GenerateChapter 组装提示词后调用 chat completions 接口。
func (c *openaiClient) GenerateChapter(ctx context.Context, req ChapterRequest) (*GenerateResult, error) {
	prompt := BuildChapterPrompt(req)
	resp, err := c.complete(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}
	return &GenerateResult{
		Content:    resp.Content,
		PromptUsed: prompt,
		ModelName:  resp.ModelName,
		TokensUsed: resp.TokensUsed,
	}, nil
}

// Chat 以历史消息加一条用户消息调用 chat completions 接口。
func (c *openaiClient) Chat(ctx context.Context, message string, history []Message) (*ChatResult, error) {
	messages := append(append([]Message{}, history...), Message{Role: "user", Content: message})
	return c.complete(ctx, messages)
}

func (c *openaiClient) complete(ctx context.Context, messages []Message) (*ChatResult, error) {
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}
	if c.cfg.Temperature != 0 {
		t := c.cfg.Temperature
		reqBody.Temperature = &t
	}
	if c.cfg.MaxTokens != 0 {
		m := c.cfg.MaxTokens
		reqBody.MaxTokens = &m
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("调用生成接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("生成接口返回非 200 状态: %s, body: %s", resp.Status, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析生成响应失败: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("生成接口未返回任何结果")
	}

	modelName := parsed.Model
	if modelName == "" {
		modelName = c.cfg.Model
	}
	return &ChatResult{
		Content:    parsed.Choices[0].Message.Content,
		ModelName:  modelName,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}
