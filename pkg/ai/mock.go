package ai

import (
	"context"
	"fmt"
	"time"

	"gongu-report-go/internal/model"
)

// mockModelName 是模拟生成器上报的模型标识。
const mockModelName = "mock-gpt"

// MockClient 是不依赖外部服务的模拟生成器，
// 以固定延迟返回按章节拼装的样例文本，用于本地开发与演示。
type MockClient struct {
	// Delay 模拟生成耗时。
	Delay time.Duration
}

// NewMockClient 创建一个默认延迟 1.5 秒的模拟生成器。
func NewMockClient() *MockClient {
	return &MockClient{Delay: 1500 * time.Millisecond}
}

// GenerateChapter 返回按章节类型拼装的固定内容。
func (m *MockClient) GenerateChapter(ctx context.Context, req ChapterRequest) (*GenerateResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	prompt := BuildChapterPrompt(req)
	content := fmt.Sprintf(
		"【%s】\n\n根据所提供的案件材料，经综合分析整理如下：\n\n%s\n\n以上内容系依据现有材料出具，如有补充材料将另行修订。",
		model.ChapterTitles[req.ChapterType], req.Context)

	return &GenerateResult{
		Content:    content,
		PromptUsed: prompt,
		ModelName:  mockModelName,
		TokensUsed: len([]rune(prompt)) + len([]rune(content)),
	}, nil
}

// Chat 返回对用户消息的固定应答。
func (m *MockClient) Chat(ctx context.Context, message string, history []Message) (*ChatResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("收到您的问题：%s。当前为演示环境，接入真实模型后将给出专业解答。", message)
	return &ChatResult{
		Content:    content,
		ModelName:  mockModelName,
		TokensUsed: len([]rune(message)) + len([]rune(content)),
	}, nil
}

func (m *MockClient) wait(ctx context.Context) error {
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
