// Package ocr 定义了文件文字识别能力的接口及其实现。
package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"gongu-report-go/internal/config"
)

// Result 是一次识别调用的结果。
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Recognizer 抽象了 OCR 识别能力，业务流程通过该接口调用，
// 便于替换具体的识别引擎以及在测试中注入。
type Recognizer interface {
	Recognize(ctx context.Context, reader io.Reader, filename string) (*Result, error)
}

// NewRecognizer 根据配置选择识别器实现：
// 配置了 server_url 时调用远端 OCR 服务，否则使用内置的模拟识别器。
func NewRecognizer(cfg config.OCRConfig) Recognizer {
	if cfg.ServerURL != "" {
		return &httpRecognizer{serverURL: cfg.ServerURL}
	}
	return NewMockRecognizer()
}

// httpRecognizer 将文件内容推送到远端 OCR 服务进行识别。
type httpRecognizer struct {
	serverURL string
}

// Recognize 调用远端 OCR 服务，返回识别文本与置信度。
func (c *httpRecognizer) Recognize(ctx context.Context, reader io.Reader, filename string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.serverURL+"/ocr", reader)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", detectMimeType(filename))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("调用 OCR 服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OCR 服务返回错误 [%d]: %s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("解析 OCR 响应失败: %w", err)
	}
	return &result, nil
}

// detectMimeType 根据文件扩展名判断 Content-Type。
func detectMimeType(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "application/octet-stream"
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}
