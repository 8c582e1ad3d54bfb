package ocr

import (
	"context"
	"io"
	"strings"
	"time"
)

// mockText 是模拟识别器返回的固定样例文本。
const mockText = `保险理赔申请书

申请人：张三
保险单号：ABC123456789
事故时间：2024年12月1日
事故地点：北京市朝阳区某路段

事故经过：
2024年12月1日上午10时许，被保险车辆在行驶过程中与前方车辆发生追尾事故。
事故造成车辆前保险杠损坏，需要维修。

损失情况：
1. 前保险杠更换：3000元
2. 前大灯维修：1500元
3. 其他维修费用：500元

总计损失：5000元`

// MockRecognizer 是不依赖外部服务的模拟识别器，
// 以固定延迟返回固定的识别结果，用于本地开发与演示。
type MockRecognizer struct {
	// Delay 模拟识别耗时。
	Delay time.Duration
}

// NewMockRecognizer 创建一个默认延迟 2 秒的模拟识别器。
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{Delay: 2 * time.Second}
}

// Recognize 返回固定的识别文本与置信度 0.95。
func (m *MockRecognizer) Recognize(ctx context.Context, reader io.Reader, filename string) (*Result, error) {
	// 读完内容以模拟真实识别器消费整个文件流。
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}

	select {
	case <-time.After(m.Delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Result{Text: strings.TrimSpace(mockText), Confidence: 0.95}, nil
}
