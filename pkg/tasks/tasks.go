// Package tasks 定义了投递到 Kafka 的后台任务消息结构。
package tasks

// OCRTask 表示一个待处理的文件 OCR 识别任务。
type OCRTask struct {
	FileID     uint   `json:"file_id"`
	ObjectPath string `json:"object_path"`
	Filename   string `json:"filename"`
	UploaderID uint   `json:"uploader_id"`
}
