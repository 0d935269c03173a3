package parser

import "fmt"

// InputError 输入不可用：文件打不开、工作表不存在或必需列缺失。
// 属于致命错误，发生时不产生任何输出文件。
type InputError struct {
	Path   string // 输入文件路径，可为空
	Sheet  string // 工作表名，可为空
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	msg := "输入错误: " + e.Reason
	if e.Path != "" {
		msg += fmt.Sprintf(" (文件: %s)", e.Path)
	}
	if e.Sheet != "" {
		msg += fmt.Sprintf(" (工作表: %s)", e.Sheet)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InputError) Unwrap() error {
	return e.Err
}
