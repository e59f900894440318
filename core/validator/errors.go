package validator

import "strings"

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Errors 校验错误集合
type Errors struct {
	Fields []FieldError `json:"errors"`
}

// Error 以 "; " 连接所有字段消息
func (e *Errors) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, "; ")
}

// Has 是否包含指定字段的错误
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
