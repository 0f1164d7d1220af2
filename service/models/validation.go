/*
 * @module service/models/validation
 * @description 输入校验模块，基于声明式标签对输入结构进行校验并产出逐字段错误列表
 * @architecture 分层架构 - 模型层
 * @stateFlow 输入解析 -> 标签校验 -> 字段错误聚合
 * @rules 校验失败返回全部违规字段，而非仅第一条
 * @dependencies github.com/go-playground/validator/v10
 * @refs api/controllers/response.go
 */

package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field" example:"title"`
	Message string `json:"message" example:"title 为必填字段"`
}

// ValidationError 输入校验错误，聚合所有违规字段
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "输入校验失败: " + strings.Join(msgs, "; ")
}

// ValidateStruct 校验输入结构，失败时返回 *ValidationError
func ValidateStruct(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldErrorMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

// fieldErrorMessage 将校验标签转换为可读的错误信息
func fieldErrorMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 为必填字段", field)
	case "min":
		return fmt.Sprintf("%s 长度不能小于 %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s 长度不能超过 %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s 必须为以下值之一: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s 不符合 %s 规则", field, fe.Tag())
	}
}
