package controllers

import (
	"net/http"

	"todohub-service/service/models"

	"github.com/go-chi/render"
)

// APIError 统一错误响应结构
type APIError struct {
	Status  int                 `json:"status" example:"404"`
	Message string              `json:"message" example:"待办事项不存在"`
	Errors  []models.FieldError `json:"errors,omitempty"`
}

// BadRequestResponse 返回400错误响应，携带逐字段校验错误列表
func BadRequestResponse(w http.ResponseWriter, r *http.Request, message string, fields []models.FieldError) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, APIError{Status: http.StatusBadRequest, Message: message, Errors: fields})
}

// NotFoundResponse 返回404错误响应
func NotFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, APIError{Status: http.StatusNotFound, Message: message})
}

// InternalErrorResponse 返回500错误响应
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, APIError{Status: http.StatusInternalServerError, Message: message})
}
