package models

import "errors"

// ErrTodoNotFound 待办事项不存在的哨兵错误
// 所有存储实现对缺失ID的读取、更新和删除统一返回该错误
var ErrTodoNotFound = errors.New("待办事项不存在")
