package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList 用于存储字符串数组的 JSONB 类型
type StringList []string

// Metadata 用于存储任意键值对的 JSONB 类型
type Metadata map[string]interface{}

// 实现 Scanner 接口
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("类型断言失败: 不是 []byte 或 string")
	}
	return json.Unmarshal(bytes, s)
}

// 实现 Valuer 接口
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(StringList{})
	}
	return json.Marshal(s)
}

// Metadata 的 Scanner 接口实现
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("类型断言失败: 不是 []byte 或 string")
	}
	return json.Unmarshal(bytes, m)
}

// Metadata 的 Valuer 接口实现
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Contains 判断列表是否包含指定元素
func (s StringList) Contains(item string) bool {
	for _, v := range s {
		if v == item {
			return true
		}
	}
	return false
}

// Intersects 判断列表与给定集合是否存在交集（任意匹配）
func (s StringList) Intersects(items []string) bool {
	for _, item := range items {
		if s.Contains(item) {
			return true
		}
	}
	return false
}
