package errors

import "errors"

// ErrRecordNotFound 存储层未找到目标行（更新 / 删除影响 0 行）
var ErrRecordNotFound = errors.New("记录不存在")
