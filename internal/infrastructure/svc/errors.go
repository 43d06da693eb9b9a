package svc

import "errors"

// ErrNoFeedsEnabled 错误：catalog 中没有任何启用的 (venue, market)
var ErrNoFeedsEnabled = errors.New("no venue streams enabled")

// ErrStorageInitFailed 错误：存储初始化失败
var ErrStorageInitFailed = errors.New("storage initialization failed")
