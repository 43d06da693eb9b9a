package websocket

import "errors"

// ErrNoStreams 错误：没有任何可连接的 venue/market
var ErrNoStreams = errors.New("no streams configured")
