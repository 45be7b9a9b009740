package ports

import "errors"

// 定義 Ports 層級通用的錯誤
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrLeaseExpired    = errors.New("session lease expired")
)
