package redis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publish 發送訊息到指定頻道
// 字串與 []byte 直接送出，其他型別先序列化為 JSON。
//
// 參數:
//
//	ctx: context.Context - 上下文
//	channel: string - 目標頻道名稱
//	message: any - 要發送的訊息內容
//
// 回傳值:
//
//	error: 若發送失敗則回傳錯誤
func (c *Client) Publish(ctx context.Context, channel string, message any) error {
	var payload any
	switch m := message.(type) {
	case string, []byte:
		payload = m
	default:
		data, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		payload = data
	}
	return c.rdb.Publish(ctx, channel, payload).Err()
}
