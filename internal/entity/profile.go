package entity

import (
	"time"
)

type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

// Profile 用户订阅信息与通知渠道
type Profile struct {
	Id         int64  `gorm:"primaryKey;autoIncrement"`
	UserId     int64  `gorm:"uniqueIndex"`
	Tier       Tier   `gorm:"index"`
	TelegramId string // Telegram chat id, 可为空
	WhatsApp   string // WhatsApp 号码, 仅 pro/elite 可用
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
