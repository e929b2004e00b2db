package entity

import (
	"time"
)

const (
	SessionAsian   = "asian"
	SessionLondon  = "london"
	SessionNewYork = "new_york"
)

// Reminder 定时提醒, 与价格预警相互独立
type Reminder struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	UserId      int64  `gorm:"index"`
	Message     string
	SessionType string    // asian/london/new_york, 一次性提醒为空
	RemindAt    time.Time `gorm:"index"`
	Recurring   bool
	Sent        bool `gorm:"index"`
	CreatedAt   time.Time
}
