package entity

import (
	"time"
)

const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// Delivery 单个渠道的一次通知投递结果, 关联已触发的预警
type Delivery struct {
	Id        int64  `gorm:"primaryKey;autoIncrement"`
	AlertId   int64  `gorm:"index"`
	UserId    int64  `gorm:"index"`
	Channel   string `gorm:"index"`
	Status    string `gorm:"index"`
	Attempts  int
	Detail    string // 失败时的最后一个错误
	CreatedAt time.Time
}
