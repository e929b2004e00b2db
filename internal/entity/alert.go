package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertKind string

const (
	KindTouch AlertKind = "touch"
	KindCross AlertKind = "cross"
	KindNear  AlertKind = "near"
	KindZone  AlertKind = "zone"
)

type Direction string

const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// Alert 价格预警规则
// touch/cross/near 使用 TargetPrice, zone 使用 ZoneLow/ZoneHigh
type Alert struct {
	Id          int64           `gorm:"primaryKey;autoIncrement"`
	UserId      int64           `gorm:"index"`
	Symbol      string          `gorm:"index"`
	Kind        AlertKind       `gorm:"index"`
	TargetPrice decimal.Decimal `gorm:"type:decimal(24,10)"`
	Direction   Direction
	PipBuffer   int64           // near: 距离目标价的 pip 数
	ZoneLow     decimal.Decimal `gorm:"type:decimal(24,10)"`
	ZoneHigh    decimal.Decimal `gorm:"type:decimal(24,10)"`
	Active      bool            `gorm:"index"`
	TriggeredAt *time.Time // 非空即终态, 不再参与评估
	CreatedAt   time.Time  `gorm:"index"`
}
