package models

import "time"

// AnalyticsEvent is one tracked client interaction. Rows are append-only; ID orders storage.
type AnalyticsEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Category  string    `gorm:"type:text;not null" json:"category"`
	Action    string    `gorm:"type:text;not null" json:"action"`
	Label     string    `gorm:"type:text;not null;default:''" json:"label"`
	UserAgent string    `gorm:"type:text;not null;default:''" json:"userAgent"`
	Page      string    `gorm:"type:text;not null;default:''" json:"page"`
	SessionID string    `gorm:"type:text;not null" json:"sessionId"`
	IP        string    `gorm:"column:ip;type:text;not null;default:''" json:"ip"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
