package model

import "time"

// Incident is a request flagged as a possible XSS attempt, kept for review.
type Incident struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	DetectedAt  time.Time `gorm:"index" json:"detected_at"`
	RequestTime time.Time `json:"request_time"`
	IP          string    `gorm:"size:64;index" json:"ip"`
	Action      string    `gorm:"type:text" json:"action"`
	Status      string    `gorm:"size:8" json:"status"`
	Referrer    string    `gorm:"type:text" json:"referrer"`
	Browser     string    `gorm:"type:text" json:"browser"`
	CountryCode string    `gorm:"size:8" json:"country_code"`
	SourceFile  string    `gorm:"size:512" json:"source_file"`
}

func (Incident) TableName() string {
	return "xss_incidents"
}
