package model

import "time"

// QualityPassProgress 设备报告计入质检分的进度阈值（含）
const QualityPassProgress = 50.0

// DeviceInfo 设备信息（jsonb 列，字段名沿用前端数据结构）
type DeviceInfo struct {
	TechnicianName string `json:"technicianName"`
	Brand          string `json:"brand,omitempty"`
	Model          string `json:"model,omitempty"`
	SerialNumber   string `json:"serialNumber,omitempty"`
}

// DeviceReport 设备检测报告，对应 device_reports（只读数据源）
type DeviceReport struct {
	ID           string     `gorm:"type:varchar(64);primaryKey"             json:"id"`
	ReportDate   time.Time  `gorm:"type:date;not null"                      json:"date"`
	DeviceInfo   DeviceInfo `gorm:"type:jsonb;serializer:json;not null"     json:"device_info"`
	TechnicianID *string    `gorm:"type:varchar(64)"                        json:"technician_id,omitempty"`
	Progress     float64    `gorm:"type:numeric(5,2);not null;default:0"    json:"progress"` // 0-100
	CustomerName string     `gorm:"type:varchar(200);not null;default:''"   json:"customer_name"`
	BaseModel
}

// TableName 指定表名
func (DeviceReport) TableName() string { return "device_reports" }

// QualityPassed 进度达到质检阈值
func (r *DeviceReport) QualityPassed() bool { return r.Progress >= QualityPassProgress }
