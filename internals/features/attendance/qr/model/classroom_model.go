// file: internals/features/attendance/qr/model/classroom_model.go
package model

import "time"

// ClassroomModel registers where a class meets and how many students it has.
type ClassroomModel struct {
	ClassroomClassID string `gorm:"type:varchar(120);primaryKey;column:classroom_class_id" json:"classroom_class_id"`
	ClassroomName    string `gorm:"type:varchar(160);not null;default:'';column:classroom_name" json:"classroom_name"`

	ClassroomLatitude     float64  `gorm:"not null;column:classroom_latitude" json:"classroom_latitude"`
	ClassroomLongitude    float64  `gorm:"not null;column:classroom_longitude" json:"classroom_longitude"`
	ClassroomRadiusMeters *float64 `gorm:"column:classroom_radius_meters" json:"classroom_radius_meters,omitempty"`
	ClassroomCapacity     *int     `gorm:"column:classroom_capacity" json:"classroom_capacity,omitempty"`

	ClassroomCreatedAt time.Time `gorm:"column:classroom_created_at;autoCreateTime" json:"classroom_created_at"`
	ClassroomUpdatedAt time.Time `gorm:"column:classroom_updated_at;autoUpdateTime" json:"classroom_updated_at"`
}

func (ClassroomModel) TableName() string { return "classrooms" }
