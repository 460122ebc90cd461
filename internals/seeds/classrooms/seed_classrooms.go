package classrooms

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"edumark_backend/internals/features/attendance/qr/model"
)

const DefaultPath = "internals/seeds/classrooms/data_classrooms.json"

type ClassroomSeed struct {
	ClassroomClassID      string   `json:"classroom_class_id"`
	ClassroomName         string   `json:"classroom_name"`
	ClassroomLatitude     float64  `json:"classroom_latitude"`
	ClassroomLongitude    float64  `json:"classroom_longitude"`
	ClassroomRadiusMeters *float64 `json:"classroom_radius_meters"`
	ClassroomCapacity     *int     `json:"classroom_capacity"`
}

// LoadClassroomsFromJSON reads the registry file without touching the database.
func LoadClassroomsFromJSON(filePath string) ([]model.ClassroomModel, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	var data []ClassroomSeed
	if err := sonic.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	out := make([]model.ClassroomModel, 0, len(data))
	for _, item := range data {
		if item.ClassroomClassID == "" {
			continue
		}
		out = append(out, model.ClassroomModel{
			ClassroomClassID:      item.ClassroomClassID,
			ClassroomName:         item.ClassroomName,
			ClassroomLatitude:     item.ClassroomLatitude,
			ClassroomLongitude:    item.ClassroomLongitude,
			ClassroomRadiusMeters: item.ClassroomRadiusMeters,
			ClassroomCapacity:     item.ClassroomCapacity,
		})
	}
	return out, nil
}

// SeedClassroomsFromJSON inserts classrooms that are not there yet.
func SeedClassroomsFromJSON(db *gorm.DB, filePath string) error {
	log.Println("[SEED] reading", filePath)

	rooms, err := LoadClassroomsFromJSON(filePath)
	if err != nil {
		return err
	}

	inserted := 0
	for _, room := range rooms {
		var existing model.ClassroomModel
		err := db.Where("classroom_class_id = ?", room.ClassroomClassID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup classroom %s: %w", room.ClassroomClassID, err)
		}

		if err := db.Create(&room).Error; err != nil {
			log.Printf("[SEED] insert classroom %s failed: %v", room.ClassroomClassID, err)
			continue
		}
		inserted++
	}
	log.Printf("[SEED] classrooms: %d inserted, %d total in file", inserted, len(rooms))
	return nil
}
