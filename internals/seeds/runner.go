package seeds

import (
	"log"

	"gorm.io/gorm"

	"edumark_backend/internals/seeds/classrooms"
)

func RunAllSeeds(db *gorm.DB) {
	if db == nil {
		log.Println("[SEED] no database, skipping")
		return
	}

	//* Classrooms
	if err := classrooms.SeedClassroomsFromJSON(db, classrooms.DefaultPath); err != nil {
		log.Printf("[SEED] classrooms: %v", err)
	}
}
