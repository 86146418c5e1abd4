package migration

import (
	"annam-mithra-backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// Setup PostgreSQL extensions for uuid generation and geographical
	// calculations.
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"earthdistance\" CASCADE;")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"cube\";")

	models := []interface{}{
		&entities.User{},
		&entities.UserRole{},
		&entities.Donation{},
		&entities.Interest{},
		&entities.ChatRoom{},
		&entities.ChatMessage{},
		&entities.Tag{},
		&entities.TagVerification{},
		&entities.Badge{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Error migrating %T: %v", model, err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
