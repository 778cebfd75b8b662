package main

import (
	"log"
	"os"

	"chatshare-be/internal/model"
	"chatshare-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	driver := os.Getenv("DB_DRIVER")
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" && driver != database.DriverSQLite {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.Open(driver, dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate does not create
	if db.Dialector.Name() == "postgres" {
		setupSQL := []string{
			`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
			`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		}
		for _, sql := range setupSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
			}
		}
	}

	// 4. AutoMigrate All Models
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: Database migration completed.")
}
