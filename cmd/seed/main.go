package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/vicdevmanx/gurutasks/config"
	"github.com/vicdevmanx/gurutasks/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Ensure base roles exist
	var adminRoleID, memberRoleID int64
	if err := db.QueryRow(`
		INSERT INTO user_roles (name) VALUES ('admin')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&adminRoleID); err != nil {
		log.Fatalf("failed to upsert admin role: %v", err)
	}
	if err := db.QueryRow(`
		INSERT INTO user_roles (name) VALUES ('member')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&memberRoleID); err != nil {
		log.Fatalf("failed to upsert member role: %v", err)
	}
	fmt.Printf("roles ensured: admin=%d member=%d\n", adminRoleID, memberRoleID)

	// Ensure base task statuses exist
	for _, name := range []string{"todo", "in progress", "done"} {
		var id int64
		if err := db.QueryRow(`
			INSERT INTO task_statuses (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&id); err != nil {
			log.Fatalf("failed to upsert status %q: %v", name, err)
		}
		fmt.Printf("status ensured: %s=%d\n", name, id)
	}

	// Seed an admin account for local development
	email := "admin@gurutasks.local"
	password := "password123"
	name := "Admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID int64
	if err := db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role_id, access_role)
		VALUES ($1, $2, $3, $4, 'admin')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, access_role = 'admin'
		RETURNING id
	`, name, email, hash, adminRoleID).Scan(&userID); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%d email=%s password=%s\n", userID, email, password)
}
