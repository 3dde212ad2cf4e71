// Command seed fills a Postgres source database with forum-shaped sample data.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/user-migrator/config"
	pginfra "github.com/oksasatya/user-migrator/internal/infrastructure/postgres"
	"github.com/oksasatya/user-migrator/pkg/helpers"
)

type demoUser struct {
	id       int64
	username string
	email    string
	password string
	admin    bool
	active   bool
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Source.Validate(); err != nil {
		log.Fatalf("invalid source config: %v", err)
	}
	if cfg.Source.IsSQLite() {
		log.Fatalf("seed only supports postgres sources")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, nil)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.Source.DSN(), cfg.ConnectTimeout, logger, "source")
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer pool.Close()

	if err := pginfra.CreateSourceSchema(ctx, pool); err != nil {
		log.Fatalf("failed to create source tables: %v", err)
	}

	users := []demoUser{
		{id: -1, username: cfg.SystemUsername, email: "no_email", admin: true, active: true},
		{id: 1, username: "alice", email: "alice@example.com", password: "password123", active: true},
		{id: 2, username: "bob", email: "bob@example.com", password: "password123", admin: true, active: true},
		{id: 3, username: "carol", email: "carol@example.com", password: "password123"},
	}
	for _, u := range users {
		salt, err := helpers.NewSalt()
		if err != nil {
			log.Fatalf("failed to generate salt: %v", err)
		}
		hash := helpers.HashPassword(u.password, salt)
		if _, err := pool.Exec(ctx, `
			INSERT INTO users (id, username, email, password_hash, salt, admin, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, email = EXCLUDED.email
		`, u.id, u.username, u.email, hash, salt, u.admin, u.active); err != nil {
			log.Fatalf("failed to seed user %s: %v", u.username, err)
		}
		fmt.Printf("seeded user: id=%d username=%s email=%s password=%s\n", u.id, u.username, u.email, u.password)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM user_custom_fields WHERE user_id IN (1, 2)`); err != nil {
		log.Fatalf("failed to reset custom fields: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO user_custom_fields (user_id, name, value)
		VALUES (1, 'bio', 'hello'), (1, 'location', 'Paris'), (2, 'bio', 'sponge enthusiast')
	`); err != nil {
		log.Fatalf("failed to seed custom fields: %v", err)
	}
	fmt.Println("seeded custom fields: bio, location")

	if _, err := pool.Exec(ctx, `
		INSERT INTO uploads (id, user_id, url)
		VALUES (100, 2, '/uploads/default/original/1X/bob.png')
		ON CONFLICT (id) DO NOTHING
	`); err != nil {
		log.Fatalf("failed to seed upload: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO user_avatars (user_id, custom_upload_id)
		VALUES (2, 100), (1, NULL)
		ON CONFLICT (user_id) DO UPDATE SET custom_upload_id = EXCLUDED.custom_upload_id
	`); err != nil {
		log.Fatalf("failed to seed avatars: %v", err)
	}
	fmt.Println("seeded avatar upload for bob")
}
