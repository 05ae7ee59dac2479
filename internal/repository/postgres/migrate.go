package postgres

import (
	"context"
	"fmt"

	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Схема таблицы клиентов. Уникальные индексы по cuit и lower(email) —
// последний рубеж защиты от гонки check-then-act в сервисном слое.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id         bigserial PRIMARY KEY,
		first_name text      NOT NULL,
		last_name  text      NOT NULL,
		birth_date date      NOT NULL,
		cuit       text      NOT NULL,
		address    text,
		mobile     text      NOT NULL,
		email      text      NOT NULL,
		version    bigint    NOT NULL DEFAULT 1
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS clients_cuit_key ON clients (cuit)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS clients_email_lower_key ON clients (lower(email))`,
}

// Стартовые данные, вставляются только в пустую таблицу
var seedClients = []struct {
	firstName, lastName, birthDate, cuit, address, mobile, email string
}{
	{"Ana", "García", "1990-05-12", "27-12345678-5", "Calle Falsa 123", "+5491122334455", "ana@example.com"},
	{"Luis", "Pérez", "1985-04-08", "20-11111111-9", "Av. Siempreviva 742", "+5491144455566", "luis@example.com"},
}

// Migrate применяет схему и засеивает стартовые данные
func Migrate(ctx context.Context, db *pgxpool.Pool, log *logger.Logger) error {
	log.Info("Applying database migrations")

	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}

	var count int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count clients: %w", err)
	}

	if count > 0 {
		return nil
	}

	log.Info("Seeding initial clients")
	for _, c := range seedClients {
		_, err := db.Exec(ctx, `
			INSERT INTO clients (first_name, last_name, birth_date, cuit, address, mobile, email)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		`, c.firstName, c.lastName, c.birthDate, c.cuit, c.address, c.mobile, c.email)
		if err != nil {
			return fmt.Errorf("failed to seed client %s %s: %w", c.firstName, c.lastName, err)
		}
	}

	return nil
}
