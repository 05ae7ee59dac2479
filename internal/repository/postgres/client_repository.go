package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dhoini/Client-microservice/internal/domain"
	"github.com/Dhoini/Client-microservice/internal/repository"
	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Код ошибки PostgreSQL для нарушения уникальности
const uniqueViolationCode = "23505"

// PostgresClientRepository реализация репозитория клиентов через PostgreSQL
type PostgresClientRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresClientRepository создает новый репозиторий клиентов через PostgreSQL
func NewPostgresClientRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresClientRepository {
	return &PostgresClientRepository{
		db:  db,
		log: log,
	}
}

// GetAll возвращает всех клиентов, упорядоченных по возрастанию id
func (r *PostgresClientRepository) GetAll(ctx context.Context) ([]domain.Client, error) {
	query := `
		SELECT id, first_name, last_name, birth_date, cuit, COALESCE(address, ''), mobile, email, version
		FROM clients
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

// GetByID возвращает клиента по id
func (r *PostgresClientRepository) GetByID(ctx context.Context, id int64) (domain.Client, error) {
	query := `
		SELECT id, first_name, last_name, birth_date, cuit, COALESCE(address, ''), mobile, email, version
		FROM clients
		WHERE id = $1
	`

	client, err := scanClient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, repository.ErrNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// ExistsByCUIT проверяет, есть ли клиент с таким CUIT
func (r *PostgresClientRepository) ExistsByCUIT(ctx context.Context, cuit string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM clients WHERE cuit = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, cuit).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check cuit existence: %w", err)
	}

	return exists, nil
}

// SearchByName ищет клиентов по подстроке в "имя фамилия" без учета регистра
func (r *PostgresClientRepository) SearchByName(ctx context.Context, query string) ([]domain.Client, error) {
	sql := `
		SELECT id, first_name, last_name, birth_date, cuit, COALESCE(address, ''), mobile, email, version
		FROM clients
		WHERE (first_name || ' ' || last_name) ILIKE '%' || $1 || '%'
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

// Create сохраняет нового клиента, хранилище присваивает id и версию
func (r *PostgresClientRepository) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	query := `
		INSERT INTO clients (first_name, last_name, birth_date, cuit, address, mobile, email)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING id, version
	`

	err := r.db.QueryRow(
		ctx,
		query,
		client.FirstName,
		client.LastName,
		client.BirthDate.Time,
		client.CUIT,
		client.Address,
		client.Mobile,
		client.Email,
	).Scan(&client.ID, &client.Version)

	if err != nil {
		if dupErr := mapUniqueViolation(err); dupErr != nil {
			return domain.Client{}, dupErr
		}
		return domain.Client{}, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// Update перезаписывает клиента. Условие по version реализует
// оптимистичную блокировку: строка, измененная другим писателем после
// чтения, не совпадет по версии.
func (r *PostgresClientRepository) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	query := `
		UPDATE clients
		SET first_name = $1, last_name = $2, birth_date = $3, cuit = $4,
		    address = NULLIF($5, ''), mobile = $6, email = $7, version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	err := r.db.QueryRow(
		ctx,
		query,
		client.FirstName,
		client.LastName,
		client.BirthDate.Time,
		client.CUIT,
		client.Address,
		client.Mobile,
		client.Email,
		client.ID,
		client.Version,
	).Scan(&client.Version)

	if err != nil {
		if dupErr := mapUniqueViolation(err); dupErr != nil {
			return domain.Client{}, dupErr
		}
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо строки нет, либо версия устарела
			var exists bool
			checkErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, client.ID).Scan(&exists)
			if checkErr != nil {
				return domain.Client{}, fmt.Errorf("failed to check client existence: %w", checkErr)
			}
			if exists {
				return domain.Client{}, repository.ErrVersionMismatch
			}
			return domain.Client{}, repository.ErrNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

// Delete удаляет клиента по id
func (r *PostgresClientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// mapUniqueViolation превращает нарушение уникального индекса в ошибку репозитория
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "cuit"):
		return repository.ErrDuplicateCUIT
	case strings.Contains(pgErr.ConstraintName, "email"):
		return repository.ErrDuplicateEmail
	default:
		return repository.ErrDuplicate
	}
}

func scanClient(row pgx.Row) (domain.Client, error) {
	var client domain.Client

	err := row.Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.BirthDate.Time,
		&client.CUIT,
		&client.Address,
		&client.Mobile,
		&client.Email,
		&client.Version,
	)
	if err != nil {
		return domain.Client{}, err
	}

	return client, nil
}

func scanClients(rows pgx.Rows) ([]domain.Client, error) {
	var clients []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}
