package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Dhoini/Client-microservice/internal/domain"
	"github.com/Dhoini/Client-microservice/pkg/logger"
)

// ClientRepository порт хранилища клиентов
type ClientRepository interface {
	GetAll(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id int64) (domain.Client, error)
	ExistsByCUIT(ctx context.Context, cuit string) (bool, error)
	SearchByName(ctx context.Context, query string) ([]domain.Client, error)
	Create(ctx context.Context, client domain.Client) (domain.Client, error)
	Update(ctx context.Context, client domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id int64) error
}

// InMemoryClientRepository реализация репозитория в памяти.
// Используется в тестах сервисного слоя вместо PostgreSQL.
type InMemoryClientRepository struct {
	clients map[int64]domain.Client
	nextID  int64
	mutex   sync.RWMutex
	log     *logger.Logger
}

// NewInMemoryClientRepository создает новый репозиторий клиентов в памяти
func NewInMemoryClientRepository(log *logger.Logger) *InMemoryClientRepository {
	return &InMemoryClientRepository{
		clients: make(map[int64]domain.Client),
		nextID:  1,
		log:     log,
	}
}

// GetAll возвращает всех клиентов, упорядоченных по возрастанию id
func (r *InMemoryClientRepository) GetAll(ctx context.Context) ([]domain.Client, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	clients := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}

	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })

	return clients, nil
}

// GetByID возвращает клиента по id
func (r *InMemoryClientRepository) GetByID(ctx context.Context, id int64) (domain.Client, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	client, exists := r.clients[id]
	if !exists {
		return domain.Client{}, ErrNotFound
	}

	return client, nil
}

// ExistsByCUIT проверяет, есть ли клиент с таким CUIT
func (r *InMemoryClientRepository) ExistsByCUIT(ctx context.Context, cuit string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, c := range r.clients {
		if strings.EqualFold(c.CUIT, cuit) {
			return true, nil
		}
	}

	return false, nil
}

// SearchByName ищет клиентов по подстроке в "имя фамилия" без учета регистра
func (r *InMemoryClientRepository) SearchByName(ctx context.Context, query string) ([]domain.Client, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	needle := strings.ToLower(query)

	clients := make([]domain.Client, 0)
	for _, c := range r.clients {
		if strings.Contains(strings.ToLower(c.FullName()), needle) {
			clients = append(clients, c)
		}
	}

	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })

	return clients, nil
}

// Create сохраняет нового клиента, присваивая id и начальную версию
func (r *InMemoryClientRepository) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, c := range r.clients {
		if strings.EqualFold(c.CUIT, client.CUIT) {
			return domain.Client{}, ErrDuplicateCUIT
		}
		if strings.EqualFold(c.Email, client.Email) {
			return domain.Client{}, ErrDuplicateEmail
		}
	}

	client.ID = r.nextID
	client.Version = 1
	r.nextID++

	r.clients[client.ID] = client

	return client, nil
}

// Update перезаписывает клиента, проверяя токен версии
func (r *InMemoryClientRepository) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.clients[client.ID]
	if !exists {
		return domain.Client{}, ErrNotFound
	}

	if existing.Version != client.Version {
		return domain.Client{}, ErrVersionMismatch
	}

	for id, c := range r.clients {
		if id == client.ID {
			continue
		}
		if strings.EqualFold(c.CUIT, client.CUIT) {
			return domain.Client{}, ErrDuplicateCUIT
		}
		if strings.EqualFold(c.Email, client.Email) {
			return domain.Client{}, ErrDuplicateEmail
		}
	}

	client.Version = existing.Version + 1
	r.clients[client.ID] = client

	return client, nil
}

// Delete удаляет клиента по id
func (r *InMemoryClientRepository) Delete(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.clients[id]; !exists {
		return ErrNotFound
	}

	delete(r.clients, id)

	return nil
}
