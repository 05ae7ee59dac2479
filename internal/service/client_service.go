package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dhoini/Client-microservice/internal/domain"
	"github.com/Dhoini/Client-microservice/internal/repository"
	"github.com/Dhoini/Client-microservice/pkg/logger"
)

// ClientService интерфейс сервиса для работы с клиентами.
// Каждая операция возвращает Outcome; ни одна ошибка хранилища
// не покидает сервис в сыром виде.
type ClientService interface {
	GetAll(ctx context.Context) Outcome[[]domain.Client]
	GetByID(ctx context.Context, id int64) Outcome[domain.Client]
	SearchByName(ctx context.Context, query string) Outcome[[]domain.Client]
	Create(ctx context.Context, req domain.ClientRequest) Outcome[domain.Client]
	Update(ctx context.Context, id int64, req domain.ClientRequest) Outcome[domain.Client]
	Delete(ctx context.Context, id int64) Outcome[Void]
}

type clientService struct {
	repo repository.ClientRepository
	log  *logger.Logger
}

// NewClientService создает новый сервис для работы с клиентами
func NewClientService(repo repository.ClientRepository, log *logger.Logger) ClientService {
	return &clientService{
		repo: repo,
		log:  log,
	}
}

// GetAll возвращает всех клиентов по возрастанию id
func (s *clientService) GetAll(ctx context.Context) Outcome[[]domain.Client] {
	s.log.Debug("Getting all clients")

	clients, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get all clients: %v", err)
		return Unexpected[[]domain.Client]("failed to retrieve clients")
	}

	return Ok(clients, "")
}

// GetByID возвращает клиента по id
func (s *clientService) GetByID(ctx context.Context, id int64) Outcome[domain.Client] {
	s.log.Debug("Getting client by id: %d", id)

	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Client not found: %d", id)
			return NotFound[domain.Client](fmt.Sprintf("client with id %d not found", id))
		}

		s.log.Error("Failed to get client %d: %v", id, err)
		return Unexpected[domain.Client]("failed to retrieve client")
	}

	return Ok(client, "")
}

// SearchByName ищет клиентов по подстроке в "имя фамилия" без учета
// регистра. Пустой запрос пропускается как пустой фильтр и возвращает
// полный список: граница транспорта его не отклоняет.
func (s *clientService) SearchByName(ctx context.Context, query string) Outcome[[]domain.Client] {
	query = strings.TrimSpace(query)
	s.log.Debug("Searching clients by name: %q", query)

	clients, err := s.repo.SearchByName(ctx, query)
	if err != nil {
		s.log.Error("Failed to search clients by name %q: %v", query, err)
		return Unexpected[[]domain.Client]("failed to search clients")
	}

	return Ok(clients, "")
}

// Create создает нового клиента. Предварительная проверка CUIT плюс
// уникальный индекс хранилища как последний рубеж: нарушение
// ограничения при вставке тоже превращается в conflict.
func (s *clientService) Create(ctx context.Context, req domain.ClientRequest) Outcome[domain.Client] {
	s.log.Debug("Creating client with cuit: %s", req.CUIT)

	if err := domain.ValidateCUIT(req.CUIT); err != nil {
		s.log.Warn("Invalid cuit %q: %v", req.CUIT, err)
		return Invalid[domain.Client](fmt.Sprintf("invalid cuit %q: %v", req.CUIT, err))
	}

	exists, err := s.repo.ExistsByCUIT(ctx, req.CUIT)
	if err != nil {
		s.log.Error("Failed to check cuit %s: %v", req.CUIT, err)
		return Unexpected[domain.Client]("failed to check cuit uniqueness")
	}
	if exists {
		s.log.Warn("Client with cuit %s already exists", req.CUIT)
		return Conflict[domain.Client](fmt.Sprintf("client with cuit %s already exists", req.CUIT))
	}

	created, err := s.repo.Create(ctx, normalize(req))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Гонка между проверкой и вставкой, ограничение сработало первым
			s.log.Warn("Duplicate on insert for cuit %s: %v", req.CUIT, err)
			return Conflict[domain.Client](duplicateMessage(err, req))
		}

		s.log.Error("Failed to create client (cuit %s, email %s): %v", req.CUIT, req.Email, err)
		return Unexpected[domain.Client]("failed to create client")
	}

	s.log.Info("Created client with id: %d", created.ID)
	return Ok(created, "client created")
}

// Update полностью заменяет изменяемые поля клиента. Совпадение CUIT
// с собственной текущей записью конфликтом не считается; проверка
// уникальности выполняется только когда CUIT действительно меняется.
func (s *clientService) Update(ctx context.Context, id int64, req domain.ClientRequest) Outcome[domain.Client] {
	s.log.Debug("Updating client with id: %d", id)

	if err := domain.ValidateCUIT(req.CUIT); err != nil {
		s.log.Warn("Invalid cuit %q: %v", req.CUIT, err)
		return Invalid[domain.Client](fmt.Sprintf("invalid cuit %q: %v", req.CUIT, err))
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Client not found: %d", id)
			return NotFound[domain.Client](fmt.Sprintf("client with id %d not found", id))
		}

		s.log.Error("Failed to load client %d: %v", id, err)
		return Unexpected[domain.Client]("failed to load client")
	}

	if !strings.EqualFold(existing.CUIT, req.CUIT) {
		taken, err := s.repo.ExistsByCUIT(ctx, req.CUIT)
		if err != nil {
			s.log.Error("Failed to check cuit %s: %v", req.CUIT, err)
			return Unexpected[domain.Client]("failed to check cuit uniqueness")
		}
		if taken {
			s.log.Warn("Client with cuit %s already exists", req.CUIT)
			return Conflict[domain.Client](fmt.Sprintf("client with cuit %s already exists", req.CUIT))
		}
	}

	replacement := normalize(req)
	replacement.ID = existing.ID
	replacement.Version = existing.Version

	updated, err := s.repo.Update(ctx, replacement)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionMismatch):
			s.log.Warn("Concurrent modification of client %d", id)
			return Conflict[domain.Client](fmt.Sprintf("client with id %d was modified concurrently, reload and retry", id))
		case errors.Is(err, repository.ErrDuplicate):
			s.log.Warn("Duplicate on update for cuit %s: %v", req.CUIT, err)
			return Conflict[domain.Client](duplicateMessage(err, req))
		case errors.Is(err, repository.ErrNotFound):
			// Удален между чтением и записью
			s.log.Warn("Client disappeared during update: %d", id)
			return NotFound[domain.Client](fmt.Sprintf("client with id %d not found", id))
		default:
			s.log.Error("Failed to update client %d (cuit %s): %v", id, req.CUIT, err)
			return Unexpected[domain.Client]("failed to update client")
		}
	}

	s.log.Info("Updated client with id: %d", id)
	return Ok(updated, "client updated")
}

// Delete удаляет клиента. Жесткое удаление без проверок зависимостей.
func (s *clientService) Delete(ctx context.Context, id int64) Outcome[Void] {
	s.log.Debug("Deleting client with id: %d", id)

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Client not found: %d", id)
			return NotFound[Void](fmt.Sprintf("client with id %d not found", id))
		}

		s.log.Error("Failed to delete client %d: %v", id, err)
		return Unexpected[Void]("failed to delete client")
	}

	s.log.Info("Deleted client with id: %d", id)
	return Ok(Void{}, "client deleted")
}

// normalize приводит поля запроса к каноническому виду перед записью:
// имена, адрес и телефон без крайних пробелов, email в нижнем регистре.
// CUIT и дата рождения остаются как есть.
func normalize(req domain.ClientRequest) domain.Client {
	return domain.Client{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		BirthDate: req.BirthDate,
		CUIT:      req.CUIT,
		Address:   strings.TrimSpace(req.Address),
		Mobile:    strings.TrimSpace(req.Mobile),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}
}

func duplicateMessage(err error, req domain.ClientRequest) string {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return fmt.Sprintf("client with email %s already exists", strings.ToLower(strings.TrimSpace(req.Email)))
	default:
		return fmt.Sprintf("client with cuit %s already exists", req.CUIT)
	}
}
