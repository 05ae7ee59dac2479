package service

// Status классификатор исхода сервисной операции. Закрытое множество:
// транспортный слой выбирает код ответа только по этому полю,
// текст сообщения никогда не разбирается программно.
type Status string

const (
	StatusOK               Status = "ok"
	StatusNotFound         Status = "not-found"
	StatusConflict         Status = "conflict"
	StatusValidationFailed Status = "validation-failed"
	StatusUnexpected       Status = "unexpected"
)

// Void пустая полезная нагрузка для операций без результата
type Void struct{}

// Outcome единый результат каждой сервисной операции: флаг успеха,
// классификатор, сообщение для диагностики/UI и типизированная нагрузка.
type Outcome[T any] struct {
	Success bool   `json:"success"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// Ok успешный исход с полезной нагрузкой
func Ok[T any](data T, message string) Outcome[T] {
	return Outcome[T]{Success: true, Status: StatusOK, Message: message, Data: data}
}

// NotFound запрошенная запись отсутствует
func NotFound[T any](message string) Outcome[T] {
	return Outcome[T]{Status: StatusNotFound, Message: message}
}

// Conflict нарушение уникальности или конкурентное изменение
func Conflict[T any](message string) Outcome[T] {
	return Outcome[T]{Status: StatusConflict, Message: message}
}

// Invalid некорректные входные данные, дошедшие до сервиса
func Invalid[T any](message string) Outcome[T] {
	return Outcome[T]{Status: StatusValidationFailed, Message: message}
}

// Unexpected инфраструктурный сбой, не классифицированный иначе
func Unexpected[T any](message string) Outcome[T] {
	return Outcome[T]{Status: StatusUnexpected, Message: message}
}
