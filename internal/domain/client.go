package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat формат даты рождения на проводе (ISO, без времени)
const DateFormat = "2006-01-02"

// Date календарная дата без компонента времени
type Date struct {
	time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON разбирает дату в формате "2006-01-02"
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}

	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}

	d.Time = t
	return nil
}

// MarshalJSON сериализует дату в формат "2006-01-02"
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format(DateFormat) + `"`), nil
}

// Client представляет собой клиента
type Client struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate Date   `json:"birth_date"`
	CUIT      string `json:"cuit"`
	Address   string `json:"address,omitempty"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`

	// Version токен оптимистичной блокировки, управляется хранилищем
	Version int64 `json:"-"`
}

// FullName возвращает имя и фамилию одной строкой (поле поиска)
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ClientRequest представляет запрос на создание/обновление клиента.
// Декларативные правила формата полей проверяются на транспортной границе.
type ClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	BirthDate Date   `json:"birth_date" binding:"required,beforetoday"`
	CUIT      string `json:"cuit" binding:"required,cuit"`
	Address   string `json:"address"`
	Mobile    string `json:"mobile" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}
