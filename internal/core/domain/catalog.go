// internal/core/domain/catalog.go
package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// EmployeeRole distinguishes administrators from cashiers.
type EmployeeRole string

const (
	RoleAdmin   EmployeeRole = "admin"
	RoleCashier EmployeeRole = "cashier"
)

// Product is a catalog entry.
type Product struct {
	ID          int64           `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Validate trims text fields and checks their bounds.
func (p *Product) Validate() error {
	var err error
	if p.Name, err = validName(p.Name, "name", 3, 128); err != nil {
		return err
	}
	if p.Brand, err = validName(p.Brand, "brand", 3, 64); err != nil {
		return err
	}
	p.Description = strings.TrimSpace(p.Description)
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// Store is one branch of the chain.
type Store struct {
	ID            int64     `json:"store_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	EmployeeCount int       `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate trims text fields and checks name, address and phone.
func (s *Store) Validate() error {
	var err error
	if s.Name, err = validName(s.Name, "name", 3, 128); err != nil {
		return err
	}
	if s.Address, err = validName(s.Address, "address", 3, 255); err != nil {
		return err
	}
	s.Phone = strings.TrimSpace(s.Phone)
	if !phonePattern.MatchString(s.Phone) {
		return fmt.Errorf("phone format is invalid")
	}
	return nil
}

// Employee works at exactly one store.
type Employee struct {
	ID        int64        `json:"employee_id"`
	StoreID   int64        `json:"store_id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Role      EmployeeRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate trims text fields and checks them. An empty role means cashier.
func (e *Employee) Validate() error {
	if e.StoreID <= 0 {
		return fmt.Errorf("store_id is required")
	}
	var err error
	if e.FirstName, err = validName(e.FirstName, "first_name", 3, 64); err != nil {
		return err
	}
	if e.LastName, err = validName(e.LastName, "last_name", 3, 64); err != nil {
		return err
	}
	e.Email = strings.TrimSpace(e.Email)
	if !emailPattern.MatchString(e.Email) {
		return fmt.Errorf("email format is invalid")
	}
	switch e.Role {
	case "":
		e.Role = RoleCashier
	case RoleAdmin, RoleCashier:
	default:
		return fmt.Errorf("role must be %q or %q", RoleAdmin, RoleCashier)
	}
	return nil
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func validName(value, field string, min, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if n := utf8.RuneCountInString(trimmed); n < min || n > max {
		return trimmed, fmt.Errorf("%s must be between %d and %d characters long", field, min, max)
	}
	return trimmed, nil
}
