// Package catalog holds the priced list of labour services a service center offers.
package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var offeringCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{1,49}$`)

// ServiceOffering is a catalog entry for billable labour (e.g. "battery diagnostics").
// Its price is copied onto order lines when they are added; later repricing
// does not touch existing lines.
type ServiceOffering struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ServiceOffering) TableName() string {
	return "service_offerings"
}

// NewServiceOffering creates an active catalog entry
func NewServiceOffering(code, name, description string, price decimal.Decimal) (*ServiceOffering, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !offeringCodePattern.MatchString(code) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			"Service code must be 2-50 characters of letters, digits, dash or underscore")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Service name cannot be empty")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Service price must be greater than zero")
	}

	return &ServiceOffering{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Description:       description,
		Price:             price.Round(2),
		Active:            true,
	}, nil
}

// Reprice changes the list price for future order lines
func (s *ServiceOffering) Reprice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Service price must be greater than zero")
	}
	s.Price = price.Round(2)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate hides the offering from new quotations
func (s *ServiceOffering) Deactivate() {
	if !s.Active {
		return
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
