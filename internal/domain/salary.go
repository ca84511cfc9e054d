package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrSalaryNotFound = errors.New("salary record not found")

// SalaryRecord is one row of salary_details, keyed by email.
type SalaryRecord struct {
	ID                    uint64              `gorm:"primaryKey;autoIncrement"`
	Name                  string              `gorm:"size:255;not null"`
	Email                 string              `gorm:"size:255;not null;uniqueIndex"`
	Currency              string              `gorm:"size:3;not null"`
	SalaryInLocalCurrency decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	SalaryInEuros         decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	Commission            decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:500.00"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (SalaryRecord) TableName() string { return "salary_details" }

// DisplayedSalary is euros (0 when unset) plus commission. Never stored.
func (r SalaryRecord) DisplayedSalary() decimal.Decimal {
	euros := decimal.Zero
	if r.SalaryInEuros.Valid {
		euros = r.SalaryInEuros.Decimal
	}
	return euros.Add(r.Commission)
}

// Submission is what the public form may write.
type Submission struct {
	Name                  string
	Email                 string
	Currency              string
	SalaryInLocalCurrency decimal.Decimal
	// Commission only applies when the email is new.
	Commission decimal.Decimal
}

// AmountPatch carries the admin-editable amounts; nil means keep.
type AmountPatch struct {
	SalaryInLocalCurrency *decimal.Decimal
	SalaryInEuros         *decimal.Decimal
	Commission            *decimal.Decimal
}

func (p AmountPatch) Empty() bool {
	return p.SalaryInLocalCurrency == nil && p.SalaryInEuros == nil && p.Commission == nil
}

type SalaryRepository interface {
	List(ctx context.Context) ([]SalaryRecord, error)
	// FindByID returns nil, nil when the id is unknown.
	FindByID(ctx context.Context, id uint64) (*SalaryRecord, error)
	UpsertByEmail(ctx context.Context, s Submission) (*SalaryRecord, error)
	// UpdateAmounts returns ErrSalaryNotFound for an unknown id.
	UpdateAmounts(ctx context.Context, id uint64, p AmountPatch) (*SalaryRecord, error)
}
