package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salary-portal/internal/domain"
)

type SalaryRepo struct{ db *gorm.DB }

func NewSalaryRepo(db *gorm.DB) *SalaryRepo { return &SalaryRepo{db: db} }

var _ domain.SalaryRepository = (*SalaryRepo)(nil)

func (r *SalaryRepo) List(ctx context.Context) ([]domain.SalaryRecord, error) {
	rows := make([]domain.SalaryRecord, 0)
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *SalaryRepo) FindByID(ctx context.Context, id uint64) (*domain.SalaryRecord, error) {
	var rec domain.SalaryRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertByEmail inserts a row or, when the email already exists, overwrites
// name, currency and local salary in the same statement. Euro salary and
// commission of an existing row are never touched here.
func (r *SalaryRepo) UpsertByEmail(ctx context.Context, s domain.Submission) (*domain.SalaryRecord, error) {
	in := domain.SalaryRecord{
		Name:                  s.Name,
		Email:                 s.Email,
		Currency:              s.Currency,
		SalaryInLocalCurrency: s.SalaryInLocalCurrency,
		Commission:            s.Commission,
	}
	var out domain.SalaryRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "currency", "salary_in_local_currency", "updated_at",
			}),
		}).Create(&in).Error
		if err != nil {
			return err
		}
		return tx.Where("email = ?", s.Email).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *SalaryRepo) UpdateAmounts(ctx context.Context, id uint64, p domain.AmountPatch) (*domain.SalaryRecord, error) {
	var rec domain.SalaryRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSalaryNotFound
		}
		if err != nil {
			return err
		}
		if p.Empty() {
			return nil
		}

		now := time.Now()
		updates := map[string]any{"updated_at": now}
		if p.SalaryInLocalCurrency != nil {
			updates["salary_in_local_currency"] = *p.SalaryInLocalCurrency
		}
		if p.SalaryInEuros != nil {
			updates["salary_in_euros"] = *p.SalaryInEuros
		}
		if p.Commission != nil {
			updates["commission"] = *p.Commission
		}
		if err := tx.Model(&domain.SalaryRecord{}).Where("id = ?", rec.ID).Updates(updates).Error; err != nil {
			return err
		}

		applyPatch(&rec, p)
		rec.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func applyPatch(rec *domain.SalaryRecord, p domain.AmountPatch) {
	if p.SalaryInLocalCurrency != nil {
		rec.SalaryInLocalCurrency = *p.SalaryInLocalCurrency
	}
	if p.SalaryInEuros != nil {
		rec.SalaryInEuros.Decimal = *p.SalaryInEuros
		rec.SalaryInEuros.Valid = true
	}
	if p.Commission != nil {
		rec.Commission = *p.Commission
	}
}
