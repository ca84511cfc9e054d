package salary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salary-portal/internal/core/validate"
	"salary-portal/internal/domain"
)

var ErrNotFound = domain.ErrSalaryNotFound

type Service interface {
	List(ctx context.Context) ([]SalaryResponse, error)
	Get(ctx context.Context, id uint64) (SalaryResponse, error)
	Submit(ctx context.Context, req SubmitRequest) (SalaryResponse, error)
	UpdateAmounts(ctx context.Context, id uint64, req UpdateRequest) (SalaryResponse, error)
}

type Options struct {
	DefaultCommission decimal.Decimal
	Cache             ListCache // optional
	Logger            *zap.Logger
}

type service struct {
	repo       domain.SalaryRepository
	validator  *validate.Validator
	commission decimal.Decimal
	cache      ListCache
	log        *zap.Logger
}

func NewService(repo domain.SalaryRepository, v *validate.Validator, opts Options) Service {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &service{
		repo:       repo,
		validator:  v,
		commission: opts.DefaultCommission.Round(2),
		cache:      opts.Cache,
		log:        l.Named("salary"),
	}
}

func (s *service) List(ctx context.Context) ([]SalaryResponse, error) {
	if s.cache != nil {
		return s.cache.GetOrLoad(ctx, s.load)
	}
	return s.load(ctx)
}

func (s *service) load(ctx context.Context) ([]SalaryResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	return toResponses(rows), nil
}

func (s *service) Get(ctx context.Context, id uint64) (SalaryResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, fmt.Errorf("find salary %d: %w", id, err)
	}
	if rec == nil {
		return SalaryResponse{}, ErrNotFound
	}
	return toResponse(*rec), nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (SalaryResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))

	if err := validate.Merge(req.DecodeErrors(), s.validator.Struct(req)); err != nil {
		rejectedTotal.WithLabelValues("submit", "validation").Inc()
		return SalaryResponse{}, err
	}

	rec, err := s.repo.UpsertByEmail(ctx, domain.Submission{
		Name:                  req.Name,
		Email:                 req.Email,
		Currency:              req.Currency,
		SalaryInLocalCurrency: req.SalaryInLocalCurrency.Round(2),
		Commission:            s.commission,
	})
	if err != nil {
		return SalaryResponse{}, fmt.Errorf("upsert salary: %w", err)
	}
	submissionsTotal.Inc()
	s.invalidate(ctx)
	s.log.Info("salary submitted", zap.Uint64("id", rec.ID))
	return toResponse(*rec), nil
}

func (s *service) UpdateAmounts(ctx context.Context, id uint64, req UpdateRequest) (SalaryResponse, error) {
	if err := validate.Merge(req.DecodeErrors(), s.validator.Struct(req)); err != nil {
		rejectedTotal.WithLabelValues("update", "validation").Inc()
		return SalaryResponse{}, err
	}

	rec, err := s.repo.UpdateAmounts(ctx, id, req.patch())
	if errors.Is(err, domain.ErrSalaryNotFound) {
		rejectedTotal.WithLabelValues("update", "not_found").Inc()
		return SalaryResponse{}, ErrNotFound
	}
	if err != nil {
		return SalaryResponse{}, fmt.Errorf("update salary %d: %w", id, err)
	}
	amountUpdatesTotal.Inc()
	s.invalidate(ctx)
	s.log.Info("salary amounts updated", zap.Uint64("id", id))
	return toResponse(*rec), nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("list cache invalidate failed", zap.Error(err))
	}
}
