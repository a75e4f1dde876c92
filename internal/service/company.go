package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/company-tracker/internal/errs"
	"github.com/deppfellow/company-tracker/internal/lib/job"
	"github.com/deppfellow/company-tracker/internal/model"
	"github.com/deppfellow/company-tracker/internal/repository"
	"github.com/deppfellow/company-tracker/internal/sqlerr"
	"github.com/rs/zerolog"
)

// MsgNameTaken is the field message for a duplicate company name.
const MsgNameTaken = "company with this name already exists."

// Notifier schedules the "company created" notification.
type Notifier interface {
	EnqueueCompanyCreated(ctx context.Context, p job.CompanyCreatedPayload) error
}

type CompanyService struct {
	repo     repository.CompanyRepository
	notifier Notifier
	logger   *zerolog.Logger
}

// NewCompanyService builds the service. notifier may be nil, in which case
// nothing is enqueued on create.
func NewCompanyService(repo repository.CompanyRepository, notifier Notifier, logger *zerolog.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// ListCompanies returns every company in insertion order.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]model.Company, error) {
	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	if companies == nil {
		companies = []model.Company{}
	}

	return companies, nil
}

// CreateCompany stores a new company built from a validated payload.
//
// A duplicate name is reported as a field error on "name", whether it is
// caught by the lookup or by the unique constraint on insert.
func (s *CompanyService) CreateCompany(ctx context.Context, payload *model.CreateCompanyPayload) (*model.Company, error) {
	newCompany := payload.ToNewCompany()

	exists, err := s.repo.ExistsByName(ctx, newCompany.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up company name: %w", err)
	}
	if exists {
		return nil, errs.NewFieldError("name", MsgNameTaken)
	}

	company, err := s.repo.Create(ctx, newCompany)
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, errs.NewFieldError("name", MsgNameTaken)
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.notify(ctx, company)

	return company, nil
}

// CheckName returns the "name" failure when name is already taken. A blank
// name is left to the required check.
func (s *CompanyService) CheckName(ctx context.Context, name string) (errs.FieldErrors, error) {
	if name == "" {
		return nil, nil
	}

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up company name: %w", err)
	}
	if !exists {
		return nil, nil
	}

	fields := errs.FieldErrors{}
	fields.Add("name", MsgNameTaken)

	return fields, nil
}

func (s *CompanyService) notify(ctx context.Context, company *model.Company) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.EnqueueCompanyCreated(ctx, job.CompanyCreatedPayload{
		Name:            company.Name,
		Status:          string(company.Status),
		ApplicationLink: company.ApplicationLink,
		Notes:           company.Notes,
	})
	if err != nil {
		s.loggerFor(ctx).Error().
			Err(err).
			Str("company", company.Name).
			Msg("failed to enqueue company created notification")
	}
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (s *CompanyService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
