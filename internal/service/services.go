package service

import (
	"github.com/deppfellow/company-tracker/internal/lib/job"
	"github.com/deppfellow/company-tracker/internal/repository"
	"github.com/deppfellow/company-tracker/internal/server"
)

type Services struct {
	Company *CompanyService
	Job     *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var notifier Notifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Company: NewCompanyService(repos.Company, notifier, s.Logger),
		Job:     s.Job,
	}, nil
}
