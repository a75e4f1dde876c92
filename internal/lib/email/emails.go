package email

import (
	"context"
	"fmt"
)

// CompanyCreatedData feeds the company_created template.
type CompanyCreatedData struct {
	CompanyName     string
	Status          string
	ApplicationLink string
	Notes           string
}

// SendCompanyCreatedEmail tells the recipient a company was added.
func (c *Client) SendCompanyCreatedEmail(ctx context.Context, to string, data CompanyCreatedData) error {
	return c.SendEmail(
		ctx,
		to,
		fmt.Sprintf("New company tracked: %s", data.CompanyName),
		TemplateCompanyCreated,
		data,
	)
}
