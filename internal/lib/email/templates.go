package email

// Template names a file under templates/, without the extension.
type Template string

const (
	TemplateCompanyCreated Template = "company_created"
)
