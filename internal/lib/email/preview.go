package email

// PreviewData holds sample data for rendering each template without a real
// event, e.g. when editing the HTML.
var PreviewData = map[Template]any{
	TemplateCompanyCreated: CompanyCreatedData{
		CompanyName:     "Acme Corp",
		Status:          "Hiring",
		ApplicationLink: "https://acme.example/careers",
		Notes:           "Referral from Dana.",
	},
}
