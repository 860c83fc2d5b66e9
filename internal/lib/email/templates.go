package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateWelcome corresponds to templates/emails/welcome.html
	TemplateWelcome Template = "welcome"

	// TemplatePasswordChanged corresponds to templates/emails/password_changed.html
	TemplatePasswordChanged Template = "password_changed"
)

func (t Template) file() string {
	return string(t) + ".html"
}
