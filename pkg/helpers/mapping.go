package helpers

import (
	"fmt"

	"github.com/oksasatya/firmhub/pkg/mailer"
	mailtpl "github.com/oksasatya/firmhub/pkg/mailer/templates"
)

// SubjectFor returns the fallback subject for a template job without its own subject.
func SubjectFor(template string) string {
	switch template {
	case mailtpl.WelcomeVendor:
		return "Welcome aboard"
	case mailtpl.FirmCreated:
		return "Your firm is live"
	case mailtpl.FirmDeleted:
		return "Your firm was removed"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail fills Email/RecipientEmail from job.To when missing.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
