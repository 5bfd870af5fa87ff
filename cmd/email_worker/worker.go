package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/mailer"
	mailtpl "github.com/oksasatya/firmhub/pkg/mailer/templates"
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html, tag string) error
}

type outcome int

const (
	ack outcome = iota
	drop
	requeue
)

var (
	errNoRecipient     = errors.New("job has no recipient")
	errUnknownTemplate = errors.New("unknown template")
	errEmptyBody       = errors.New("job has no body")
)

// compose renders a job into subject, text and html.
// Template jobs use the embedded templates; raw jobs must carry a body.
func compose(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errNoRecipient
	}
	if job.Template == "" {
		if job.Text == "" && job.HTML == "" {
			return "", "", "", errEmptyBody
		}
		subject = job.Subject
		if subject == "" {
			subject = helpers.SubjectFor("")
		}
		return subject, job.Text, job.HTML, nil
	}
	if !mailtpl.Known(job.Template) {
		return "", "", "", errUnknownTemplate
	}
	helpers.EnsureRecipientAndEmail(job)
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	if subject == "" {
		subject = helpers.SubjectFor(job.Template)
	}
	return subject, text, html, nil
}

// handle processes one queue message. Bad payloads are dropped; send failures are requeued.
func handle(ctx context.Context, s sender, logger *logrus.Logger, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		return drop
	}
	entry := logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html, err := compose(&job)
	if err != nil {
		entry.WithError(err).Warn("render failed")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := s.Send(c, job.To, subject, text, html, job.Template); err != nil {
		entry.WithError(err).Error("send failed")
		return requeue
	}
	helpers.LogInfo(logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template})
	return ack
}
