// Package controller owns the request/response lifecycle of the scrape form.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"

	"lead-scraper-go/pkg/models"
	"lead-scraper-go/pkg/scraper"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// View is the rendering surface driven by the controller
type View interface {
	// ShowLoading hides any prior outcome, shows the loading region and
	// disables the submit control with its busy label and spinner.
	ShowLoading()
	ShowSuccess(res scraper.Success)
	ShowError(message string)
	// ResetAffordance re-enables the submit control, restores its idle
	// label and hides the spinner.
	ResetAffordance()
}

// JobSubmitter issues one scrape job. *scraper.Client implements it.
type JobSubmitter interface {
	Submit(ctx context.Context, req models.ScrapeRequest) (*scraper.Success, error)
}

// FormValues are the raw strings typed into the form
type FormValues struct {
	City     string
	Query    string
	MaxLeads string
}

// Outcome reports how a submission ended
type Outcome struct {
	SubmissionID string
	Phase        Phase
	Result       *scraper.Success
	Message      string
}

// RequestController drives a View through one submission at a time
type RequestController struct {
	jobs JobSubmitter
	view View
	log  logrus.FieldLogger
}

// New creates a controller. A nil logger discards log output.
func New(jobs JobSubmitter, view View, log logrus.FieldLogger) *RequestController {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &RequestController{
		jobs: jobs,
		view: view,
		log:  log,
	}
}

// OnSubmit runs one submission: loading, a single POST, affordance reset,
// then exactly one of success or error. It blocks until the call settles
// and never retries.
func (c *RequestController) OnSubmit(ctx context.Context, values FormValues) Outcome {
	id := uuid.NewString()
	log := c.log.WithField("submission_id", id)

	c.view.ShowLoading()

	req := models.NewScrapeRequest(values.City, values.Query, values.MaxLeads)
	log.WithFields(logrus.Fields{
		"city":      req.City,
		"query":     req.Query,
		"max_leads": req.MaxLeads,
	}).Info("submitting scrape job")

	res, err := c.submit(scraper.WithSubmissionID(ctx, id), req)

	c.view.ResetAffordance()

	var scraperErr *scraper.ScraperError
	switch {
	case err == nil:
		log.WithFields(logrus.Fields{
			"total_leads": res.TotalLeads,
			"filename":    res.Filename,
		}).Info("scrape job finished")
		c.view.ShowSuccess(*res)
		return Outcome{SubmissionID: id, Phase: PhaseSuccess, Result: res}

	case errors.As(err, &scraperErr) && scraperErr.Type == scraper.ErrorTypeApplication:
		msg := scraperErr.UserMessage()
		log.WithFields(logrus.Fields{
			"status_code": scraperErr.StatusCode,
			"status":      scraperErr.Status,
		}).Warnf("scrape job failed: %s", msg)
		c.view.ShowError(msg)
		return Outcome{SubmissionID: id, Phase: PhaseError, Message: msg}

	default:
		log.WithError(err).Error("scrape request failed")
		c.view.ShowError(scraper.ConnectFailedMessage)
		return Outcome{SubmissionID: id, Phase: PhaseError, Message: scraper.ConnectFailedMessage}
	}
}

// submit shields the lifecycle from a panicking transport so the
// affordance is still restored.
func (c *RequestController) submit(ctx context.Context, req models.ScrapeRequest) (res *scraper.Success, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &scraper.ScraperError{
				Type:    scraper.ErrorTypeTransport,
				Message: "job submitter panicked",
				Cause:   panicError{r},
			}
		}
	}()

	res, err = c.jobs.Submit(ctx, req)
	if err == nil && res == nil {
		err = &scraper.ScraperError{Type: scraper.ErrorTypeTransport, Message: "empty result"}
	}
	return res, err
}

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
