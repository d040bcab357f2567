// -----------------------------------------------------------------------
// Step control recognizers - ordered strategy list over the live page
// -----------------------------------------------------------------------

package apply

import (
	"context"
	"path/filepath"
)

// stepResult is the outcome of one recognizer against the current step
type stepResult int

const (
	// stepNotPresent means the recognizer's control is absent; the next
	// recognizer in priority order is tried within the same iteration.
	stepNotPresent stepResult = iota

	// stepAdvanced means the recognizer acted (or tried to); the iteration
	// is consumed and the loop re-evaluates from the top.
	stepAdvanced

	// stepSubmitted means the final submit succeeded; terminal.
	stepSubmitted
)

// recognizer detects one kind of step control and applies its action.
// Recognizers are evaluated in fixed priority order every iteration, which
// reproduces the original cascading control dispatch as an explicit,
// extensible list.
type recognizer struct {
	name string
	run  func(ctx context.Context, d *Driver) stepResult
}

func stepRecognizers() []recognizer {
	return []recognizer{
		{name: "submit", run: runSubmit},
		{name: "next", run: runNext},
		{name: "review", run: runReview},
		{name: "upload", run: runUpload},
		{name: "validation_error", run: runValidationError},
	}
}

// runSubmit clicks the final submit control. A failed click consumes the
// iteration and is retried on the next one.
func runSubmit(ctx context.Context, d *Driver) stepResult {
	button, found, err := d.session.Find(ctx, selSubmit)
	if err != nil || !found {
		return stepNotPresent
	}
	if err := button.Click(ctx); err != nil {
		d.logger.Debug().Err(err).Msg("Submit button click failed")
		return stepAdvanced
	}
	d.pacer.Wait(ctx)
	return stepSubmitted
}

// runNext fills the current step's fields, then advances to the next step
func runNext(ctx context.Context, d *Driver) stepResult {
	button, found, err := d.session.Find(ctx, selNext)
	if err != nil || !found {
		return stepNotPresent
	}
	d.fillStep(ctx)
	if err := button.Click(ctx); err != nil {
		d.logger.Debug().Err(err).Msg("Next button click failed")
	}
	return stepAdvanced
}

// runReview advances through the review screen, treated as another step
// before final submit.
func runReview(ctx context.Context, d *Driver) stepResult {
	button, found, err := d.session.Find(ctx, selReview)
	if err != nil || !found {
		return stepNotPresent
	}
	if err := button.Click(ctx); err != nil {
		d.logger.Debug().Err(err).Msg("Review button click failed")
	}
	return stepAdvanced
}

// runUpload supplies the configured document to the first upload control
// present on the step.
func runUpload(ctx context.Context, d *Driver) stepResult {
	for _, upload := range uploadKinds {
		path, configured := d.config.Uploads[upload.Kind]
		if !configured {
			continue
		}
		control, found, err := d.session.Find(ctx, upload.Selector)
		if err != nil || !found {
			continue
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			d.logger.Debug().Err(err).Str("kind", upload.Kind).Msg("Failed to resolve upload path")
			continue
		}
		if err := control.Upload(ctx, absPath); err != nil {
			d.logger.Debug().Err(err).Str("kind", upload.Kind).Msg("File upload failed")
			continue
		}
		d.logger.Debug().Str("kind", upload.Kind).Str("path", absPath).Msg("Uploaded document")
		d.pacer.Wait(ctx)
		return stepAdvanced
	}
	return stepNotPresent
}

// runValidationError re-runs field answering when the step shows a
// validation error; a previously unanswerable question may have become
// answerable because a conditional field appeared.
func runValidationError(ctx context.Context, d *Driver) stepResult {
	indicator, found, err := d.session.Find(ctx, selError)
	if err != nil || !found {
		return stepNotPresent
	}
	if text, err := indicator.Text(ctx); err == nil {
		d.logger.Info().Str("message", text).Msg("Validation errors detected in application form")
	}
	d.fillStep(ctx)
	return stepAdvanced
}
