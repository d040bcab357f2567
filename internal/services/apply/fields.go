// -----------------------------------------------------------------------
// Step field answering - phone number and screening question groupings
// -----------------------------------------------------------------------

package apply

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/peto/internal/interfaces"
)

// fillStep fills every visible field grouping on the current step. Errors
// are caught per field: one broken grouping never aborts the step, the
// resulting validation error is handled by the error-recovery recognizer.
func (d *Driver) fillStep(ctx context.Context) {
	groupings, err := d.session.FindAll(ctx, selGrouping)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to enumerate form groupings")
		return
	}

	for _, grouping := range groupings {
		text, err := grouping.Text(ctx)
		if err != nil {
			d.logger.Debug().Err(err).Msg("Failed to read form grouping text")
			continue
		}

		if strings.Contains(text, phoneFieldMarker) {
			d.fillPhoneNumber(ctx, grouping)
			continue
		}

		answer, ok := d.resolver.Resolve(text)
		if !ok {
			// Unresolved: enter nothing and let validation recovery retry
			continue
		}

		if err := d.answerGrouping(ctx, grouping, answer); err != nil {
			d.logger.Debug().Err(err).Str("question", text).Msg("Could not answer question")
		}
	}
}

// fillPhoneNumber types the configured phone number into the grouping's input
func (d *Driver) fillPhoneNumber(ctx context.Context, grouping interfaces.Element) {
	if d.config.PhoneNumber == "" {
		return
	}
	inputs, err := grouping.FindAll(ctx, "input")
	if err != nil || len(inputs) == 0 {
		d.logger.Debug().Err(err).Msg("Could not find phone number input")
		return
	}
	if err := inputs[0].Fill(ctx, d.config.PhoneNumber); err != nil {
		d.logger.Debug().Err(err).Msg("Could not fill phone number")
		return
	}
	d.pacer.Wait(ctx)
}

// answerGrouping enters the answer into the grouping's input, trying radio
// buttons by value equality, then free-text input, then multi-entry tag
// input, in that priority order.
func (d *Driver) answerGrouping(ctx context.Context, grouping interfaces.Element, answer string) error {
	radioSel := fmt.Sprintf("input[type='radio'][value='%s']", escapeAttrValue(answer))
	radios, err := grouping.FindAll(ctx, radioSel)
	if err == nil && len(radios) > 0 {
		if err := radios[0].Click(ctx); err != nil {
			return fmt.Errorf("radio click failed: %w", err)
		}
		d.pacer.Wait(ctx)
		return nil
	}

	texts, err := grouping.FindAll(ctx, selTextInput)
	if err == nil && len(texts) > 0 {
		if err := texts[0].Fill(ctx, answer); err != nil {
			return fmt.Errorf("text input failed: %w", err)
		}
		d.pacer.Wait(ctx)
		return nil
	}

	multis, err := grouping.FindAll(ctx, selMultiInput)
	if err == nil && len(multis) > 0 {
		if err := multis[0].TypeAndEnter(ctx, answer); err != nil {
			return fmt.Errorf("multi-entry input failed: %w", err)
		}
		d.pacer.Wait(ctx)
		return nil
	}

	return fmt.Errorf("no answerable input in grouping")
}

// escapeAttrValue escapes an answer for use inside a quoted CSS attribute
// selector.
func escapeAttrValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return value
}
