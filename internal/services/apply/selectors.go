package apply

// Selectors for the Easy Apply wizard controls. Kept in one place since the
// site markup changes more often than the workflow around it.
const (
	selEasyApply    = "button.jobs-apply-button"
	selSubmit       = "button[aria-label='Submit application']"
	selNext         = "button[aria-label='Continue to next step']"
	selReview       = "button[aria-label='Review your application']"
	selError        = ".artdeco-inline-feedback__message"
	selUploadResume = "input[id*='jobs-document-upload-file-input-upload-resume']"
	selUploadCover  = "input[id*='jobs-document-upload-file-input-upload-cover-letter']"
	selGrouping     = ".jobs-easy-apply-form-section__grouping"
	selTextInput    = ".artdeco-text-input--input"
	selMultiInput   = "[id*='text-entity-list-form-component']"
	selDismiss      = "button[aria-label='Dismiss']"
)

// easyApplyText distinguishes the in-page wizard button from off-site apply
// buttons that share the same class.
const easyApplyText = "Easy Apply"

// phoneFieldMarker identifies the phone number grouping by its label text
const phoneFieldMarker = "Mobile phone number"

// uploadKinds maps configured document kinds to their upload controls, in
// the order they are tried each iteration.
var uploadKinds = []struct {
	Kind     string
	Selector string
}{
	{Kind: "resume", Selector: selUploadResume},
	{Kind: "cover_letter", Selector: selUploadCover},
}
