package interfaces

// AnswerResolver maps a live question's text to an answer. The second return
// is false when the question is unresolved, in which case the caller enters
// no input and relies on the step's validation-error recovery.
type AnswerResolver interface {
	Resolve(question string) (answer string, ok bool)
}
