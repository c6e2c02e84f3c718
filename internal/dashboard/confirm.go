package dashboard

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm answers yes to every prompt. Used where the caller has already
// confirmed out of band, such as a --yes flag or a confirm=true query.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// NeverConfirm answers no to every prompt.
var NeverConfirm Confirmer = ConfirmFunc(func(string) bool { return false })
