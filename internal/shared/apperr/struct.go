package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // safe to show to the admin
	Fields    map[string]string // optional form field errors
	Err       error             // internal cause, logged only
}
