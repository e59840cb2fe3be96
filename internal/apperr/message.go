package apperr

import "errors"

// Message pairs a user-facing text with the underlying cause.
type Message struct {
	Text string
	Err  error
}

func (m *Message) Error() string {
	if m.Err == nil {
		return m.Text
	}
	return m.Text + ": " + m.Err.Error()
}

func (m *Message) Unwrap() error { return m.Err }

// WithMessage attaches text to err.
func WithMessage(text string, err error) error {
	return &Message{Text: text, Err: err}
}

// MessageOf returns the text attached to err, or fallback.
func MessageOf(err error, fallback string) string {
	var m *Message
	if errors.As(err, &m) && m.Text != "" {
		return m.Text
	}
	return fallback
}
