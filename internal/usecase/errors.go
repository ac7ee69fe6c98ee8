package usecase

import "errors"

const (
	CodeLeadNotFound      = "LEAD_NOT_FOUND"
	CodeNoDraft           = "NO_DRAFT"
	CodeLeadHasNoEmail    = "LEAD_HAS_NO_EMAIL"
	CodeSlotsUnavailable  = "SLOTS_UNAVAILABLE"
	CodeMailNotConfigured = "MAIL_NOT_CONFIGURED"
	CodeMailFailed        = "MAIL_FAILED"
)

// DomainError is a request the session cannot honor (unknown lead, nothing to log...).
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a collaborator or infrastructure failure surfaced to the user.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code of a Domain/TechnicalError, or "" for anything else.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
