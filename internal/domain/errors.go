package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError by code and message so wrapped sentinels
// still compare equal after NewDomainErrorWithCause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnavailable      = "UNAVAILABLE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrMissingRequiredField   = NewDomainError(ErrCodeValidation, "missing required field")
	ErrMissingPrompt          = NewDomainError(ErrCodeValidation, "missing prompt")
	ErrDescriptionTooLong     = NewDomainError(ErrCodeValidation, "homework description exceeds 200 characters")
	ErrInvalidAnswerLetter    = NewDomainError(ErrCodeValidation, "answer must be one of A, B, C or D")
	ErrInvalidQuestion        = NewDomainError(ErrCodeValidation, "question must have four options and an answer letter")
	ErrInvalidTopicTable      = NewDomainError(ErrCodeValidation, "topic table must not be empty")
	ErrUnsupportedSourceURI   = NewDomainError(ErrCodeValidation, "unsupported knowledge source uri")
	ErrInvalidTimesTableRange = NewDomainError(ErrCodeValidation, "times table must be between 1 and 12")
	ErrMissingQuestionID      = NewDomainError(ErrCodeValidation, "missing questionId")
)

// Not found errors
var (
	ErrSessionNotFound  = NewDomainError(ErrCodeNotFound, "session not found")
	ErrSubjectNotFound  = NewDomainError(ErrCodeNotFound, "subject not found")
	ErrSourceNotFound   = NewDomainError(ErrCodeNotFound, "knowledge source not found")
	ErrEmbeddingMissing = NewDomainError(ErrCodeNotFound, "embedding not cached")
	ErrNoQuizQuestions  = NewDomainError(ErrCodeNotFound, "no quiz questions found")
)

// Operation errors
var (
	ErrNoActiveQuiz      = NewDomainError(ErrCodeInvalidOperation, "no quiz in progress")
	ErrQuestionAnswered  = NewDomainError(ErrCodeInvalidOperation, "question already answered")
	ErrQuizComplete      = NewDomainError(ErrCodeInvalidOperation, "quiz already complete")
	ErrQuestionPending   = NewDomainError(ErrCodeInvalidOperation, "answer the current question first")
	ErrSemanticIndexOff  = NewDomainError(ErrCodeInvalidOperation, "semantic search is not configured")
	ErrModelNotAvailable = NewDomainError(ErrCodeUnavailable, "language model unavailable")
	ErrQuizGeneration    = NewDomainError(ErrCodeUnavailable, "could not generate quiz questions")
)

// Infrastructure errors
var (
	ErrStorageOperationFail = NewDomainError(ErrCodeInternalError, "storage operation failed")
	ErrSourceFetchFailed    = NewDomainError(ErrCodeUnavailable, "knowledge source fetch failed")
)
