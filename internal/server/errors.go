package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	partydomain "github.com/zinari/zinari/internal/party/domain"
	postingdomain "github.com/zinari/zinari/internal/posting/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Reasons []string          `json:"reasons,omitempty"`
	Debit   string            `json:"debit,omitempty"`
	Credit  string            `json:"credit,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var unbalanced *ledgerdomain.UnbalancedEntryError
	if errors.As(err, &unbalanced) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unbalanced_entry",
			Message: "entry debits and credits do not balance",
			Debit:   unbalanced.Debit.StringFixed(2),
			Credit:  unbalanced.Credit.StringFixed(2),
		}
	}

	var failed *ledgerdomain.ValidationFailedError
	if errors.As(err, &failed) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "validation_failed",
			Message: "entry failed validation",
			Reasons: failed.Reasons,
		}
	}

	var resolution *postingdomain.AccountResolutionError
	if errors.As(err, &resolution) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "account_resolution_failed",
			Message: resolution.Error(),
		}
	}

	switch {
	case isValidationError(err):
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    err.Error(),
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, companydomain.ErrInvalidCompany),
		errors.Is(err, companydomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidAccountClass),
		errors.Is(err, accountdomain.ErrInvalidCode),
		errors.Is(err, accountdomain.ErrInvalidLabel),
		errors.Is(err, journaldomain.ErrInvalidCode),
		errors.Is(err, journaldomain.ErrInvalidType),
		errors.Is(err, journaldomain.ErrInvalidPeriod),
		errors.Is(err, partydomain.ErrInvalidKind),
		errors.Is(err, partydomain.ErrInvalidName),
		errors.Is(err, ledgerdomain.ErrInvalidLines),
		errors.Is(err, ledgerdomain.ErrInvalidCurrency),
		errors.Is(err, ledgerdomain.ErrInvalidEntryDate),
		errors.Is(err, postingdomain.ErrInvalidMethod),
		errors.Is(err, auditdomain.ErrInvalidAction):
		return true
	default:
		return false
	}
}

// Conflicts cover state-machine violations and period/scope violations: the
// request was well-formed but the current state forbids it.
func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ledgerdomain.ErrValidatedImmutable),
		errors.Is(err, ledgerdomain.ErrInvalidEntryStatus),
		errors.Is(err, ledgerdomain.ErrClosedPeriod),
		errors.Is(err, ledgerdomain.ErrOutOfPeriod),
		errors.Is(err, ledgerdomain.ErrInvalidFiscalYear),
		errors.Is(err, ledgerdomain.ErrNotTrashed),
		errors.Is(err, journaldomain.ErrAlreadyClosed),
		errors.Is(err, journaldomain.ErrCodeExists),
		errors.Is(err, accountdomain.ErrCodeExists),
		errors.Is(err, accountdomain.ErrReferenced),
		errors.Is(err, postingdomain.ErrNotReceived):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, journaldomain.ErrJournalNotFound),
		errors.Is(err, journaldomain.ErrFiscalYearNotFound),
		errors.Is(err, partydomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrEntryNotFound),
		errors.Is(err, postingdomain.ErrDocumentNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
