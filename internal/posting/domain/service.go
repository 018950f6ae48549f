package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	"github.com/zinari/zinari/pkg/tenant"
)

// Flow names a posting automation flow; failure policies are keyed by it.
type Flow string

const (
	FlowInvoice       Flow = "invoice"
	FlowPayment       Flow = "payment"
	FlowPurchase      Flow = "purchase"
	FlowPayroll       Flow = "payroll"
	FlowSalaryPayment Flow = "salary_payment"
)

var (
	ErrDocumentNotFound = errors.New("document_not_found")
	ErrInvalidMethod    = errors.New("invalid_payment_method")
	ErrNotReceived      = errors.New("purchase_order_not_received")
)

// AccountResolutionError reports that no account matched the configured
// prefix for a posting role.
type AccountResolutionError struct {
	Role   string
	Prefix string
}

func (e *AccountResolutionError) Error() string {
	return fmt.Sprintf("account_resolution_failed: no %s account with prefix %s", e.Role, e.Prefix)
}

// Service turns business documents into balanced ledger entries. Entries are
// created directly as VALIDATED. When a flow's failure policy is "log", a
// resolution failure is logged and (nil, nil) is returned instead of an error.
type Service interface {
	PostInvoice(ctx context.Context, tc tenant.Context, invoiceID snowflake.ID) (*ledgerdomain.Entry, error)
	PostPayment(ctx context.Context, tc tenant.Context, paymentID snowflake.ID) (*ledgerdomain.Entry, error)
	PostPurchaseBill(ctx context.Context, tc tenant.Context, orderID snowflake.ID) (*ledgerdomain.Entry, error)
	PostPayroll(ctx context.Context, tc tenant.Context, payslipID snowflake.ID) (*ledgerdomain.Entry, error)
	PostSalaryPayment(ctx context.Context, tc tenant.Context, payslipID snowflake.ID, method PaymentMethod, date time.Time) (*ledgerdomain.Entry, error)
}
