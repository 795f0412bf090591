package port

import (
	"context"

	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

// NotificationDispatcher sends a lifecycle email for an invoice. The whether
// to send decision is made by the caller; implementations only deliver.
type NotificationDispatcher interface {
	Send(ctx context.Context, kind lifecycle.NotificationKind, invoice *entity.Invoice, recipient string) error
}
