package contracts

import (
	"context"
	"medibook-service/internal/app/models"
)

// ActivityNotifier is fire-and-forget: callers never observe delivery failures.
type ActivityNotifier interface {
	Notify(ctx context.Context, activity *models.Activity)
}
