package driving

import (
	"context"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// PortService lists the ports acquisition can open.
type PortService interface {
	// List returns virtual ports first, then serial devices by name.
	List(ctx context.Context) ([]domain.PortInfo, error)
}
