package services

import (
	"context"
	"errors"
	"sort"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
	"github.com/custodia-labs/serplot/internal/core/ports/driving"
	"github.com/custodia-labs/serplot/internal/logger"
)

// Ensure PortService implements the interface.
var _ driving.PortService = (*PortService)(nil)

// PortService merges the ports reported by several enumerators.
type PortService struct {
	enumerators []driven.PortEnumerator
}

// NewPortService creates a port service over the given enumerators.
// Nil enumerators are skipped.
func NewPortService(enumerators ...driven.PortEnumerator) *PortService {
	s := &PortService{}
	for _, e := range enumerators {
		if e != nil {
			s.enumerators = append(s.enumerators, e)
		}
	}
	return s
}

// List returns every port once, virtual ports first, then serial devices
// sorted by identifier. A failing enumerator is logged and skipped; List
// only fails when every enumerator does.
func (s *PortService) List(ctx context.Context) ([]domain.PortInfo, error) {
	seen := make(map[string]bool)
	var ports []domain.PortInfo
	var errs []error

	for _, e := range s.enumerators {
		found, err := e.ListPorts(ctx)
		if err != nil {
			logger.Warn("ports: enumeration failed: %v", err)
			errs = append(errs, err)
			continue
		}
		for _, p := range found {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			ports = append(ports, p)
		}
	}

	if len(errs) > 0 && len(errs) == len(s.enumerators) {
		return nil, errors.Join(errs...)
	}

	sort.SliceStable(ports, func(i, j int) bool {
		ri, rj := kindRank(ports[i].Kind), kindRank(ports[j].Kind)
		if ri != rj {
			return ri < rj
		}
		return ports[i].ID < ports[j].ID
	})
	return ports, nil
}

func kindRank(k domain.PortKind) int {
	switch k {
	case domain.PortKindSynthetic:
		return 0
	case domain.PortKindStdin:
		return 1
	case domain.PortKindFile:
		return 2
	default:
		return 3
	}
}
