package serialport

import (
	"context"
	"fmt"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
	"github.com/custodia-labs/serplot/internal/logger"
)

// Enumerator lists serial devices.
type Enumerator struct {
	detailed func() ([]*enumerator.PortDetails, error)
	basic    func() ([]string, error)
}

var _ driven.PortEnumerator = (*Enumerator)(nil)

// NewEnumerator creates an enumerator over the system's serial devices.
func NewEnumerator() *Enumerator {
	return &Enumerator{
		detailed: enumerator.GetDetailedPortsList,
		basic:    serial.GetPortsList,
	}
}

// ListPorts returns the attached devices. USB devices are labelled with
// their product name and VID:PID. When detailed enumeration is unavailable
// the plain device list is used instead.
func (e *Enumerator) ListPorts(_ context.Context) ([]domain.PortInfo, error) {
	details, err := e.detailed()
	if err == nil {
		ports := make([]domain.PortInfo, 0, len(details))
		for _, d := range details {
			ports = append(ports, domain.PortInfo{
				ID:    d.Name,
				Label: label(d),
				Kind:  domain.PortKindSerial,
			})
		}
		return ports, nil
	}
	logger.Debug("serialport: detailed enumeration failed, falling back: %v", err)

	names, err := e.basic()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	ports := make([]domain.PortInfo, 0, len(names))
	for _, name := range names {
		ports = append(ports, domain.PortInfo{ID: name, Label: name, Kind: domain.PortKindSerial})
	}
	return ports, nil
}

func label(d *enumerator.PortDetails) string {
	if !d.IsUSB {
		return d.Name
	}

	var parts []string
	if d.Product != "" {
		parts = append(parts, d.Product)
	}
	parts = append(parts, fmt.Sprintf("USB %s:%s", strings.ToLower(d.VID), strings.ToLower(d.PID)))
	if d.SerialNumber != "" {
		parts = append(parts, "SN "+d.SerialNumber)
	}
	return strings.Join(parts, ", ")
}
