// internal/serialport/list.go
package serialport

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// Info describes one serial port visible to the host.
type Info struct {
	Name         string
	USB          bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

func (i Info) String() string {
	if !i.USB {
		return i.Name
	}
	s := fmt.Sprintf("%s usb=%s:%s", i.Name, i.VID, i.PID)
	if i.Product != "" {
		s += " product=" + i.Product
	}
	if i.SerialNumber != "" {
		s += " serial=" + i.SerialNumber
	}
	return s
}

// List enumerates serial ports, to help pick the desk's device path.
func List() ([]Info, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("serialport: enumerate: %w", err)
	}

	out := make([]Info, 0, len(ports))
	for _, p := range ports {
		out = append(out, Info{
			Name:         p.Name,
			USB:          p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		})
	}
	return out, nil
}
