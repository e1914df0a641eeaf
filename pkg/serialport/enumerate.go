package serialport

import (
	"bytes"
	"fmt"
	"sort"

	"go.bug.st/serial/enumerator"
)

var detailedPortsList = enumerator.GetDetailedPortsList

// ListPorts enumerates serial ports on this host, sorted by name.
func ListPorts() ([]*enumerator.PortDetails, error) {
	ports, err := detailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	sort.Slice(ports, func(i, j int) bool {
		return ports[i].Name < ports[j].Name
	})
	return ports, nil
}

// FormatPort prints PortDetails into friendly string for display.
func FormatPort(d *enumerator.PortDetails) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", d.Name)
	if d.IsUSB {
		fmt.Fprintf(&w, ": USB %s:%s", d.VID, d.PID)
		if d.Product != "" {
			fmt.Fprintf(&w, " %s", d.Product)
		}
		if d.SerialNumber != "" {
			fmt.Fprintf(&w, " (serial %s)", d.SerialNumber)
		}
	}
	return w.String()
}
