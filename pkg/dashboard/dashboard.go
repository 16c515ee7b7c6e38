// Package dashboard aggregates port errors across a layout for the monitoring
// summary: per-severity counts, a filtered error table and the worst severity
// of each rack.
package dashboard

import (
	"sort"

	"github.com/braunma/rackgrid/pkg/models"
)

// Item is one port in error
type Item struct {
	RackID     string
	RackLabel  string
	DeviceID   string
	DeviceName string
	PortID     string
	Severity   models.Severity
	Message    string
}

// Collect lists every port in error, in rack, device and port order.
// Ports marked as errors without a known severity are skipped.
func Collect(racks []*models.Rack) []Item {
	var items []Item
	for _, r := range racks {
		label := r.Label()
		for _, d := range r.Devices {
			for _, p := range d.PortStates {
				if !p.IsError() {
					continue
				}
				items = append(items, Item{
					RackID:     r.ID,
					RackLabel:  label,
					DeviceID:   d.ID,
					DeviceName: d.Name,
					PortID:     p.PortID,
					Severity:   p.ErrorLevel,
					Message:    p.ErrorMessage,
				})
			}
		}
	}
	return items
}

// Counts returns the number of items per severity. Every known severity has
// an entry, zero included.
func Counts(items []Item) map[models.Severity]int {
	counts := make(map[models.Severity]int, 4)
	for _, sev := range models.AllSeverities() {
		counts[sev] = 0
	}
	for _, it := range items {
		counts[it.Severity]++
	}
	return counts
}

// Filter returns the items of one severity. An empty severity keeps everything.
func Filter(items []Item, sev models.Severity) []Item {
	if sev == "" {
		return items
	}
	var out []Item
	for _, it := range items {
		if it.Severity == sev {
			out = append(out, it)
		}
	}
	return out
}

// WorstByRack returns the highest severity seen in each rack that has errors
func WorstByRack(items []Item) map[string]models.Severity {
	worst := make(map[string]models.Severity)
	for _, it := range items {
		if it.Severity.Rank() > worst[it.RackID].Rank() {
			worst[it.RackID] = it.Severity
		}
	}
	return worst
}

// SortBySeverity orders items from most to least severe, keeping the
// collection order within a severity
func SortBySeverity(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Severity.Rank() > items[j].Severity.Rank()
	})
}
