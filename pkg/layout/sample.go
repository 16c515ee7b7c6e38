package layout

import (
	"fmt"
	"math/rand/v2"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/models"
)

var sampleHeights = []int{constants.RackHeight24, constants.RackHeight32, constants.RackHeight48}

// SampleRacks builds the demo layout: two rows of ten South-facing racks with
// up to five template devices each, separated by a free unit, and a random
// port error on roughly a third of the devices.
func SampleRacks(rng *rand.Rand, templates []models.DeviceTemplate, newID func() string) []*models.Rack {
	racks := make([]*models.Rack, 0, constants.SampleRackCount)

	for i := 0; i < constants.SampleRackCount; i++ {
		row := i / constants.SampleColumns
		col := i % constants.SampleColumns
		uHeight := sampleHeights[i%len(sampleHeights)]

		devices := []*models.Device{}
		uPos := 1
		for d := 0; d < constants.SampleDevicesPerRack; d++ {
			fitting := models.FittingTemplates(templates, uHeight-uPos+1)
			if len(fitting) == 0 {
				break
			}
			tpl := fitting[rng.IntN(len(fitting))]

			ports := models.PortStates{}
			if rng.Float64() < constants.SampleErrorChance {
				severities := models.AllSeverities()
				ports = ports.Set(models.PortState{
					PortID:       fmt.Sprintf("p%d", rng.IntN(constants.SamplePortCount)+1),
					Status:       models.PortStatusError,
					ErrorLevel:   severities[rng.IntN(len(severities))],
					ErrorMessage: constants.SampleErrorMessage,
				})
			}

			devices = append(devices, &models.Device{
				ID:         newID(),
				Type:       tpl.Type,
				Name:       fmt.Sprintf("%s-%d-%d", tpl.Name, i, d),
				USize:      tpl.USize,
				UPosition:  uPos,
				ImageURL:   tpl.ImageURL,
				PortStates: ports,
			})
			uPos += tpl.USize + 1
		}

		racks = append(racks, &models.Rack{
			ID:      newID(),
			UHeight: uHeight,
			Position: models.GridPos{
				X: float64(col) * constants.SampleColumnSpacing,
				Z: float64(row) * constants.SampleRowSpacing,
			},
			Orientation: models.South,
			Devices:     devices,
		})
	}

	return racks
}

// LoadSample replaces the layout with the demo layout
func (s *Store) LoadSample(rng *rand.Rand, templates []models.DeviceTemplate) []*models.Rack {
	racks := SampleRacks(rng, templates, s.newID)
	s.Load(racks)
	return s.Racks()
}
