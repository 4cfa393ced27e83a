package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dialaride/reports-service/internal/model"
	"github.com/dialaride/reports-service/internal/report"
)

func TestGenerateWorkbook(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	yes := true

	result := &report.Result{
		Start: day,
		End:   day,
		Vehicles: []report.VehicleTotal{{
			Vehicle: model.Vehicle{ID: uuid.New(), Name: "Bus 7"},
			Summary: report.Summary{
				ServiceMiles: 100, DeadheadMiles: 40, TotalMiles: 140,
				ServiceHours: 9, DeadheadHours: 3, TotalHours: 12,
				PassengerMiles: 60, Fuel: 7.5, CashCents: 250,
				TripCounts: map[string]int{"medical": 2},
			},
		}},
		Drivers: []report.DriverTotal{{
			Driver:  model.Driver{ID: uuid.New(), Name: "Pat Avery"},
			Summary: report.Summary{ServiceMiles: 100},
		}},
		AllVehicles: report.Summary{ServiceMiles: 100},
		Riders: []report.Rider{{
			Name: "Jane Doe", TripCount: 2, Elderly: &yes,
			TotalFaresCents: 500, TotalOwedCents: 250,
		}},
		Errors: []report.LogError{{
			Date: day, Code: report.ErrShiftParse,
			Message: "shift for Pat Avery / Bus 7 has an unreadable log field",
		}},
	}

	content, err := NewGenerator().Generate(result)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.ElementsMatch(t, []string{"Summary", "Riders", "Errors"}, file.GetSheetList())

	name, err := file.GetCellValue("Riders", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)

	owed, err := file.GetCellValue("Riders", "K2")
	require.NoError(t, err)
	assert.Equal(t, "2.50", owed)
}
