// internal/engine/flow_test.go
package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-intake/internal/models"
	"insurance-intake/internal/services/vehicledata"
)

// Drives whole conversations through the orchestrator and asserts the
// record that comes out the other end.

func runTurns(t *testing.T, rig *testRig, conv *models.Conversation, turns []string) {
	t.Helper()
	for _, input := range turns {
		_, err := rig.engine.ProcessMessage(context.Background(), conv, input)
		require.NoError(t, err, "turn %q", input)
	}
}

func TestFlow_ManualEntryCommutingVehicle(t *testing.T) {
	rig := newTestRig(t)
	conv := conversationIn(models.StateZipCode)

	runTurns(t, rig, conv, []string{
		"90210",
		"Ada Lovelace",
		"ada@example.com",
		"I'll enter it manually",
		"2015",
		"Toyota",
		"sedan",
		"commuting",
		"yes it does",
		"5 days",
		"12 miles",
		"no, that's all",
		"personal",
		"valid",
	})

	assert.Equal(t, models.StateComplete, conv.CurrentState)
	assert.Equal(t, "ada@example.com", *conv.Email)
	assert.Equal(t, models.LicensePersonal, *conv.LicenseType)
	assert.Equal(t, models.LicenseValid, *conv.LicenseStatus)

	require.Len(t, conv.Vehicles, 1)
	veh := conv.Vehicles[0]
	assert.Equal(t, 2015, *veh.Year)
	assert.Equal(t, "Toyota", *veh.Make)
	assert.Equal(t, "Sedan", *veh.BodyType)
	assert.Equal(t, models.UseCommuting, *veh.Use)
	assert.True(t, *veh.BlindSpotWarning)
	assert.Equal(t, 5, *veh.DaysPerWeek)
	assert.Equal(t, 12, *veh.OneWayMiles)
	// Commuting vehicles never collect annual mileage.
	assert.Nil(t, veh.AnnualMileage)
}

func TestFlow_InlineVINShortcutBusinessVehicle(t *testing.T) {
	rig := newTestRig(t)
	rig.lookup.decode = &vehicledata.DecodeResult{
		Valid:     true,
		Make:      "HONDA",
		Model:     "Accord",
		Year:      intPtr(2003),
		BodyClass: "Sedan",
	}
	conv := conversationIn(models.StateZipCode)

	var statesSeen []models.State
	for _, input := range []string{
		"90210",
		"Ada Lovelace",
		"ada@example.com",
		testVIN,
		"business",
		"no",
		"12,000",
		"done",
		"commercial",
		"suspended",
	} {
		_, err := rig.engine.ProcessMessage(context.Background(), conv, input)
		require.NoError(t, err)
		statesSeen = append(statesSeen, conv.CurrentState)
	}

	assert.Equal(t, models.StateComplete, conv.CurrentState)
	// The shortcut never visits the manual-entry states.
	for _, seen := range statesSeen {
		assert.NotContains(t, []models.State{
			models.StateVehicleVIN, models.StateVehicleYear,
			models.StateVehicleMake, models.StateVehicleBody,
		}, seen)
	}

	require.Len(t, conv.Vehicles, 1)
	veh := conv.Vehicles[0]
	assert.Equal(t, testVIN, *veh.VIN)
	assert.Equal(t, "HONDA", *veh.Make)
	assert.Equal(t, "Sedan", *veh.BodyType)
	assert.Equal(t, 2003, *veh.Year)
	assert.Equal(t, models.UseBusiness, *veh.Use)
	assert.Equal(t, 12000, *veh.AnnualMileage)
	// Non-commuting vehicles never collect commute fields.
	assert.Nil(t, veh.DaysPerWeek)
	assert.Nil(t, veh.OneWayMiles)
}

func TestFlow_AddAnotherVehicleLoop(t *testing.T) {
	rig := newTestRig(t)
	conv := conversationIn(models.StateZipCode)

	runTurns(t, rig, conv, []string{
		"90210", "Ada Lovelace", "ada@example.com",
		"manual entry", "2015", "Toyota", "sedan", "farming", "no", "8,000",
	})
	require.Len(t, conv.Vehicles, 1)
	assert.Equal(t, models.StateAddAnotherVehicle, conv.CurrentState)

	runTurns(t, rig, conv, []string{"yes, add another"})
	assert.Equal(t, models.StateVehicleChoice, conv.CurrentState)
	// Each loop iteration appends exactly one vehicle.
	require.Len(t, conv.Vehicles, 1)

	runTurns(t, rig, conv, []string{
		"manual", "2020", "Honda", "suv", "commercial", "yes", "15,000", "no",
	})
	require.Len(t, conv.Vehicles, 2)
	assert.Equal(t, models.StateLicenseType, conv.CurrentState)
	assert.Equal(t, 1, conv.Vehicles[0].Position)
	assert.Equal(t, 2, conv.Vehicles[1].Position)
	assert.Equal(t, "Toyota", *conv.Vehicles[0].Make)
	assert.Equal(t, "Honda", *conv.Vehicles[1].Make)
}

func TestFlow_ForeignLicenseShortcut(t *testing.T) {
	rig := newTestRig(t)
	conv := conversationIn(models.StateLicenseType)

	runTurns(t, rig, conv, []string{"foreign"})

	assert.Equal(t, models.StateComplete, conv.CurrentState)
	assert.Equal(t, models.LicenseForeign, *conv.LicenseType)
	// license_status was bypassed entirely.
	assert.Nil(t, conv.LicenseStatus)
	assert.Equal(t, []string{conv.ID}, rig.notifier.completed)
}

func TestFlow_RejectionsDoNotAdvance(t *testing.T) {
	rig := newTestRig(t)
	conv := conversationIn(models.StateZipCode)

	runTurns(t, rig, conv, []string{"hello", "no zip here", "ok it's 90210"})

	assert.Equal(t, models.StateFullName, conv.CurrentState)
	assert.Equal(t, "90210", *conv.ZipCode)
	assert.Equal(t, 1, rig.store.saves)
}
