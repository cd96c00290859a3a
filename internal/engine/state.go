// internal/engine/state.go
package engine

import "insurance-intake/internal/models"

// Next maps (current state, accepted value, record) to the next state.
// Pure: it inspects the value and record but mutates nothing. Branches:
// the inline-VIN shortcut, the commuting split, the add-another loop,
// and the foreign-license shortcut.
func Next(state models.State, value Value, conv *models.Conversation) models.State {
	switch state {
	case models.StateZipCode:
		return models.StateFullName

	case models.StateFullName:
		return models.StateEmail

	case models.StateEmail:
		return models.StateVehicleChoice

	case models.StateVehicleChoice:
		switch v := value.(type) {
		case DecodedVehicle:
			// Inline VIN shortcut skips all manual-entry states.
			return models.StateVehicleUse
		case EntryChoice:
			if EntryMode(v) == EntryVIN {
				return models.StateVehicleVIN
			}
		}
		return models.StateVehicleYear

	case models.StateVehicleVIN:
		return models.StateVehicleUse

	case models.StateVehicleYear:
		return models.StateVehicleMake

	case models.StateVehicleMake:
		return models.StateVehicleBody

	case models.StateVehicleBody:
		return models.StateVehicleUse

	case models.StateVehicleUse:
		return models.StateBlindSpotWarning

	case models.StateBlindSpotWarning:
		if v := conv.OpenVehicle(); v != nil && v.IsCommuting() {
			return models.StateCommuteDays
		}
		return models.StateAnnualMileage

	case models.StateCommuteDays:
		return models.StateCommuteMiles

	case models.StateCommuteMiles, models.StateAnnualMileage:
		return models.StateAddAnotherVehicle

	case models.StateAddAnotherVehicle:
		if v, ok := value.(AddAnother); ok && bool(v) {
			return models.StateVehicleChoice
		}
		return models.StateLicenseType

	case models.StateLicenseType:
		if v, ok := value.(License); ok && models.LicenseType(v) == models.LicenseForeign {
			return models.StateComplete
		}
		return models.StateLicenseStatus

	case models.StateLicenseStatus:
		return models.StateComplete
	}

	return state
}
