// internal/models/state.go
package models

// State identifies the question the conversation is currently asking.
// The flow is linear with a vehicle loop; see engine.Next for the
// transition rules.
type State string

const (
	StateZipCode           State = "zip_code"
	StateFullName          State = "full_name"
	StateEmail             State = "email"
	StateVehicleChoice     State = "vehicle_choice"
	StateVehicleVIN        State = "vehicle_vin"
	StateVehicleYear       State = "vehicle_year"
	StateVehicleMake       State = "vehicle_make"
	StateVehicleBody       State = "vehicle_body"
	StateVehicleUse        State = "vehicle_use"
	StateBlindSpotWarning  State = "blind_spot_warning"
	StateCommuteDays       State = "commute_days"
	StateCommuteMiles      State = "commute_miles"
	StateAnnualMileage     State = "annual_mileage"
	StateAddAnotherVehicle State = "add_another_vehicle"
	StateLicenseType       State = "license_type"
	StateLicenseStatus     State = "license_status"
	StateComplete          State = "complete"
)

// Terminal reports whether the machine halts in this state.
func (s State) Terminal() bool {
	return s == StateComplete
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateZipCode, StateFullName, StateEmail, StateVehicleChoice,
		StateVehicleVIN, StateVehicleYear, StateVehicleMake, StateVehicleBody,
		StateVehicleUse, StateBlindSpotWarning, StateCommuteDays,
		StateCommuteMiles, StateAnnualMileage, StateAddAnotherVehicle,
		StateLicenseType, StateLicenseStatus, StateComplete:
		return true
	}
	return false
}
