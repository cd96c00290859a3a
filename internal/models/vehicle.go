// internal/models/vehicle.go
package models

// VehicleUse is how the applicant uses a vehicle. Commuting vehicles get
// days-per-week and one-way miles; every other use gets annual mileage.
type VehicleUse string

const (
	UseCommuting  VehicleUse = "commuting"
	UseCommercial VehicleUse = "commercial"
	UseFarming    VehicleUse = "farming"
	UseBusiness   VehicleUse = "business"
)

// Vehicle is one vehicle on the application. A record is appended when
// the conversation enters vehicle_choice and filled in field by field;
// Position preserves append order.
type Vehicle struct {
	ID               string      `json:"id" db:"id"`
	ConversationID   string      `json:"conversationId" db:"conversation_id"`
	Position         int         `json:"position" db:"position"`
	VIN              *string     `json:"vin,omitempty" db:"vin"`
	Year             *int        `json:"year,omitempty" db:"year"`
	Make             *string     `json:"make,omitempty" db:"make"`
	BodyType         *string     `json:"bodyType,omitempty" db:"body_type"`
	Use              *VehicleUse `json:"vehicleUse,omitempty" db:"vehicle_use"`
	BlindSpotWarning *bool       `json:"blindSpotWarning,omitempty" db:"blind_spot_warning"`
	DaysPerWeek      *int        `json:"daysPerWeek,omitempty" db:"days_per_week"`
	OneWayMiles      *int        `json:"oneWayMiles,omitempty" db:"one_way_miles"`
	AnnualMileage    *int        `json:"annualMileage,omitempty" db:"annual_mileage"`
}

// IsCommuting reports whether the vehicle's accepted use is commuting.
func (v *Vehicle) IsCommuting() bool {
	return v.Use != nil && *v.Use == UseCommuting
}
