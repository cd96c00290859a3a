// internal/engine/mutate.go
package engine

import (
	"github.com/google/uuid"

	"insurance-intake/internal/models"
)

// Apply writes an accepted value to exactly one field of the applicant
// record or its open vehicle. Dispatch is on the value's variant, so a
// per-vehicle value can never land on the applicant and vice versa.
// EntryChoice and the inline DecodedVehicle also append the new vehicle
// the rest of the loop will fill in.
func Apply(conv *models.Conversation, state models.State, value Value) {
	switch v := value.(type) {
	case ZipCode:
		conv.ZipCode = strPtr(string(v))

	case FullName:
		conv.FullName = strPtr(string(v))

	case EmailAddr:
		conv.Email = strPtr(string(v))

	case EntryChoice:
		appendVehicle(conv)

	case DecodedVehicle:
		veh := conv.OpenVehicle()
		if state == models.StateVehicleChoice {
			// Inline shortcut: the vehicle doesn't exist yet.
			veh = appendVehicle(conv)
		}
		if veh == nil {
			return
		}
		veh.VIN = strPtr(v.VIN)
		veh.Year = v.Year
		if v.Make != "" {
			veh.Make = strPtr(v.Make)
		}
		if v.BodyClass != "" {
			veh.BodyType = strPtr(v.BodyClass)
		}

	case Year:
		if veh := conv.OpenVehicle(); veh != nil {
			year := int(v)
			veh.Year = &year
		}

	case MakeName:
		if veh := conv.OpenVehicle(); veh != nil {
			veh.Make = strPtr(string(v))
		}

	case BodyType:
		if veh := conv.OpenVehicle(); veh != nil {
			veh.BodyType = strPtr(string(v))
		}

	case Use:
		if veh := conv.OpenVehicle(); veh != nil {
			use := models.VehicleUse(v)
			veh.Use = &use
		}

	case BlindSpot:
		if veh := conv.OpenVehicle(); veh != nil {
			b := bool(v)
			veh.BlindSpotWarning = &b
		}

	case CommuteDays:
		if veh := conv.OpenVehicle(); veh != nil {
			days := int(v)
			veh.DaysPerWeek = &days
		}

	case CommuteMiles:
		if veh := conv.OpenVehicle(); veh != nil {
			miles := int(v)
			veh.OneWayMiles = &miles
		}

	case AnnualMileage:
		if veh := conv.OpenVehicle(); veh != nil {
			mileage := int(v)
			veh.AnnualMileage = &mileage
		}

	case License:
		lt := models.LicenseType(v)
		conv.LicenseType = &lt

	case LicenseStanding:
		ls := models.LicenseStatus(v)
		conv.LicenseStatus = &ls

	case AddAnother, FreeText:
		// Flow control only, nothing to record.
	}
}

func appendVehicle(conv *models.Conversation) *models.Vehicle {
	veh := &models.Vehicle{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Position:       len(conv.Vehicles) + 1,
	}
	conv.Vehicles = append(conv.Vehicles, veh)
	return veh
}

func strPtr(s string) *string {
	return &s
}
