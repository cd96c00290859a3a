// internal/engine/value.go
package engine

import "insurance-intake/internal/models"

// Value is the typed result of validating one turn of user input. Each
// state extracts its own variant, so the transition function and the
// mutator can dispatch on the payload instead of re-parsing text.
//
// The set of implementations is closed: isValue is unexported.
type Value interface {
	isValue()
}

// EntryMode is how the user chose to describe a vehicle.
type EntryMode int

const (
	EntryVIN EntryMode = iota
	EntryManual
)

type (
	// ZipCode is an extracted 5-digit ZIP.
	ZipCode string

	// FullName is the applicant's name, taken verbatim.
	FullName string

	// EmailAddr is a lower-cased email address.
	EmailAddr string

	// EntryChoice selects VIN or manual vehicle entry.
	EntryChoice EntryMode

	// DecodedVehicle carries lookup results for an accepted VIN,
	// either from the inline shortcut or the dedicated VIN state.
	DecodedVehicle struct {
		VIN       string
		Year      *int
		Make      string
		Model     string
		BodyClass string
	}

	// Year is an accepted model year.
	Year int

	// MakeName is a title-cased, plausibility-checked vehicle make.
	MakeName string

	// BodyType is a title-cased body style.
	BodyType string

	// Use is the accepted vehicle usage category.
	Use models.VehicleUse

	// BlindSpot is a yes/no answer about blind spot warning equipment.
	BlindSpot bool

	// CommuteDays is days per week driven to work, 1 through 7.
	CommuteDays int

	// CommuteMiles is the one-way commute distance.
	CommuteMiles int

	// AnnualMileage is the estimated yearly mileage.
	AnnualMileage int

	// AddAnother is the answer to the add-another-vehicle question.
	AddAnother bool

	// License is the accepted license type.
	License models.LicenseType

	// LicenseStanding is the accepted license status.
	LicenseStanding models.LicenseStatus

	// FreeText is input accepted verbatim by states without a
	// dedicated validator.
	FreeText string
)

func (ZipCode) isValue()         {}
func (FullName) isValue()        {}
func (EmailAddr) isValue()       {}
func (EntryChoice) isValue()     {}
func (DecodedVehicle) isValue()  {}
func (Year) isValue()            {}
func (MakeName) isValue()        {}
func (BodyType) isValue()        {}
func (Use) isValue()             {}
func (BlindSpot) isValue()       {}
func (CommuteDays) isValue()     {}
func (CommuteMiles) isValue()    {}
func (AnnualMileage) isValue()   {}
func (AddAnother) isValue()      {}
func (License) isValue()         {}
func (LicenseStanding) isValue() {}
func (FreeText) isValue()        {}
