// internal/models/conversation.go
package models

import "time"

// LicenseType is the applicant's US license classification.
type LicenseType string

const (
	LicenseForeign    LicenseType = "foreign"
	LicensePersonal   LicenseType = "personal"
	LicenseCommercial LicenseType = "commercial"
)

// LicenseStatus is the standing of the applicant's license.
type LicenseStatus string

const (
	LicenseValid     LicenseStatus = "valid"
	LicenseSuspended LicenseStatus = "suspended"
)

// Conversation is the applicant record plus its machine position. Fields
// are pointers until the corresponding state has accepted an answer.
type Conversation struct {
	ID            string         `json:"id" db:"id"`
	ZipCode       *string        `json:"zipCode,omitempty" db:"zip_code"`
	FullName      *string        `json:"fullName,omitempty" db:"full_name"`
	Email         *string        `json:"email,omitempty" db:"email"`
	LicenseType   *LicenseType   `json:"licenseType,omitempty" db:"license_type"`
	LicenseStatus *LicenseStatus `json:"licenseStatus,omitempty" db:"license_status"`
	CurrentState  State          `json:"currentState" db:"current_state"`
	Vehicles      []*Vehicle     `json:"vehicles"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// OpenVehicle returns the vehicle currently being configured: the most
// recently appended entry. Nil before the first vehicle exists.
func (c *Conversation) OpenVehicle() *Vehicle {
	if len(c.Vehicles) == 0 {
		return nil
	}
	return c.Vehicles[len(c.Vehicles)-1]
}
