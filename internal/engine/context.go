// internal/engine/context.go
package engine

import "insurance-intake/internal/models"

// Snapshot builds the collected-information view handed to the reply
// generator: every non-nil applicant field plus the vehicle count when
// at least one vehicle exists. Pure; identical records yield identical
// snapshots.
func Snapshot(conv *models.Conversation) map[string]interface{} {
	ctx := make(map[string]interface{})

	if conv.ZipCode != nil {
		ctx["zip_code"] = *conv.ZipCode
	}
	if conv.FullName != nil {
		ctx["full_name"] = *conv.FullName
	}
	if conv.Email != nil {
		ctx["email"] = *conv.Email
	}
	if conv.LicenseType != nil {
		ctx["license_type"] = string(*conv.LicenseType)
	}
	if conv.LicenseStatus != nil {
		ctx["license_status"] = string(*conv.LicenseStatus)
	}
	if n := len(conv.Vehicles); n > 0 {
		ctx["vehicles_count"] = n
	}

	return ctx
}
