// internal/engine/validators.go
package engine

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	apperrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/models"
)

var (
	zipPattern   = regexp.MustCompile(`\b(\d{5})\b`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	vinPattern   = regexp.MustCompile(`\b([A-HJ-NPR-Z0-9]{17})\b`)
	yearPattern  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	daysPattern  = regexp.MustCompile(`\b([1-7])\b`)
	digitPattern = regexp.MustCompile(`\b(\d+)\b`)
)

const (
	minModelYear = 1900
	maxModelYear = 2026
)

var bodyVocabulary = []string{
	"sedan", "suv", "truck", "coupe", "hatchback",
	"van", "wagon", "convertible", "minivan", "pickup",
}

// Validate extracts a typed value from one turn of user input for the
// conversation's current state. A returned error is always a validation
// rejection; an empty reason means the question is silently re-asked.
// VIN and make states consult the lookup synchronously.
func Validate(ctx context.Context, lookup VehicleLookup, conv *models.Conversation, input string) (Value, error) {
	state := conv.CurrentState
	input = strings.TrimSpace(input)

	reject := func(reason string) (Value, error) {
		return nil, apperrors.NewValidationRejected(string(state), reason)
	}

	switch state {
	case models.StateZipCode:
		if m := zipPattern.FindStringSubmatch(input); m != nil {
			return ZipCode(m[1]), nil
		}
		return reject("Please provide a valid 5-digit ZIP code.")

	case models.StateFullName:
		if len(input) >= 2 {
			return FullName(input), nil
		}
		return reject("Please provide your full name.")

	case models.StateEmail:
		if m := emailPattern.FindString(input); m != "" {
			return EmailAddr(strings.ToLower(m)), nil
		}
		return reject("Please provide a valid email address.")

	case models.StateVehicleChoice:
		lower := strings.ToLower(input)
		if m := vinPattern.FindStringSubmatch(strings.ToUpper(input)); m != nil {
			// Inline VIN shortcut: decode immediately.
			return decodeVIN(ctx, lookup, state, m[1])
		}
		if strings.Contains(lower, "vin") {
			return EntryChoice(EntryVIN), nil
		}
		for _, word := range []string{"year", "make", "manual", "type", "other"} {
			if strings.Contains(lower, word) {
				return EntryChoice(EntryManual), nil
			}
		}
		// Silent re-ask: no guidance for the reply generator.
		return reject("")

	case models.StateVehicleVIN:
		if m := vinPattern.FindStringSubmatch(strings.ToUpper(input)); m != nil {
			return decodeVIN(ctx, lookup, state, m[1])
		}
		return reject("Please provide a valid 17-character VIN.")

	case models.StateVehicleYear:
		if m := yearPattern.FindStringSubmatch(input); m != nil {
			year, _ := strconv.Atoi(m[1])
			if year >= minModelYear && year <= maxModelYear {
				return Year(year), nil
			}
		}
		return reject("Please provide a valid vehicle year (e.g., 2020).")

	case models.StateVehicleMake:
		if len(input) < 2 {
			return reject("Please provide the vehicle make.")
		}
		year := 2020
		if v := conv.OpenVehicle(); v != nil && v.Year != nil {
			year = *v.Year
		}
		result := lookup.ValidateYearMake(ctx, year, input)
		if !result.Valid {
			if result.Error != "" {
				return reject(result.Error)
			}
			return reject("Invalid make.")
		}
		return MakeName(titleCase(input)), nil

	case models.StateVehicleBody:
		lower := strings.ToLower(input)
		for _, body := range bodyVocabulary {
			if strings.Contains(lower, body) {
				return BodyType(titleCase(body)), nil
			}
		}
		if len(input) >= 2 {
			return BodyType(titleCase(input)), nil
		}
		return reject("Please provide the body type (e.g., Sedan, SUV, Truck).")

	case models.StateVehicleUse:
		lower := strings.ToLower(input)
		switch {
		case strings.Contains(lower, "commut"):
			return Use(models.UseCommuting), nil
		case strings.Contains(lower, "commercial"):
			return Use(models.UseCommercial), nil
		case strings.Contains(lower, "farm"):
			return Use(models.UseFarming), nil
		case strings.Contains(lower, "business"):
			return Use(models.UseBusiness), nil
		}
		return reject("Please specify: Commuting, Commercial, Farming, or Business.")

	case models.StateBlindSpotWarning:
		lower := strings.ToLower(input)
		if containsAny(lower, "yes", "yeah", "yep", "have", "equipped", "does") {
			return BlindSpot(true), nil
		}
		if containsAny(lower, "no", "nope", "not", "don't", "doesn't") {
			return BlindSpot(false), nil
		}
		return reject("Please answer Yes or No.")

	case models.StateCommuteDays:
		if m := daysPattern.FindStringSubmatch(input); m != nil {
			days, _ := strconv.Atoi(m[1])
			return CommuteDays(days), nil
		}
		return reject("Please provide days per week (1-7).")

	case models.StateCommuteMiles:
		if m := digitPattern.FindStringSubmatch(input); m != nil {
			if miles, _ := strconv.Atoi(m[1]); miles > 0 {
				return CommuteMiles(miles), nil
			}
		}
		return reject("Please provide the one-way distance in miles.")

	case models.StateAnnualMileage:
		if m := digitPattern.FindStringSubmatch(strings.ReplaceAll(input, ",", "")); m != nil {
			if mileage, _ := strconv.Atoi(m[1]); mileage > 0 {
				return AnnualMileage(mileage), nil
			}
		}
		return reject("Please provide estimated annual mileage.")

	case models.StateAddAnotherVehicle:
		lower := strings.ToLower(input)
		if containsAny(lower, "yes", "yeah", "yep", "another", "add", "more") {
			return AddAnother(true), nil
		}
		if containsAny(lower, "no", "nope", "done", "that's all", "that's it") {
			return AddAnother(false), nil
		}
		return reject("Would you like to add another vehicle? (Yes/No)")

	case models.StateLicenseType:
		lower := strings.ToLower(input)
		switch {
		case strings.Contains(lower, "foreign"):
			return License(models.LicenseForeign), nil
		case strings.Contains(lower, "personal"):
			return License(models.LicensePersonal), nil
		case strings.Contains(lower, "commercial"), strings.Contains(lower, "cdl"):
			return License(models.LicenseCommercial), nil
		}
		return reject("Please specify: Foreign, Personal, or Commercial.")

	case models.StateLicenseStatus:
		lower := strings.ToLower(input)
		switch {
		case containsAny(lower, "valid", "active", "good"):
			return LicenseStanding(models.LicenseValid), nil
		case strings.Contains(lower, "suspend"):
			return LicenseStanding(models.LicenseSuspended), nil
		}
		return reject("Please specify: Valid or Suspended.")
	}

	// States without a dedicated validator accept text verbatim.
	return FreeText(input), nil
}

func decodeVIN(ctx context.Context, lookup VehicleLookup, state models.State, vin string) (Value, error) {
	result := lookup.DecodeVIN(ctx, vin)
	if !result.Valid {
		reason := result.Error
		if reason == "" {
			reason = "Invalid VIN."
		}
		return nil, apperrors.NewValidationRejected(string(state), reason)
	}
	return DecodedVehicle{
		VIN:       vin,
		Year:      result.Year,
		Make:      result.Make,
		Model:     result.Model,
		BodyClass: result.BodyClass,
	}, nil
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of every word and lower-cases
// the rest, treating any non-letter as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
