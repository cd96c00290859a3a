// internal/services/vehicledata/client_test.go
package vehicledata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-intake/internal/common/logger"
)

const testVIN = "1HGCM82633A004352"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t)), srv
}

func decodeResponse(errorCode, errorText, make, model, year, bodyClass string) string {
	return fmt.Sprintf(`{"Results":[{"ErrorCode":%q,"ErrorText":%q,"Make":%q,"Model":%q,"ModelYear":%q,"BodyClass":%q}]}`,
		errorCode, errorText, make, model, year, bodyClass)
}

func TestDecodeVIN_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/DecodeVinValues/"+testVIN, r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		fmt.Fprint(w, decodeResponse("0", "", "HONDA", "Accord", "2003", "Sedan"))
	})

	result := client.DecodeVIN(context.Background(), testVIN)

	assert.True(t, result.Valid)
	assert.Equal(t, testVIN, result.VIN)
	assert.Equal(t, "HONDA", result.Make)
	assert.Equal(t, "Accord", result.Model)
	assert.Equal(t, "Sedan", result.BodyClass)
	require.NotNil(t, result.Year)
	assert.Equal(t, 2003, *result.Year)
}

func TestDecodeVIN_ErrorCodeSevenAndAboveRejects(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, decodeResponse("7", "Manufacturer is not registered", "HONDA", "", "2003", ""))
	})

	result := client.DecodeVIN(context.Background(), testVIN)

	assert.False(t, result.Valid)
	assert.Equal(t, 7, result.ErrorCode)
	assert.Equal(t, "Invalid VIN: Manufacturer is not registered", result.Error)
}

func TestDecodeVIN_WarningCodesStillDecode(t *testing.T) {
	// Codes 1-6 are warnings, not failures.
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, decodeResponse("6", "Incomplete VIN", "HONDA", "Accord", "2003", "Sedan"))
	})

	result := client.DecodeVIN(context.Background(), testVIN)

	assert.True(t, result.Valid)
	assert.Equal(t, 6, result.ErrorCode)
}

func TestDecodeVIN_MissingMakeRejects(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, decodeResponse("0", "", "", "", "", ""))
	})

	result := client.DecodeVIN(context.Background(), testVIN)

	assert.False(t, result.Valid)
	assert.Equal(t, "Could not decode VIN. Please verify it's correct.", result.Error)
}

func TestDecodeVIN_SuspiciousMakeNeedsYear(t *testing.T) {
	tests := []struct {
		name  string
		make  string
		year  string
		valid bool
	}{
		{"suspicious make without year", "SHERMAN + REILLY", "", false},
		{"suspicious make with year", "SHERMAN + REILLY", "2003", true},
		{"plus sign in make without year", "FOO + BAR", "", false},
		{"incomplete without year", "INCOMPLETE", "", false},
		{"normal make without year", "HONDA", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, decodeResponse("0", "", tt.make, "", tt.year, ""))
			})

			result := client.DecodeVIN(context.Background(), testVIN)

			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Equal(t, "This VIN doesn't appear to be for a standard consumer vehicle.", result.Error)
			}
		})
	}
}

func TestDecodeVIN_ServiceFailureBlocks(t *testing.T) {
	// VIN decode failure is a blocking rejection, unlike the make check.
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	result := client.DecodeVIN(context.Background(), testVIN)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "Error verifying vehicle")
}

func TestDecodeVIN_EmptyResultsRejects(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"Results":[]}`)
	})

	result := client.DecodeVIN(context.Background(), testVIN)

	assert.False(t, result.Valid)
	assert.Equal(t, "Could not decode VIN. Please verify it's correct.", result.Error)
}

func TestValidateYearMake_CarMakeMatches(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GetMakesForVehicleType/car", r.URL.Path)
		fmt.Fprint(w, `{"Results":[{"MakeName":"TOYOTA"},{"MakeName":"HONDA"}]}`)
	})

	result := client.ValidateYearMake(context.Background(), 2015, "toyota")

	assert.True(t, result.Valid)
	assert.Empty(t, result.Error)
	assert.Empty(t, result.Warning)
}

func TestValidateYearMake_FallsBackToAllMakes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/GetMakesForVehicleType/car":
			fmt.Fprint(w, `{"Results":[{"MakeName":"TOYOTA"}]}`)
		case "/GetAllMakes":
			fmt.Fprint(w, `{"Results":[{"Make_Name":"PETERBILT"}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	result := client.ValidateYearMake(context.Background(), 2015, "Peterbilt")

	assert.True(t, result.Valid)
}

func TestValidateYearMake_UnknownMakeRejects(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"Results":[{"MakeName":"TOYOTA"},{"Make_Name":"TOYOTA"}]}`)
	})

	result := client.ValidateYearMake(context.Background(), 2015, "Toyoda")

	assert.False(t, result.Valid)
	assert.Equal(t, "'Toyoda' doesn't appear to be a valid vehicle make. Please check the spelling.", result.Error)
}

func TestValidateYearMake_ServiceFailurePassesWithWarning(t *testing.T) {
	// The make check is secondary: unavailability never blocks.
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	result := client.ValidateYearMake(context.Background(), 2015, "Toyota")

	assert.True(t, result.Valid)
	assert.Equal(t, "Could not verify make, proceeding anyway.", result.Warning)
}
