// internal/services/vehicledata/client.go
package vehicledata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"insurance-intake/internal/common/httpclient"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/common/metrics"
)

// DecodeResult is the outcome of a VIN decode. Valid=false carries a
// user-facing Error; a decode that cannot reach the service is invalid
// (VIN verification blocks, unlike the make check).
type DecodeResult struct {
	Valid     bool   `json:"valid"`
	VIN       string `json:"vin,omitempty"`
	Make      string `json:"make,omitempty"`
	Model     string `json:"model,omitempty"`
	Year      *int   `json:"year,omitempty"`
	BodyClass string `json:"bodyClass,omitempty"`
	ErrorCode int    `json:"errorCode,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MakeCheckResult is the outcome of a year/make plausibility check. A
// check that cannot reach the service passes with a Warning so a
// secondary validation never blocks the user.
type MakeCheckResult struct {
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Client talks to the NHTSA vPIC vehicle API.
type Client struct {
	baseURL    string
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpclient.NewClient(timeout),
		logger:     log.WithFields(map[string]interface{}{"service": "vehicledata"}),
	}
}

// Makes whose VINs are not standard consumer vehicles; those need at
// least a model year to be accepted.
var suspiciousMakes = map[string]bool{
	"SHERMAN + REILLY": true,
	"INCOMPLETE":       true,
	"NOT APPLICABLE":   true,
}

type decodeVinResponse struct {
	Results []struct {
		ErrorCode string `json:"ErrorCode"`
		ErrorText string `json:"ErrorText"`
		Make      string `json:"Make"`
		Model     string `json:"Model"`
		ModelYear string `json:"ModelYear"`
		BodyClass string `json:"BodyClass"`
	} `json:"Results"`
}

// DecodeVIN decodes a VIN through DecodeVinValues. Error codes 0-6 are
// acceptable (warnings but structurally valid); 7+ means invalid VIN.
// Checksums are not validated locally: not all manufacturers follow the
// standard strictly and NHTSA accepts VINs without valid checksums.
func (c *Client) DecodeVIN(ctx context.Context, vin string) *DecodeResult {
	url := fmt.Sprintf("%s/DecodeVinValues/%s?format=json", c.baseURL, vin)

	var payload decodeVinResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		metrics.LookupFailures.WithLabelValues("decode_vin").Inc()
		c.logger.Warn("vin decode failed", map[string]interface{}{
			"vin":   vin,
			"error": err.Error(),
		})
		if ctx.Err() != nil || isTimeout(err) {
			return &DecodeResult{Valid: false, Error: "Vehicle verification service timed out. Please try again."}
		}
		return &DecodeResult{Valid: false, Error: fmt.Sprintf("Error verifying vehicle: %v", err)}
	}

	if len(payload.Results) == 0 {
		return &DecodeResult{Valid: false, Error: "Could not decode VIN. Please verify it's correct."}
	}
	result := payload.Results[0]

	errorCode, err := strconv.Atoi(strings.TrimSpace(result.ErrorCode))
	if err != nil {
		errorCode = 0
	}

	if errorCode >= 7 {
		errorText := result.ErrorText
		if errorText == "" {
			errorText = "Invalid VIN format"
		}
		return &DecodeResult{Valid: false, ErrorCode: errorCode, Error: fmt.Sprintf("Invalid VIN: %s", errorText)}
	}

	make := strings.TrimSpace(result.Make)
	if make == "" {
		return &DecodeResult{Valid: false, ErrorCode: errorCode, Error: "Could not decode VIN. Please verify it's correct."}
	}

	year := parseYear(result.ModelYear)

	// Non-consumer vehicles need at least a year to be accepted.
	if suspiciousMakes[strings.ToUpper(make)] || strings.Contains(make, "+") {
		if year == nil {
			return &DecodeResult{
				Valid:     false,
				ErrorCode: errorCode,
				Error:     "This VIN doesn't appear to be for a standard consumer vehicle.",
			}
		}
	}

	return &DecodeResult{
		Valid:     true,
		VIN:       vin,
		Make:      make,
		Model:     strings.TrimSpace(result.Model),
		Year:      year,
		BodyClass: strings.TrimSpace(result.BodyClass),
		ErrorCode: errorCode,
	}
}

type makesResponse struct {
	Results []struct {
		MakeName     string `json:"MakeName"`
		MakeNameFull string `json:"Make_Name"`
	} `json:"Results"`
}

// ValidateYearMake checks that a make exists, first among car makes and
// then among all registered makes. Transport failures pass with a
// warning so the secondary check never blocks the conversation.
func (c *Client) ValidateYearMake(ctx context.Context, year int, make string) *MakeCheckResult {
	wanted := strings.ToUpper(strings.TrimSpace(make))

	var carMakes makesResponse
	url := fmt.Sprintf("%s/GetMakesForVehicleType/car?format=json", c.baseURL)
	if err := c.getJSON(ctx, url, &carMakes); err != nil {
		metrics.LookupFailures.WithLabelValues("validate_year_make").Inc()
		c.logger.Warn("make check unavailable, accepting", map[string]interface{}{
			"make":  make,
			"year":  year,
			"error": err.Error(),
		})
		return &MakeCheckResult{Valid: true, Warning: "Could not verify make, proceeding anyway."}
	}
	for _, r := range carMakes.Results {
		if strings.ToUpper(r.MakeName) == wanted {
			return &MakeCheckResult{Valid: true}
		}
	}

	var allMakes makesResponse
	url = fmt.Sprintf("%s/GetAllMakes?format=json", c.baseURL)
	if err := c.getJSON(ctx, url, &allMakes); err != nil {
		metrics.LookupFailures.WithLabelValues("validate_year_make").Inc()
		return &MakeCheckResult{Valid: true, Warning: "Could not verify make, proceeding anyway."}
	}
	for _, r := range allMakes.Results {
		if strings.ToUpper(r.MakeNameFull) == wanted {
			return &MakeCheckResult{Valid: true}
		}
	}

	return &MakeCheckResult{
		Valid: false,
		Error: fmt.Sprintf("'%s' doesn't appear to be a valid vehicle make. Please check the spelling.", make),
	}
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func parseYear(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &y
}

func isTimeout(err error) bool {
	t, ok := err.(interface{ Timeout() bool })
	return ok && t.Timeout()
}
