package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// Client fetches condenser readings from the plant historian over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a historian client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// rawReading mirrors thermal.Reading with pointer fields so records with
// missing required values can be detected and dropped instead of silently
// decoding to zeros.
type rawReading struct {
	Timestamp            *time.Time `json:"timestamp"`
	SaturationPressure   *float64   `json:"saturation_pressure"`
	SaturationTemp       *float64   `json:"saturation_temperature"`
	LMTD                 *float64   `json:"lmtd"`
	CoolingWaterInTemp   *float64   `json:"cooling_water_in_temp"`
	CoolingWaterOutTemp  *float64   `json:"cooling_water_out_temp"`
	CoolingWaterMassFlow *float64   `json:"cooling_water_mass_flow"`
	SpecificHeatCapacity *float64   `json:"specific_heat_capacity"`
	UFoul                *float64   `json:"u_foul"`
	UClean               *float64   `json:"u_clean"`
	RFoul                *float64   `json:"r_foul"`
}

// valid reports whether all required fields are present.
func (r *rawReading) valid() bool {
	return r.Timestamp != nil && r.LMTD != nil &&
		r.UFoul != nil && r.UClean != nil && r.RFoul != nil
}

func (r *rawReading) toReading() thermal.Reading {
	out := thermal.Reading{
		Timestamp: *r.Timestamp,
		LMTD:      *r.LMTD,
		UFoul:     *r.UFoul,
		UClean:    *r.UClean,
		RFoul:     *r.RFoul,
	}
	// Optional context fields default to zero when the historian omits them.
	if r.SaturationPressure != nil {
		out.SaturationPressure = *r.SaturationPressure
	}
	if r.SaturationTemp != nil {
		out.SaturationTemp = *r.SaturationTemp
	}
	if r.CoolingWaterInTemp != nil {
		out.CoolingWaterInTemp = *r.CoolingWaterInTemp
	}
	if r.CoolingWaterOutTemp != nil {
		out.CoolingWaterOutTemp = *r.CoolingWaterOutTemp
	}
	if r.CoolingWaterMassFlow != nil {
		out.CoolingWaterMassFlow = *r.CoolingWaterMassFlow
	}
	if r.SpecificHeatCapacity != nil {
		out.SpecificHeatCapacity = *r.SpecificHeatCapacity
	}
	return out
}

// FetchReadings retrieves readings for the given trailing window.
// Records missing required numeric fields are dropped individually and
// counted; one bad record never aborts the batch.
func (c *Client) FetchReadings(ctx context.Context, windowHint string) (thermal.ReadingBatch, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return thermal.ReadingBatch{}, fmt.Errorf("parse historian url: %w", err)
	}
	q := u.Query()
	if windowHint != "" {
		q.Set("window", windowHint)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return thermal.ReadingBatch{}, fmt.Errorf("build historian request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return thermal.ReadingBatch{}, fmt.Errorf("historian request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return thermal.ReadingBatch{}, fmt.Errorf("historian returned status %d", resp.StatusCode)
	}

	var raw []rawReading
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return thermal.ReadingBatch{}, fmt.Errorf("decode historian response: %w", err)
	}

	batch := thermal.ReadingBatch{
		Readings:  make([]thermal.Reading, 0, len(raw)),
		FetchedAt: time.Now(),
	}
	for i := range raw {
		if !raw[i].valid() {
			batch.Dropped++
			continue
		}
		batch.Readings = append(batch.Readings, raw[i].toReading())
	}
	return batch, nil
}
