package suppression_controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

type owmDaily struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Humidity float64 `json:"humidity"`
}

type owmResp struct {
	Daily []owmDaily `json:"daily"`
}

type OWMClient struct{ apiKey string }

func NewOWMClient(key string) *OWMClient { return &OWMClient{apiKey: key} }

// GetDailyFireDanger implements WeatherClient: it fetches the daily forecast
// for lat/lon and condenses the day nearest to 'day' into a Chandler Burning
// Index plus its class.
func (c *OWMClient) GetDailyFireDanger(ctx context.Context, lat, lon float64, day time.Time) (float64, string, error) {
	if c.apiKey == "" {
		return 0, "", fmt.Errorf("missing api key")
	}
	url := fmt.Sprintf("https://api.openweathermap.org/data/3.0/onecall?lat=%f&lon=%f&exclude=current,minutely,hourly,alerts&units=metric&appid=%s", lat, lon, c.apiKey)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return 0, "", fmt.Errorf("owm status %d: %s", resp.StatusCode, string(b))
	}
	var out owmResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, "", err
	}
	if len(out.Daily) == 0 {
		return 0, "", fmt.Errorf("no daily data")
	}

	// pick the daily record closest to 'day' (UTC)
	target := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	chosen := out.Daily[0]
	minDelta := time.Duration(1<<63 - 1)
	for _, d := range out.Daily {
		t := time.Unix(d.Dt, 0).UTC()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		delta := target.Sub(date)
		if delta < 0 {
			delta = -delta
		}
		if delta < minDelta {
			minDelta = delta
			chosen = d
		}
	}

	cbi := chandlerBurningIndex(chosen.Temp.Max, chosen.Humidity)
	return cbi, dangerClass(cbi), nil
}

// chandlerBurningIndex computes the CBI from air temperature (°C) and
// relative humidity (%).
func chandlerBurningIndex(tempC, rhPct float64) float64 {
	cbi := (((110 - 1.373*rhPct) - 0.54*(10.20-tempC)) * (124 * math.Pow(10, -0.0142*rhPct))) / 60
	if cbi < 0 {
		cbi = 0
	}
	return cbi
}

// dangerClass maps a CBI value onto the usual advisory bands.
func dangerClass(cbi float64) string {
	switch {
	case cbi < 50:
		return "low"
	case cbi < 75:
		return "moderate"
	case cbi < 90:
		return "high"
	case cbi < 97.5:
		return "very_high"
	default:
		return "extreme"
	}
}
