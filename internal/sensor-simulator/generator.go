package sensor_simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/pyrosim/sprinkler/internal/model"
)

// ====== Tunables ======
const (
	// growthPerMin: heat gained per minute while the fire burns freely, °F.
	growthPerMin = 60.0

	// sprayCoolPerMin: heat removed per minute while the head discharges, °F.
	sprayCoolPerMin = 300.0

	// peakF: free-burn ceiling temperature; growth stops here.
	peakF = 340.0

	// smolderF: once suppression pushes the heat below this the burn is out.
	smolderF = 95.0

	// defaultAmbientF: ambient seed when OpenWeather is not available.
	defaultAmbientF = 70.0

	// openWeatherURL: single fetch at startup; NOT called on every tick.
	openWeatherURL = "https://api.openweathermap.org/data/2.5/weather?lat=%f&lon=%f&appid=%s"
)

// DataGenerator keeps the internal fire state and advances it over time.
// It performs at most ONE optional OpenWeather fetch during startup.
type DataGenerator struct {
	mu         sync.Mutex
	seeded     bool
	last       time.Time
	ambient    float64 // °F, floor the ceiling temperature settles back to
	heat       float64 // °F, current ceiling temperature at the head
	burnS      float64 // seconds the current burn has been running
	burning    bool
	coolPerMin float64 // natural decay toward ambient when nothing burns
	apiKey     string
	httpClient *http.Client
	now        func() time.Time // injectable for tests
}

// NewDataGenerator creates a generator with the given natural cooling rate
// (°F per minute), applied while no fire burns.
func NewDataGenerator(coolPerMin float64, apiKey string) *DataGenerator {
	return &DataGenerator{
		coolPerMin: math.Max(0, coolPerMin),
		ambient:    defaultAmbientF,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 8 * time.Second},
		now:        time.Now,
	}
}

// SeedFromOpenWeather --> single fetch to OpenWeather at startup; the outdoor
// temperature becomes the ambient floor. Falls back to the default seed (70°F).
func (g *DataGenerator) SeedFromOpenWeather(ctx context.Context, h *model.Head) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seeded {
		return
	}

	seed := defaultAmbientF
	if g.apiKey != "" && (h.Latitude != 0 || h.Longitude != 0) {
		if t, err := g.fetchAmbientF(ctx, h.Latitude, h.Longitude); err == nil {
			seed = t
		}
	}

	g.ambient = seed
	g.heat = seed
	g.last = g.now().UTC()
	g.seeded = true
}

// Ignite starts a burn. Igniting while a fire already burns is a no-op.
func (g *DataGenerator) Ignite() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.burning {
		return
	}
	g.burning = true
	if g.heat < g.ambient {
		g.heat = g.ambient
	}
}

// Burning reports whether a fire is currently in progress.
func (g *DataGenerator) Burning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.burning
}

// Next advances the fire state and returns a raw HeatReading.
func (g *DataGenerator) Next(h *model.Head) (model.HeatReading, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	if !g.seeded {
		// SeedFromOpenWeather was never called; seed in place on first use.
		g.heat = g.ambient
		g.last = now
		g.seeded = true
	}

	dtMin := now.Sub(g.last).Minutes()
	if dtMin < 0 {
		dtMin = 0
	}

	switch {
	case g.burning && h.State == model.HeadSpraying:
		g.heat = math.Max(g.heat-sprayCoolPerMin*dtMin, g.ambient)
		g.burnS += dtMin * 60
		if g.heat <= smolderF {
			// knocked down
			g.burning = false
			g.burnS = 0
		}
	case g.burning:
		g.heat = math.Min(g.heat+growthPerMin*dtMin, peakF)
		g.burnS += dtMin * 60
	default:
		g.heat = math.Max(g.heat-g.coolPerMin*dtMin, g.ambient)
		g.burnS = 0
	}
	g.last = now

	return model.HeatReading{
		ZoneID:     h.ZoneID,
		HeadID:     h.ID,
		HeatF:      math.Round(g.heat*10) / 10,
		BurnS:      math.Round(g.burnS),
		Aggregated: false,
		Timestamp:  now,
	}, nil
}

// ===== Helpers =====

func (g *DataGenerator) fetchAmbientF(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf(openWeatherURL, lat, lon, g.apiKey)
	var lastErr error

	attemptOnce := func() (val float64, retry bool, err error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return -1, true, err
		}
		req.Header.Set("User-Agent", "pyrosim-sensor-simulator/1.0")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return -1, true, err
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		closeErr := resp.Body.Close()
		if readErr != nil {
			if closeErr != nil {
				return -1, true, fmt.Errorf("%w; body close error: %v", readErr, closeErr)
			}
			return -1, true, readErr
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var parsed struct {
				Main struct {
					Temp float64 `json:"temp"`
				} `json:"main"`
			}
			if err := json.Unmarshal(body, &parsed); err != nil {
				return -1, true, err
			}
			// the API never reports 0K; zero means the field was missing
			if parsed.Main.Temp == 0 {
				return -1, true, errors.New("openweather: temp field not found")
			}
			return normalizeTempF(parsed.Main.Temp), false, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// retryable
			return -1, true, fmt.Errorf("openweather HTTP %d", resp.StatusCode)

		default:
			// non-retryable
			return -1, false, fmt.Errorf("openweather HTTP %d: %s", resp.StatusCode, string(body))
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		val, retry, err := attemptOnce()
		if err == nil {
			return val, nil
		}
		lastErr = err
		if !retry {
			return -1, lastErr
		}
		if attempt == 0 {
			time.Sleep(time.Duration(rand.Intn(400)+600) * time.Millisecond)
		}
	}
	return -1, lastErr
}

// normalizeTempF brings an OpenWeather reading into the simulator's domain.
// The API defaults to Kelvin; values that already look like Fahrenheit pass
// through. The result is clamped to a plausible indoor ambient band.
func normalizeTempF(x float64) float64 {
	if x > 180 {
		x = (x-273.15)*9/5 + 32
	}
	if x < 40 {
		x = 40
	}
	if x > 90 {
		x = 90
	}
	return x
}
