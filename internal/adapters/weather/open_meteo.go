package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// OpenMeteoClient fetches daily forecasts from the Open-Meteo API.
type OpenMeteoClient struct {
	session *http.Client
	baseURL string
}

func NewOpenMeteoClient(baseURL string, session *http.Client) *OpenMeteoClient {
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenMeteoClient{session: session, baseURL: strings.TrimRight(baseURL, "/")}
}

type forecastResponse struct {
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weathercode"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Forecast returns up to days daily entries for at.
func (c *OpenMeteoClient) Forecast(
	ctx context.Context,
	at domain.Coordinates,
	days int,
) (_ []domain.DailyForecast, err error) {
	defer obs.Time(ctx, "weather.Forecast")(&err)

	if days <= 0 {
		return nil, errors.New("forecast: days must be positive")
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lng, 'f', 4, 64))
	q.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: create request: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", at, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("forecast %s: status %d: %s", at, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("forecast %s: decode: %w", at, err)
	}

	d := out.Daily
	n := min(len(d.Time), len(d.WeatherCode), len(d.TempMax), len(d.TempMin), days)
	forecast := make([]domain.DailyForecast, 0, n)
	for i := 0; i < n; i++ {
		forecast = append(forecast, domain.DailyForecast{
			Date:        d.Time[i],
			WeatherCode: d.WeatherCode[i],
			TempMax:     d.TempMax[i],
			TempMin:     d.TempMin[i],
			Condition:   domain.ConditionFor(d.WeatherCode[i]),
		})
	}
	return forecast, nil
}
