package server

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/denguelab/go-sarima/internal/logging"
	"github.com/denguelab/go-sarima/internal/metrics"
	"github.com/denguelab/go-sarima/plot"
	"github.com/denguelab/go-sarima/predictor"
	"github.com/denguelab/go-sarima/sarima"
)

const (
	msgMissingBody  = "Missing request body"
	msgInvalidJSON  = "Invalid JSON"
	msgInvalidCases = "Missing or invalid 'cases' array"
	msgEmptyCases   = "Empty 'cases' array"
	msgCaseNumbers  = "All case values must be numbers"
	msgInvalidOrder = "Invalid 'sarima' object"
	msgNonFinite    = "Forecast produced non-finite values"
)

// maxOrderField bounds each order field of a request. Orders within it but larger than the series
// are rejected by the fit.
const maxOrderField = 1 << 20

// RegressionResult is the time trend regression of an analysis
type RegressionResult struct {
	Intercept        float64   `json:"intercept"`
	RSquared         float64   `json:"rSquared"`
	AdjustedRSquared float64   `json:"adjustedRSquared"`
	Coefficients     []float64 `json:"coefficients"`
	Fitted           []float64 `json:"fitted"`
}

// AnalyzeResponse is the successful result of POST /api/analyze
type AnalyzeResponse struct {
	Regression RegressionResult `json:"regression"`
	Forecast   []float64        `json:"forecast"`
	FitQuality string           `json:"fitQuality"`
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status string `json:"status"`
	Port   int    `json:"port"`
}

// analyzeRequest is the validated form of an analysis request body
type analyzeRequest struct {
	cases []float64
	order sarima.Order
	steps int
}

// orderKeys maps the request's case sensitive order fields to their place in sarima.Order. The
// request is decoded into a map since p/P, d/D and q/Q only differ by case.
var orderKeys = []struct {
	key string
	set func(o *sarima.Order, v int)
}{
	{"p", func(o *sarima.Order, v int) { o.P = v }},
	{"d", func(o *sarima.Order, v int) { o.D = v }},
	{"q", func(o *sarima.Order, v int) { o.Q = v }},
	{"P", func(o *sarima.Order, v int) { o.SeasonalP = v }},
	{"D", func(o *sarima.Order, v int) { o.SeasonalD = v }},
	{"Q", func(o *sarima.Order, v int) { o.SeasonalQ = v }},
	{"s", func(o *sarima.Order, v int) { o.Period = v }},
}

// parseAnalyzeRequest validates the body. The returned string is the in-band error message.
func (s *Server) parseAnalyzeRequest(body []byte) (*analyzeRequest, string) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, msgMissingBody
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, msgInvalidJSON
	}

	list, ok := raw["cases"].([]interface{})
	if !ok {
		return nil, msgInvalidCases
	}
	if len(list) == 0 {
		return nil, msgEmptyCases
	}
	cases := make([]float64, 0, len(list))
	for _, v := range list {
		f, ok := v.(float64)
		if !ok {
			return nil, msgCaseNumbers
		}
		cases = append(cases, f)
	}

	req := &analyzeRequest{
		cases: cases,
		order: s.cfg.Sarima.Order(),
		steps: s.cfg.Forecast.DefaultSteps,
	}

	if rawOrder, ok := raw["sarima"]; ok && rawOrder != nil {
		fields, ok := rawOrder.(map[string]interface{})
		if !ok {
			return nil, msgInvalidOrder
		}
		for _, k := range orderKeys {
			v, ok := fields[k.key]
			if !ok {
				continue
			}
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Sprintf("sarima field '%s' must be a number", k.key)
			}
			if f < 0 || f > maxOrderField {
				return nil, fmt.Sprintf("sarima field '%s' must be between 0 and %d", k.key, maxOrderField)
			}
			k.set(&req.order, int(f))
		}
	}

	if f, ok := raw["forecastSteps"].(float64); ok {
		f = math.Max(math.Min(f, float64(s.cfg.Forecast.MaxSteps)), float64(s.cfg.Forecast.MinSteps))
		req.steps = s.cfg.Forecast.ClampSteps(int(f))
	}
	return req, ""
}

// Analyze fits the time trend regression and the seasonal model on the posted cases and
// forecasts them.
func (s *Server) Analyze(c *fiber.Ctx) error {
	req, msg := s.parseAnalyzeRequest(c.Body())
	if msg != "" {
		s.metrics.ObserveAnalyze(metrics.OutcomeInvalidInput)
		return c.JSON(ErrorResponse{Error: msg})
	}

	res, err := s.analyze(c, req)
	if err != nil {
		s.metrics.ObserveAnalyze(metrics.OutcomeFitError)
		logging.FromContext(c.UserContext()).Warn("analysis failed", "error", err)
		return c.JSON(ErrorResponse{Error: err.Error()})
	}
	s.metrics.ObserveAnalyze(metrics.OutcomeSuccess)
	return c.JSON(res)
}

func (s *Server) analyze(c *fiber.Ctx, req *analyzeRequest) (*AnalyzeResponse, error) {
	opt := &predictor.Options{
		Logger:  logging.FromContext(c.UserContext()),
		Metrics: s.metrics,
		Sarima:  s.cfg.Sarima.Options(),
	}
	p, err := predictor.New(req.cases, nil, opt)
	if err != nil {
		return nil, err
	}
	if err := p.FitRegression(); err != nil {
		return nil, err
	}
	if err := p.FitSarima(req.order); err != nil {
		return nil, err
	}
	forecast, err := p.ForecastSarima(req.steps)
	if err != nil {
		return nil, err
	}
	for _, v := range forecast {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s", msgNonFinite)
		}
	}

	lr := p.Regression()
	fitted, err := p.Fitted()
	if err != nil {
		return nil, err
	}
	return &AnalyzeResponse{
		Regression: RegressionResult{
			Intercept:        lr.Intercept(),
			RSquared:         lr.RSquared(),
			AdjustedRSquared: lr.AdjustedRSquared(),
			Coefficients:     lr.Coefficients(),
			Fitted:           fitted,
		},
		Forecast:   forecast,
		FitQuality: p.Sarima().Quality().String(),
	}, nil
}

// Sample returns the built in monthly case series
func (s *Server) Sample(c *fiber.Ctx) error {
	return c.JSON(predictor.SampleCases())
}

// SamplePlot renders the sample series, its trend and a forecast with the configured order as
// an html chart.
func (s *Server) SamplePlot(c *fiber.Ctx) error {
	opt := &predictor.Options{
		Logger:  logging.FromContext(c.UserContext()),
		Metrics: s.metrics,
		Sarima:  s.cfg.Sarima.Options(),
	}
	p, err := predictor.New(predictor.SampleCases(), nil, opt)
	if err != nil {
		return err
	}
	if err := p.FitRegression(); err != nil {
		return err
	}
	order := s.cfg.Sarima.Order()
	if err := p.FitSarima(order); err != nil {
		return err
	}
	forecast, err := p.ForecastSarima(s.cfg.Forecast.DefaultSteps)
	if err != nil {
		return err
	}
	fitted, err := p.Fitted()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	data := plot.ForecastData{
		History:   p.Cases(),
		Fitted:    fitted,
		Forecast:  forecast,
		Residuals: p.Sarima().Residuals(),
	}
	if err := plot.Forecast(&buf, "SARIMA"+order.String(), data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// Health reports the server is up and the port it was configured with
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "ok",
		Port:   s.cfg.Server.Port,
	})
}
