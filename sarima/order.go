package sarima

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Order is the SARIMA(p,d,q)(P,D,Q)s specification of a seasonal model. A Period of 0 or 1
// disables every seasonal term.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`

	SeasonalP int `json:"seasonal_p"`
	SeasonalD int `json:"seasonal_d"`
	SeasonalQ int `json:"seasonal_q"`

	Period int `json:"period"`
}

// Validate returns ErrInvalidOrder if any component is negative or if the lags or coefficient
// count of the order do not fit in an int.
func (o Order) Validate() error {
	components := []struct {
		name string
		val  int
	}{
		{"p", o.P}, {"d", o.D}, {"q", o.Q},
		{"P", o.SeasonalP}, {"D", o.SeasonalD}, {"Q", o.SeasonalQ},
		{"s", o.Period},
	}
	for _, c := range components {
		if c.val < 0 {
			return fmt.Errorf("%s=%d, %w", c.name, c.val, ErrInvalidOrder)
		}
	}
	if _, _, ok := o.size(); !ok {
		return fmt.Errorf("order %s overflows its lag range, %w", o, ErrInvalidOrder)
	}
	return nil
}

// size computes MaxLag and NumCoefficients of a non-negative order. ok is false if either
// overflows.
func (o Order) size() (maxLag, numCoef int, ok bool) {
	s := o.period()
	sar, ok1 := mulNonNeg(s, o.SeasonalP)
	sma, ok2 := mulNonNeg(s, o.SeasonalQ)
	ar, ok3 := addNonNeg(o.P, sar)
	ma, ok4 := addNonNeg(o.Q, sma)
	arma, ok5 := addNonNeg(o.P, o.Q)
	seasonal, ok6 := addNonNeg(o.SeasonalP, o.SeasonalQ)
	numCoef, ok7 := addNonNeg(arma, seasonal)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return 0, 0, false
	}
	return max(ar, ma), numCoef, true
}

func addNonNeg(a, b int) (int, bool) {
	if a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

func mulNonNeg(a, b int) (int, bool) {
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

// Seasonal reports whether seasonal terms take part in the model
func (o Order) Seasonal() bool {
	return o.Period > 1
}

// period returns the seasonal lag, or 0 when seasonal terms are disabled
func (o Order) period() int {
	if !o.Seasonal() {
		return 0
	}
	return o.Period
}

// seasonalDiff is the number of seasonal differencing passes actually applied
func (o Order) seasonalDiff() int {
	if !o.Seasonal() {
		return 0
	}
	return o.SeasonalD
}

// MaxLag is the furthest lookback any AR or MA term reaches into the working series. It is only
// meaningful for orders that pass Validate.
func (o Order) MaxLag() int {
	s := o.period()
	return max(o.P+s*o.SeasonalP, o.Q+s*o.SeasonalQ)
}

// NumCoefficients is the total size of the four coefficient blocks
func (o Order) NumCoefficients() int {
	return o.P + o.Q + o.SeasonalP + o.SeasonalQ
}

// Integrated reports whether forecasts need the original series to be reconstituted
func (o Order) Integrated() bool {
	return o.D > 0 || o.seasonalDiff() > 0
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SeasonalP, o.SeasonalD, o.SeasonalQ, o.Period)
}

// ParseOrder reads an order written as seven comma separated integers "p,d,q,P,D,Q,s".
func ParseOrder(s string) (Order, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 7 {
		return Order{}, fmt.Errorf("expected 7 comma separated values but got %d, %w", len(fields), ErrInvalidOrder)
	}
	vals := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Order{}, fmt.Errorf("unable to parse order component %q, %w", f, ErrInvalidOrder)
		}
		vals[i] = v
	}
	o := Order{
		P: vals[0], D: vals[1], Q: vals[2],
		SeasonalP: vals[3], SeasonalD: vals[4], SeasonalQ: vals[5],
		Period: vals[6],
	}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}
