package sarima

import "slices"

// Coefficients holds the fitted non-seasonal and seasonal AR and MA blocks of a model plus the
// constant term. Block lengths always equal (p, q, P, Q) of the order that produced them.
type Coefficients struct {
	AR         []float64 `json:"ar"`
	MA         []float64 `json:"ma"`
	SeasonalAR []float64 `json:"seasonal_ar"`
	SeasonalMA []float64 `json:"seasonal_ma"`
	Intercept  float64   `json:"intercept"`
}

func newCoefficients(order Order) Coefficients {
	return Coefficients{
		AR:         make([]float64, order.P),
		MA:         make([]float64, order.Q),
		SeasonalAR: make([]float64, order.SeasonalP),
		SeasonalMA: make([]float64, order.SeasonalQ),
	}
}

// Clone returns a deep copy
func (c Coefficients) Clone() Coefficients {
	return Coefficients{
		AR:         slices.Clone(c.AR),
		MA:         slices.Clone(c.MA),
		SeasonalAR: slices.Clone(c.SeasonalAR),
		SeasonalMA: slices.Clone(c.SeasonalMA),
		Intercept:  c.Intercept,
	}
}

// Vector concatenates the blocks in AR, MA, seasonal AR, seasonal MA order followed by the
// intercept.
func (c Coefficients) Vector() []float64 {
	vec := make([]float64, 0, len(c.AR)+len(c.MA)+len(c.SeasonalAR)+len(c.SeasonalMA)+1)
	vec = append(vec, c.AR...)
	vec = append(vec, c.MA...)
	vec = append(vec, c.SeasonalAR...)
	vec = append(vec, c.SeasonalMA...)
	return append(vec, c.Intercept)
}

// layout maps the free optimizer parameters onto coefficient blocks. Seasonal blocks only take
// part when the order is seasonal and the intercept only when requested.
type layout struct {
	order     Order
	intercept bool
}

func (l layout) size() int {
	n := l.order.P + l.order.Q
	if l.order.Seasonal() {
		n += l.order.SeasonalP + l.order.SeasonalQ
	}
	if l.intercept {
		n++
	}
	return n
}

func (l layout) pack(c Coefficients) []float64 {
	x := make([]float64, 0, l.size())
	x = append(x, c.AR...)
	x = append(x, c.MA...)
	if l.order.Seasonal() {
		x = append(x, c.SeasonalAR...)
		x = append(x, c.SeasonalMA...)
	}
	if l.intercept {
		x = append(x, c.Intercept)
	}
	return x
}

// unpackInto writes x into c, which must already have the order's block sizes
func (l layout) unpackInto(c *Coefficients, x []float64) {
	idx := copy(c.AR, x)
	idx += copy(c.MA, x[idx:])
	if l.order.Seasonal() {
		idx += copy(c.SeasonalAR, x[idx:])
		idx += copy(c.SeasonalMA, x[idx:])
	}
	if l.intercept {
		c.Intercept = x[idx]
	}
}

func (l layout) unpack(x []float64) Coefficients {
	c := newCoefficients(l.order)
	l.unpackInto(&c, x)
	return c
}
