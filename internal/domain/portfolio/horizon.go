package portfolio

// Horizon is one of the four fixed look-back windows a percent return is
// reported over.
type Horizon string

const (
	HorizonWeek   Horizon = "1 Week"
	HorizonMonth  Horizon = "1 Month"
	Horizon6Month Horizon = "6 Months"
	HorizonYear   Horizon = "1 Year"
)

// Horizons returns the recognized horizons in their fixed display order.
func Horizons() []Horizon {
	return []Horizon{HorizonWeek, HorizonMonth, Horizon6Month, HorizonYear}
}

// ParseHorizon validates a horizon label. Any label outside the fixed set
// fails with ErrUnknownHorizon.
func ParseHorizon(s string) (Horizon, error) {
	for _, h := range Horizons() {
		if Horizon(s) == h {
			return h, nil
		}
	}
	return "", ErrUnknownHorizon
}
