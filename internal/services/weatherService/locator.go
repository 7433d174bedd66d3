package weatherservice

import (
	"context"
	"os"
	"strings"
	"time"
	_ "time/tzdata"
)

// Locator determines the device position, the way a browser's geolocation
// API would.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticLocator always reports the configured coordinates.
type StaticLocator struct {
	Position Coordinates
}

func (s StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, &GeolocationError{Reason: GeolocationTimeout, Err: err}
	}
	return s.Position, nil
}

// UnsupportedLocator is used when geolocation is disabled.
type UnsupportedLocator struct{}

func (UnsupportedLocator) Locate(context.Context) (Coordinates, error) {
	return Coordinates{}, &GeolocationError{Reason: GeolocationUnsupported}
}

// YourLocation builds the synthetic place used when reverse geocoding has
// no match for the device position.
func YourLocation(pos Coordinates) Place {
	return Place{
		Name:      "Your Location",
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Timezone:  LocalTimezone(),
	}
}

// LocalTimezone returns the IANA name of the host timezone, or "auto" when
// it cannot be named.
func LocalTimezone() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}

	name := time.Now().Location().String()
	if name == "" || name == "Local" {
		return "auto"
	}
	return name
}
