package weatherservice

// Category groups condition codes for background/accent styling.
type Category string

const (
	CategoryClear Category = "clear"
	CategoryCloud Category = "cloud"
	CategoryRain  Category = "rain"
	CategorySnow  Category = "snow"
)

// Condition is the display information for a WMO weather code.
type Condition struct {
	Icon     string
	Label    string
	Category Category
}

// UnknownCondition is used for codes missing from the table.
var UnknownCondition = Condition{Icon: "❔", Label: "Unknown", Category: CategoryCloud}

// conditions maps Open-Meteo weathercode values.
// https://open-meteo.com/en/docs#weathervariables
var conditions = map[int]Condition{
	0:  {"☀️", "Clear sky", CategoryClear},
	1:  {"🌤️", "Mainly clear", CategoryClear},
	2:  {"⛅️", "Partly cloudy", CategoryCloud},
	3:  {"☁️", "Overcast", CategoryCloud},
	45: {"🌫️", "Fog", CategoryCloud},
	48: {"🌫️", "Depositing rime fog", CategoryCloud},
	51: {"🌦️", "Light drizzle", CategoryRain},
	53: {"🌦️", "Drizzle", CategoryRain},
	55: {"🌧️", "Dense drizzle", CategoryRain},
	56: {"🌧️", "Freezing drizzle", CategoryRain},
	57: {"🌧️", "Freezing drizzle", CategoryRain},
	61: {"🌧️", "Slight rain", CategoryRain},
	63: {"🌧️", "Rain", CategoryRain},
	65: {"🌧️", "Heavy rain", CategoryRain},
	66: {"🌧️", "Freezing rain", CategoryRain},
	67: {"🌧️", "Freezing rain", CategoryRain},
	71: {"🌨️", "Slight snow", CategorySnow},
	73: {"🌨️", "Snow", CategorySnow},
	75: {"❄️", "Heavy snow", CategorySnow},
	77: {"❄️", "Snow grains", CategorySnow},
	80: {"🌧️", "Rain showers", CategoryRain},
	81: {"🌧️", "Rain showers", CategoryRain},
	82: {"🌧️", "Violent rain showers", CategoryRain},
	85: {"🌨️", "Snow showers", CategorySnow},
	86: {"🌨️", "Snow showers", CategorySnow},
	95: {"⛈️", "Thunderstorm", CategoryRain},
	96: {"⛈️", "Thunderstorm with hail", CategoryRain},
	99: {"⛈️", "Thunderstorm with hail", CategoryRain},
}

// LookupCondition never fails; unmapped codes return UnknownCondition.
func LookupCondition(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return UnknownCondition
}

// KnownCodes returns the number of mapped codes.
func KnownCodes() int {
	return len(conditions)
}
