package engine

// Small vocabularies for low-cardinality columns, where a realistic spread of
// repeated values matters more than variety.
var (
	Browsers  = []string{"Chrome", "Firefox", "Safari", "Edge", "Opera", "Samsung Internet", "IE"}
	Platforms = []string{"Windows", "macOS", "Linux", "Android", "iOS", "ChromeOS"}
	Devices   = []string{"desktop", "mobile", "tablet", "tv", "bot"}
	Languages = []string{"en", "de", "fr", "es", "pt", "ru", "zh", "ja", "ko"}
	Statuses  = []string{"ok", "pending", "failed", "retry", "skipped"}
)

// vocabulary returns the word list for a column meaning, nil when there is none.
func vocabulary(meaning string) []string {
	switch meaning {
	case "browser":
		return Browsers
	case "os":
		return Platforms
	case "device":
		return Devices
	case "language":
		return Languages
	case "status":
		return Statuses
	}
	return nil
}
