package schema

import "strings"

var abbreviations = map[string]string{
	"ua": "useragent", "ref": "referer", "addr": "address", "ip": "ip",
	"url": "url", "uri": "url", "path": "path", "host": "host",
	"usr": "user", "uid": "id", "sid": "session", "sess": "session",
	"dt": "date", "ts": "time", "tm": "time",
	"cnt": "count", "qty": "count", "amt": "price", "dur": "duration",
	"ver": "version", "v": "version",
	"os": "os", "dev": "device", "lang": "language", "loc": "location",
	"msg": "message", "txt": "text", "desc": "description",
	"stat": "status", "sts": "status", "lvl": "level",
	"is": "yesno", "flg": "flag", "yn": "yesno",
	"mail": "email", "tel": "phone", "ph": "phone",
}

// meaningKeywords is matched against the decoded column name, first match wins.
var meaningKeywords = []struct {
	meaning string
	words   []string
}{
	{"email", []string{"email"}},
	{"phone", []string{"phone", "mobile"}},
	{"useragent", []string{"useragent", "user_agent"}},
	{"browser", []string{"browser"}},
	{"version", []string{"version"}},
	{"os", []string{"os", "platform"}},
	{"device", []string{"device"}},
	{"ip", []string{"ip"}},
	{"url", []string{"url", "referer", "path"}},
	{"host", []string{"host", "domain"}},
	{"country", []string{"country"}},
	{"city", []string{"city", "location"}},
	{"language", []string{"language", "locale"}},
	{"name", []string{"name", "user"}},
	{"status", []string{"status", "level"}},
	{"price", []string{"price", "cost"}},
	{"count", []string{"count", "duration"}},
	{"yesno", []string{"yesno", "flag", "active", "enabled"}},
	{"text", []string{"message", "text", "description", "comment"}},
}

// AnalyzeMeaning guesses what a column holds from its name
// (e.g. "browser_v" -> "version", "ua" -> "useragent"). It returns "" when
// nothing matches.
func AnalyzeMeaning(colName string) string {
	name := strings.ToLower(colName)
	for _, mk := range meaningKeywords {
		for _, w := range mk.words {
			if strings.Contains(w, "_") && strings.Contains(name, w) {
				return mk.meaning
			}
		}
	}

	parts := strings.Split(name, "_")
	for i, part := range parts {
		if full, ok := abbreviations[part]; ok {
			parts[i] = full
		}
	}

	// The last part is the most specific: "browser_v" is a version, not a browser.
	for i := len(parts) - 1; i >= 0; i-- {
		for _, mk := range meaningKeywords {
			for _, w := range mk.words {
				if parts[i] == w {
					return mk.meaning
				}
			}
		}
	}

	joined := strings.Join(parts, "_")
	for _, mk := range meaningKeywords {
		for _, w := range mk.words {
			if strings.Contains(joined, w) && len(w) > 2 {
				return mk.meaning
			}
		}
	}
	return ""
}
