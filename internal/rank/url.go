package rank

import "net/url"

// missingURL stands in for hits whose URL cannot be parsed, so the domain
// and path fields still score (to zero matches) instead of erroring.
const missingURL = "https://_.com"

// splitURL extracts the host and path of a hit URL for field scoring.
// Unparseable or relative URLs fall back to the placeholder host.
func splitURL(raw string) (domain, path string) {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		u, _ = url.Parse(missingURL)
	}
	domain = u.Hostname()
	path = u.Path
	if path == "" {
		path = "/"
	}
	return domain, path
}
