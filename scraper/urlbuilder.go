package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"campground-scanner/models"
)

const dateLayout = "2006-01-02"

type queryParam struct {
	key   string
	value string
}

// BuildSearchURL rewrites the search parameters of base to match settings.
//
// startDate, endDate, partySize, equipmentId, subEquipmentId and (when settings.Nights is set)
// nights are replaced where they already appear and appended otherwise. Every other query
// parameter is kept byte-for-byte in its original position, repeated keys included. Scheme, host,
// path and fragment are not touched.
func BuildSearchURL(base string, settings models.SearchSettings) (string, error) {
	if _, err := url.Parse(base); err != nil {
		return "", fmt.Errorf("invalid search URL %q: %w", base, err)
	}

	managed := []queryParam{
		{"startDate", settings.StartDate.Format(dateLayout)},
		{"endDate", settings.EndDate.Format(dateLayout)},
		{"partySize", strconv.Itoa(settings.PartySize)},
		{"equipmentId", settings.EquipmentID},
		{"subEquipmentId", settings.SubEquipmentID},
	}
	if settings.Nights != nil {
		managed = append(managed, queryParam{"nights", strconv.Itoa(*settings.Nights)})
	}

	rest, fragment := base, ""
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, fragment = rest[:i], rest[i:]
	}
	prefix, rawQuery := rest, ""
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		prefix, rawQuery = rest[:i], rest[i+1:]
	}

	written := make(map[string]bool, len(managed))
	var parts []string
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}
		idx := managedIndex(managed, segmentKey(segment))
		if idx < 0 {
			parts = append(parts, segment)
			continue
		}
		p := managed[idx]
		if written[p.key] {
			continue
		}
		written[p.key] = true
		parts = append(parts, encodeParam(p))
	}
	for _, p := range managed {
		if !written[p.key] {
			parts = append(parts, encodeParam(p))
		}
	}

	return prefix + "?" + strings.Join(parts, "&") + fragment, nil
}

func segmentKey(segment string) string {
	key, _, _ := strings.Cut(segment, "=")
	if unescaped, err := url.QueryUnescape(key); err == nil {
		return unescaped
	}
	return key
}

func managedIndex(managed []queryParam, key string) int {
	for i, p := range managed {
		if p.key == key {
			return i
		}
	}
	return -1
}

func encodeParam(p queryParam) string {
	return url.QueryEscape(p.key) + "=" + url.QueryEscape(p.value)
}
