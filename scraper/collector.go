package scraper

import (
	"context"
	"mime"
	"strings"

	"campground-scanner/models"
	"campground-scanner/utils"
)

var candidateURLTokens = []string{"avail", "camp", "inventory", "site", "unit"}

type recordKey struct {
	unitName string
	status   string
}

// collector accumulates structured records for a single target.
// Records are keyed by (unit name, status): a later record replaces an earlier one with the
// same key but keeps the key's first-seen position.
type collector struct {
	campground string
	logger     *utils.Logger

	order []recordKey
	byKey map[recordKey]models.AvailabilityRecord
}

func newCollector(campground string, logger *utils.Logger) *collector {
	return &collector{
		campground: campground,
		logger:     logger,
		byKey:      make(map[recordKey]models.AvailabilityRecord),
	}
}

// Observe feeds one network response through the URL, content-type and JSON filters
func (c *collector) Observe(ctx context.Context, resp Response) {
	if !isCandidateURL(resp.URL()) || !isJSONContentType(resp.Header("Content-Type")) {
		return
	}
	body, err := resp.Body(ctx)
	if err != nil {
		c.logger.Debug("  [%s] body unavailable for %s: %v", c.campground, resp.URL(), err)
		return
	}
	root, err := ParseJSON(body)
	if err != nil {
		c.logger.Debug("  [%s] skipping undecodable JSON from %s: %v", c.campground, resp.URL(), err)
		return
	}
	found := ExtractFromJSON(root, c.campground, resp.URL())
	if len(found) > 0 {
		c.logger.Debug("  [%s] %d records from %s", c.campground, len(found), resp.URL())
	}
	c.Add(found...)
}

// Add merges records, last write wins per (unit name, status)
func (c *collector) Add(records ...models.AvailabilityRecord) {
	for _, r := range records {
		k := recordKey{r.UnitName, r.Status}
		if _, seen := c.byKey[k]; !seen {
			c.order = append(c.order, k)
		}
		c.byKey[k] = r
	}
}

// Records returns the deduplicated records in first-seen key order
func (c *collector) Records() []models.AvailabilityRecord {
	out := make([]models.AvailabilityRecord, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k])
	}
	return out
}

func isCandidateURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, token := range candidateURLTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// isJSONContentType accepts application/json, text/json and any +json structured suffix
func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mediaType == "application/json" || mediaType == "text/json" || strings.HasSuffix(mediaType, "+json")
}
