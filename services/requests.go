package services

import (
	"errors"
	"fmt"
	"strings"

	"campground-scanner/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseRequests converts "Display Name | URL" lines into scan requests.
// Blank lines, lines without a separator and lines with an empty side are skipped.
func ParseRequests(raw string) []models.ScanRequest {
	var requests []models.ScanRequest
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, searchURL, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		searchURL = strings.TrimSpace(searchURL)
		if name == "" || searchURL == "" {
			continue
		}
		requests = append(requests, models.ScanRequest{Name: name, SearchURL: searchURL})
	}
	return requests
}

// ValidateScanInput checks the batch before any browser is started
func ValidateScanInput(requests []models.ScanRequest, settings models.SearchSettings) error {
	if len(requests) == 0 {
		return errors.New("please provide at least one valid `Name | URL` campground entry")
	}
	for i, r := range requests {
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("campground %d (%q): %s", i+1, r.Name, describe(err))
		}
	}
	if err := validate.Struct(settings); err != nil {
		return errors.New(describe(err))
	}
	return nil
}

// describe turns the first validation failure into a sentence a user can act on
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "Name":
		return "display name is required"
	case "SearchURL":
		return fmt.Sprintf("search URL %q must be an absolute http(s) URL", fe.Value())
	case "StartDate":
		return "arrival date is required"
	case "EndDate":
		return "departure date must be after arrival date"
	case "PartySize":
		return fmt.Sprintf("party size must be between 1 and 12, got %v", fe.Value())
	case "EquipmentID":
		return "equipment ID is required"
	case "SubEquipmentID":
		return "sub-equipment ID is required"
	}
	return fe.Error()
}
