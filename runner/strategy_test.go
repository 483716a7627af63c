package runner

import (
	"context"
	"errors"
	"testing"

	"campground-scanner/models"
	"campground-scanner/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanner struct {
	records []models.AvailabilityRecord
	err     error
}

func (s stubScanner) Scan(context.Context, []models.ScanRequest, models.SearchSettings) ([]models.AvailabilityRecord, error) {
	return s.records, s.err
}

func TestSelect(t *testing.T) {
	direct := NewInProcess(stubScanner{})
	worker := &Worker{}

	cases := []struct {
		mode, goos string
		want       Strategy
	}{
		{ModeAuto, "windows", worker},
		{ModeAuto, "linux", direct},
		{ModeAuto, "darwin", direct},
		{"", "windows", worker},
		{ModeDirect, "windows", direct},
		{"Worker", "linux", worker},
	}
	for _, tc := range cases {
		got, err := Select(tc.mode, tc.goos, direct, worker)
		require.NoError(t, err, tc.mode+"/"+tc.goos)
		assert.Same(t, tc.want, got, tc.mode+"/"+tc.goos)
	}

	_, err := Select("threads", "linux", direct, worker)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scan mode "threads"`)
}

func TestInProcess_PassesRecordsThrough(t *testing.T) {
	want := []models.AvailabilityRecord{{Campground: "Killbear", UnitName: "Site 1", Status: "Available"}}
	records, err := NewInProcess(stubScanner{records: want}).Run(context.Background(), nil, models.SearchSettings{})
	require.NoError(t, err)
	assert.Equal(t, want, records)
}

func TestInProcess_StartupFailureCarriesHint(t *testing.T) {
	cause := errors.New("exec: \"google-chrome\": executable file not found in $PATH")
	records, err := NewInProcess(stubScanner{err: &scraper.StartupError{Cause: cause}}).Run(context.Background(), nil, models.SearchSettings{})

	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), InstallHint)
}

func TestInProcess_OtherFailuresUnchanged(t *testing.T) {
	cause := errors.New(`opening page for "Killbear": target crashed`)
	records, err := NewInProcess(stubScanner{records: []models.AvailabilityRecord{{}}, err: cause}).Run(context.Background(), nil, models.SearchSettings{})

	assert.Nil(t, records)
	assert.Equal(t, cause, err)
}
