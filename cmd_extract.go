package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"campground-scanner/models"
	"campground-scanner/scraper"
	"campground-scanner/storage"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the extractors over a captured payload",
	Long: `Runs the availability extractors offline. --json feeds a captured network response body
to the structured extractor; --html and --text feed a saved page to the text extractor.
Records are printed as JSON.

` + statusHelp,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

var (
	extractCampground string
	extractJSONFile   string
	extractSource     string
	extractHTMLFile   string
	extractTextFile   string
)

func init() {
	extractCmd.Flags().StringVarP(&extractCampground, "campground", "c", "", "Campground name to stamp on records (required)")
	extractCmd.Flags().StringVar(&extractJSONFile, "json", "", "Captured JSON response body")
	extractCmd.Flags().StringVar(&extractSource, "source", "", "Source label for JSON records (default the file path)")
	extractCmd.Flags().StringVar(&extractHTMLFile, "html", "", "Saved HTML page")
	extractCmd.Flags().StringVar(&extractTextFile, "text", "", "Saved page text")

	if err := extractCmd.MarkFlagRequired("campground"); err != nil {
		panic(fmt.Sprintf("failed to mark campground flag as required: %v", err))
	}
	extractCmd.MarkFlagsMutuallyExclusive("json", "html", "text")
	extractCmd.MarkFlagsOneRequired("json", "html", "text")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	records, err := extractRecords()
	if err != nil {
		return err
	}
	newLogger().Info("Extracted %d records for '%s'", len(records), extractCampground)
	return storage.NewJSONWriter(cmd.OutOrStdout()).WriteRecords(records)
}

func extractRecords() ([]models.AvailabilityRecord, error) {
	switch {
	case extractJSONFile != "":
		data, err := os.ReadFile(extractJSONFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", extractJSONFile, err)
		}
		root, err := scraper.ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", extractJSONFile, err)
		}
		source := extractSource
		if source == "" {
			source = extractJSONFile
		}
		return scraper.ExtractFromJSON(root, extractCampground, source), nil

	case extractHTMLFile != "":
		data, err := os.ReadFile(extractHTMLFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", extractHTMLFile, err)
		}
		text, err := scraper.TextFromHTML(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return scraper.ExtractFromText(text, extractCampground), nil

	case extractTextFile != "":
		data, err := os.ReadFile(extractTextFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", extractTextFile, err)
		}
		return scraper.ExtractFromText(string(data), extractCampground), nil
	}
	return nil, errors.New("one of --json, --html or --text is required")
}
