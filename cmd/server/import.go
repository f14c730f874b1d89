package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/jengzang/riskzones-backend-go/internal/repository"
	"github.com/jengzang/riskzones-backend-go/internal/spatial"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Load a JSON array of incidents into the store",
	Long: `Reads a JSON array of incident objects (the same fields /api/v1/events
returns; occurred_at as "YYYY-MM-DD HH:MM:SS" or RFC 3339) and upserts them by id
in one transaction. Every record needs valid lat/lon and non-negative counts;
the first bad record aborts the import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		ctx := context.Background()
		rt, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer rt.db.Close()

		incidents, err := decodeIncidents(f, rt.clustering.Tags.Ignored...)
		if err != nil {
			return err
		}

		n, err := repository.NewIncidentRepository(rt.db).InsertIncidents(ctx, incidents)
		if err != nil {
			return err
		}
		rt.logger.Info("import complete", "file", args[0], "incidents", n)
		return nil
	},
}

// importRecord is the on-disk shape of one incident
type importRecord struct {
	ID                int64    `json:"id"`
	OccurredAt        string   `json:"occurred_at"`
	Light             string   `json:"light"`
	Category          string   `json:"category"`
	Severity          string   `json:"severity"`
	InjuredCount      int      `json:"injured_count"`
	DeadCount         int      `json:"dead_count"`
	ParticipantsCount int      `json:"participants_count"`
	Region            string   `json:"region"`
	ParentRegion      string   `json:"parent_region"`
	Address           string   `json:"address"`
	Lat               *float64 `json:"lat"`
	Lon               *float64 `json:"lon"`
	Weather           []string `json:"weather"`
	RoadConditions    []string `json:"road_conditions"`
}

func decodeIncidents(r io.Reader, ignoredTags ...string) ([]models.Incident, error) {
	var records []importRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode incidents: %w", err)
	}

	incidents := make([]models.Incident, 0, len(records))
	for i, rec := range records {
		if rec.ID <= 0 {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		// absent coordinates must not default to 0,0
		if rec.Lat == nil || rec.Lon == nil {
			return nil, fmt.Errorf("record %d (id %d): missing coordinates", i, rec.ID)
		}
		if !spatial.ValidCoordinate(*rec.Lat, *rec.Lon) {
			return nil, fmt.Errorf("record %d (id %d): invalid coordinates %v, %v", i, rec.ID, *rec.Lat, *rec.Lon)
		}
		if rec.InjuredCount < 0 || rec.DeadCount < 0 || rec.ParticipantsCount < 0 {
			return nil, fmt.Errorf("record %d (id %d): negative count", i, rec.ID)
		}
		occurredAt, err := repository.ParseTime(rec.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("record %d (id %d): %w", i, rec.ID, err)
		}

		incidents = append(incidents, models.Incident{
			ID:                rec.ID,
			OccurredAt:        occurredAt,
			Light:             rec.Light,
			Category:          rec.Category,
			Severity:          rec.Severity,
			InjuredCount:      rec.InjuredCount,
			DeadCount:         rec.DeadCount,
			ParticipantsCount: rec.ParticipantsCount,
			Region:            rec.Region,
			ParentRegion:      rec.ParentRegion,
			Address:           rec.Address,
			Lat:               *rec.Lat,
			Lon:               *rec.Lon,
			Weather:           models.NewTagSet(rec.Weather, ignoredTags...),
			RoadConditions:    models.NewTagSet(rec.RoadConditions, ignoredTags...),
		})
	}
	return incidents, nil
}
