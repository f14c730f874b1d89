package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/riskzones-backend-go/internal/database"
	"github.com/jengzang/riskzones-backend-go/internal/models"
)

// TimeLayout is the storage format of occurred_at
const TimeLayout = "2006-01-02 15:04:05"

// ErrUnknownField is returned for suggestion lookups on a column that is not
// searchable
var ErrUnknownField = errors.New("unknown search field")

const incidentColumns = `id, occurred_at, light, category, severity,
	injured_count, dead_count, participants_count,
	region, parent_region, address, lat, lon, weather, road_conditions`

// IncidentRepository handles database operations for traffic incidents
type IncidentRepository struct {
	db      *sql.DB
	ignored []string // tag values dropped while decoding condition lists
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *sql.DB, ignoredTags ...string) *IncidentRepository {
	return &IncidentRepository{db: db, ignored: ignoredTags}
}

func buildWhere(region, category string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if region != "" {
		conditions = append(conditions, "region = ?")
		args = append(args, region)
	}
	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// FetchWorkingSet returns the most recent incidents matching the query, at
// most q.Limit of them. Rows without coordinates are not part of a working set.
func (r *IncidentRepository) FetchWorkingSet(ctx context.Context, q models.ClusterQuery) ([]models.Incident, error) {
	where, args := buildWhere(q.Region, q.Category)
	if where == "" {
		where = " WHERE lat IS NOT NULL AND lon IS NOT NULL"
	} else {
		where += " AND lat IS NOT NULL AND lon IS NOT NULL"
	}

	query := "SELECT " + incidentColumns + " FROM dtp_events" + where + " ORDER BY occurred_at DESC, id DESC LIMIT ?"
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query working set: %w", err)
	}
	defer rows.Close()

	return r.scanIncidents(rows)
}

// ListEvents retrieves a page of incidents, newest first, with the total
// number of matching rows
func (r *IncidentRepository) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Incident, int64, error) {
	where, args := buildWhere(filter.Region, filter.Category)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dtp_events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	query := "SELECT " + incidentColumns + " FROM dtp_events" + where + " ORDER BY occurred_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	items, err := r.scanIncidents(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Suggest returns distinct values of a searchable column starting with prefix
func (r *IncidentRepository) Suggest(ctx context.Context, field, prefix string, limit int) ([]string, error) {
	switch field {
	case "region", "category":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	query := fmt.Sprintf(`SELECT %[1]s FROM dtp_events
		WHERE %[1]s IS NOT NULL AND %[1]s != '' AND %[1]s LIKE ? ESCAPE '\'
		GROUP BY %[1]s
		ORDER BY %[1]s
		LIMIT ?`, field)

	rows, err := r.db.QueryContext(ctx, query, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s suggestions: %w", field, err)
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Summary aggregates incidents with from <= occurred_at < to. Both bounds use
// TimeLayout.
func (r *IncidentRepository) Summary(ctx context.Context, from, to string) (*models.StatsSummary, error) {
	const where = " WHERE occurred_at >= ? AND occurred_at < ?"
	args := []interface{}{from, to}

	summary := &models.StatsSummary{}

	query := `SELECT COUNT(*), COALESCE(SUM(injured_count), 0), COALESCE(SUM(dead_count), 0)
		FROM dtp_events` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&summary.Total, &summary.Injured, &summary.Dead); err != nil {
		return nil, fmt.Errorf("failed to get incident totals: %w", err)
	}
	summary.Victims = summary.Injured + summary.Dead

	query = `SELECT substr(occurred_at, 1, 10) AS d, COUNT(*)
		FROM dtp_events` + where + `
		GROUP BY d
		ORDER BY d`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query per-day counts: %w", err)
	}
	summary.PerDay = []models.DayCount{}
	for rows.Next() {
		var dc models.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan per-day count: %w", err)
		}
		summary.PerDay = append(summary.PerDay, dc)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read per-day counts: %w", err)
	}

	if summary.Severity, err = r.breakdown(ctx, "severity", where, args, 0); err != nil {
		return nil, err
	}
	if summary.Categories, err = r.breakdown(ctx, "category", where, args, 0); err != nil {
		return nil, err
	}
	// districts are the first component of the region list
	district := `CASE WHEN instr(region, ',') > 0 THEN substr(region, 1, instr(region, ',') - 1) ELSE region END`
	if summary.Districts, err = r.breakdown(ctx, district, where, args, 50); err != nil {
		return nil, err
	}
	if summary.Conditions, err = r.conditions(ctx, where, args); err != nil {
		return nil, err
	}

	return summary, nil
}

// breakdown counts rows per trimmed value of expr; blanks are reported as "—"
func (r *IncidentRepository) breakdown(ctx context.Context, expr, where string, args []interface{}, limit int) ([]models.LabelCount, error) {
	query := `SELECT COALESCE(NULLIF(TRIM(` + expr + `), ''), '—') AS k, COUNT(*) AS c
		FROM dtp_events` + where + `
		GROUP BY k
		ORDER BY c DESC, k`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query breakdown: %w", err)
	}
	defer rows.Close()

	return scanLabelCounts(rows)
}

// conditions counts weather and road tags together
func (r *IncidentRepository) conditions(ctx context.Context, where string, args []interface{}) ([]models.LabelCount, error) {
	query := `SELECT tag, SUM(cnt) AS c FROM (
			SELECT j.value AS tag, COUNT(*) AS cnt
			FROM dtp_events e, json_each(CASE WHEN json_valid(e.weather) THEN e.weather ELSE '[]' END) j` + where + ` AND j.type = 'text'
			GROUP BY j.value
			UNION ALL
			SELECT j.value AS tag, COUNT(*) AS cnt
			FROM dtp_events e, json_each(CASE WHEN json_valid(e.road_conditions) THEN e.road_conditions ELSE '[]' END) j` + where + ` AND j.type = 'text'
			GROUP BY j.value
		)
		GROUP BY tag
		ORDER BY c DESC, tag
		LIMIT 50`

	rows, err := r.db.QueryContext(ctx, query, append(append([]interface{}{}, args...), args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conditions: %w", err)
	}
	defer rows.Close()

	return scanLabelCounts(rows)
}

func scanLabelCounts(rows *sql.Rows) ([]models.LabelCount, error) {
	out := []models.LabelCount{}
	for rows.Next() {
		var lc models.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan label count: %w", err)
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// InsertIncidents upserts incidents in a single transaction and returns the
// number written
func (r *IncidentRepository) InsertIncidents(ctx context.Context, incidents []models.Incident) (int, error) {
	query := `INSERT OR REPLACE INTO dtp_events (` + incidentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, inc := range incidents {
			_, err := stmt.ExecContext(ctx,
				inc.ID,
				inc.OccurredAt.Format(TimeLayout),
				nullString(inc.Light),
				nullString(inc.Category),
				nullString(inc.Severity),
				inc.InjuredCount,
				inc.DeadCount,
				inc.ParticipantsCount,
				nullString(inc.Region),
				nullString(inc.ParentRegion),
				nullString(inc.Address),
				inc.Lat,
				inc.Lon,
				inc.Weather.JSON(),
				inc.RoadConditions.JSON(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert incident %d: %w", inc.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(incidents), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *IncidentRepository) scanIncidents(rows *sql.Rows) ([]models.Incident, error) {
	items := []models.Incident{}
	for rows.Next() {
		var (
			inc                           models.Incident
			occurredAt                    string
			light, category, severity     sql.NullString
			region, parentRegion, address sql.NullString
			lat, lon                      sql.NullFloat64
			weather, road                 sql.NullString
		)
		err := rows.Scan(
			&inc.ID, &occurredAt, &light, &category, &severity,
			&inc.InjuredCount, &inc.DeadCount, &inc.ParticipantsCount,
			&region, &parentRegion, &address, &lat, &lon, &weather, &road,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}

		inc.OccurredAt, err = ParseTime(occurredAt)
		if err != nil {
			return nil, fmt.Errorf("incident %d: %w", inc.ID, err)
		}
		inc.Light = light.String
		inc.Category = category.String
		inc.Severity = severity.String
		inc.Region = region.String
		inc.ParentRegion = parentRegion.String
		inc.Address = address.String
		inc.Lat = lat.Float64
		inc.Lon = lon.Float64
		inc.Weather = models.ParseTagSet(weather.String, r.ignored...)
		inc.RoadConditions = models.ParseTagSet(road.String, r.ignored...)

		items = append(items, inc)
	}
	return items, rows.Err()
}

// ParseTime reads a stored timestamp. Wall-clock fields are kept as stored,
// so the hour of day is the local hour of the incident.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{TimeLayout, "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid occurred_at %q", s)
}
