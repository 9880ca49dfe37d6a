//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

const (
	// SeedReferenceData inserts this clinician with working hours on every
	// weekday, 09:00-17:00.
	SeedClinicianID = int64(1)
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) int64 {
	t.Helper()

	ctx := context.Background()
	var userID int64
	err := db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role, display_name, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
		 RETURNING id`,
		email, testPasswordHash, role, "Test "+role).Scan(&userID)
	require.NoError(t, err)

	return userID
}

func CreateTestClinician(t *testing.T, db DBLike, displayName string) int64 {
	t.Helper()

	ctx := context.Background()
	var clinicianID int64
	err := db.QueryRow(ctx,
		`INSERT INTO clinicians (display_name, specialty) VALUES ($1, 'General') RETURNING id`,
		displayName).Scan(&clinicianID)
	require.NoError(t, err)

	return clinicianID
}

func CreateTestSchedule(t *testing.T, db DBLike, clinicianID int64, weekday time.Weekday, startTime, endTime string) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		`INSERT INTO clinician_schedules (clinician_id, weekday, start_time, end_time)
		 VALUES ($1, $2, $3::time, $4::time)
		 ON CONFLICT (clinician_id, weekday) DO UPDATE
		 SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time`,
		clinicianID, int(weekday), startTime, endTime)
	require.NoError(t, err)
}

func CreateTestPromotion(t *testing.T, db DBLike, title string, isActive bool) int64 {
	t.Helper()

	ctx := context.Background()
	var promotionID int64
	err := db.QueryRow(ctx,
		`INSERT INTO promotions (title, description, is_active, valid_from, valid_to)
		 VALUES ($1, 'seeded for tests', $2, now() - interval '1 day', now() + interval '30 days')
		 RETURNING id`,
		title, isActive).Scan(&promotionID)
	require.NoError(t, err)

	return promotionID
}

// SeedReferenceData inserts the baseline rows most tests lean on: one
// clinician with a full weekly schedule.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO clinicians (id, display_name, specialty)
		VALUES (1, 'Dr. Somsak', 'General Medicine')
		ON CONFLICT (id) DO NOTHING;
	`)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `SELECT setval('clinicians_id_seq', GREATEST(1, (SELECT MAX(id) FROM clinicians)))`); err != nil {
		return err
	}

	for weekday := 0; weekday <= 6; weekday++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO clinician_schedules (clinician_id, weekday, start_time, end_time)
			VALUES (1, $1, '09:00'::time, '17:00'::time)
			ON CONFLICT (clinician_id, weekday) DO NOTHING;
		`, weekday)
		if err != nil {
			return err
		}
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables and reseeds the reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})

	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
