/*
Package document provides the per-user remote planner repository.

PURPOSE:
  Implements planner.Repository over GORM. Each signed-in user owns one
  document per day plus one user document holding the holiday settings,
  mirroring a users/{uid}/days/{date} document layout.

TABLES:
  day_documents:  (user_id, date) -> DayRecord JSON
  user_documents: user_id -> HolidaySettings JSON

DIALECTS:
  postgres  production (JSONB columns)
  sqlite    tests and single-node setups

USAGE:
  db, err := document.Open("postgres", dsn)
  ...
  repo := document.New(db, userID)
*/
package document

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/warp/year-planner/planner"
)

// DayDocument stores one day record of one user.
type DayDocument struct {
	UserID    string                                `gorm:"primaryKey;size:128"`
	Date      string                                `gorm:"primaryKey;size:10"`
	Data      datatypes.JSONType[planner.DayRecord] `gorm:"not null"`
	UpdatedAt time.Time
}

// UserDocument stores per-user settings.
type UserDocument struct {
	UserID    string                                      `gorm:"primaryKey;size:128"`
	Settings  datatypes.JSONType[planner.HolidaySettings] `gorm:"not null"`
	UpdatedAt time.Time
}

// Open connects with the given dialect ("postgres" or "sqlite") and migrates.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = gormsqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported document driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("db.DB(): %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&DayDocument{}, &UserDocument{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Store is the repository of a single user.
type Store struct {
	db     *gorm.DB
	userID string
}

func New(db *gorm.DB, userID string) *Store {
	return &Store{db: db, userID: userID}
}

func (s *Store) UserID() string { return s.userID }

func (s *Store) GetDayRecord(ctx context.Context, date string) (*planner.DayRecord, error) {
	var docs []DayDocument
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", s.userID, date).
		Limit(1).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("get day %s: %w", date, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	rec := docs[0].Data.Data()
	return &rec, nil
}

func (s *Store) SaveDayRecord(ctx context.Context, rec planner.DayRecord) error {
	return s.upsertDays(s.db.WithContext(ctx), []planner.DayRecord{rec})
}

// SaveDayRecords writes all records in one database transaction.
func (s *Store) SaveDayRecords(ctx context.Context, recs []planner.DayRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.upsertDays(tx, recs)
	})
}

func (s *Store) upsertDays(db *gorm.DB, recs []planner.DayRecord) error {
	if len(recs) == 0 {
		return nil
	}
	docs := make([]DayDocument, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, DayDocument{
			UserID: s.userID,
			Date:   rec.Date,
			Data:   datatypes.NewJSONType(rec),
		})
	}
	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&docs).Error
	if err != nil {
		return fmt.Errorf("save days: %w", err)
	}
	return nil
}

func (s *Store) GetAllDayRecords(ctx context.Context) (map[string]planner.DayRecord, error) {
	var docs []DayDocument
	err := s.db.WithContext(ctx).
		Where("user_id = ?", s.userID).
		Order("date ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	result := make(map[string]planner.DayRecord, len(docs))
	for _, d := range docs {
		result[d.Date] = d.Data.Data()
	}
	return result, nil
}

func (s *Store) GetSettings(ctx context.Context) (*planner.HolidaySettings, error) {
	var docs []UserDocument
	err := s.db.WithContext(ctx).
		Where("user_id = ?", s.userID).
		Limit(1).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	settings := docs[0].Settings.Data()
	return &settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings planner.HolidaySettings) error {
	doc := UserDocument{UserID: s.userID, Settings: datatypes.NewJSONType(settings)}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SearchPlans filters the user's documents in memory.
func (s *Store) SearchPlans(ctx context.Context, query string) ([]planner.Plan, error) {
	days, err := s.GetAllDayRecords(ctx)
	if err != nil {
		return nil, err
	}
	return planner.SearchDays(days, query), nil
}
