package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/megumiii12/athlete/internal/config"
	"github.com/megumiii12/athlete/internal/ids"
	"github.com/megumiii12/athlete/internal/models"
	"github.com/megumiii12/athlete/internal/vitals"
)

// ReadingStore is the durable append-only reading log boundary.
type ReadingStore interface {
	Insert(ctx context.Context, reading models.Reading) error
	Latest(ctx context.Context, athleteID int) (models.Reading, error)
	History(ctx context.Context, athleteID int, since time.Time) ([]models.Reading, error)
	AbnormalTempHistory(ctx context.Context, athleteID int, threshold float64, since time.Time) ([]models.Reading, error)
}

// ReadingService classifies incoming readings and persists them with
// their verdict. Verdicts are computed exactly once at ingestion.
type ReadingService struct {
	readings   ReadingStore
	classifier vitals.Classifier
	cache      *redis.Client
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewReadingService(readings ReadingStore, classifier vitals.Classifier, cache *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *ReadingService {
	return &ReadingService{
		readings:   readings,
		classifier: classifier,
		cache:      cache,
		cfg:        cfg,
		log:        log,
	}
}

// Ingest records a reading on the authenticated path. The athlete
// identity comes from the resolved session, never from the payload, and
// the athlete's registered age drives the thresholds.
func (s *ReadingService) Ingest(ctx context.Context, user models.PublicUser, heartRate, temperature float64) (models.Reading, vitals.Prediction, error) {
	age := vitals.DefaultAge
	if user.Age != nil {
		age = *user.Age
	}
	return s.record(ctx, user.ID, heartRate, temperature, age)
}

// IngestDevice records a reading on the unauthenticated device path.
// The athlete id is taken from the payload as-is: constrained sensors
// cannot hold session tokens, so ownership is not checked here. Keep
// this path separate from Ingest; device attestation would slot in here
// without touching the authenticated flow.
func (s *ReadingService) IngestDevice(ctx context.Context, athleteID int, heartRate, temperature float64) (models.Reading, vitals.Prediction, error) {
	return s.record(ctx, athleteID, heartRate, temperature, vitals.DefaultAge)
}

func (s *ReadingService) record(ctx context.Context, athleteID int, heartRate, temperature float64, age int) (models.Reading, vitals.Prediction, error) {
	prediction := s.classifier.Predict(heartRate, temperature, age)

	reading := models.Reading{
		ID:           ids.New(),
		AthleteID:    athleteID,
		HeartRate:    heartRate,
		Temperature:  temperature,
		IsAbnormal:   prediction.IsAbnormal == 1,
		AlertMessage: prediction.AlertMessage,
		RecordedAt:   time.Now().UTC(),
	}

	if err := s.readings.Insert(ctx, reading); err != nil {
		return models.Reading{}, vitals.Prediction{}, fmt.Errorf("persist reading: %w", err)
	}

	s.cacheLatest(ctx, reading)

	return reading, prediction, nil
}

// Latest serves the newest reading, preferring the cache.
func (s *ReadingService) Latest(ctx context.Context, athleteID int) (models.Reading, error) {
	if cached, ok := s.cachedLatest(ctx, athleteID); ok {
		return cached, nil
	}
	return s.readings.Latest(ctx, athleteID)
}

// History returns readings over the trailing window, oldest first.
func (s *ReadingService) History(ctx context.Context, athleteID int, hours int) ([]models.Reading, error) {
	if hours <= 0 {
		hours = s.cfg.Readings.HistoryHours
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	return s.readings.History(ctx, athleteID, since)
}

// AbnormalHistory returns elevated-temperature readings over the
// trailing window, newest first.
func (s *ReadingService) AbnormalHistory(ctx context.Context, athleteID int, threshold float64, hours int) ([]models.Reading, error) {
	if threshold <= 0 {
		threshold = s.cfg.Readings.TempThreshold
	}
	if hours <= 0 {
		hours = s.cfg.Readings.AbnormalHours
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	return s.readings.AbnormalTempHistory(ctx, athleteID, threshold, since)
}

func latestCacheKey(athleteID int) string {
	return fmt.Sprintf("athlete:latest:%d", athleteID)
}

// Cache writes are best effort; a dead cache never fails an ingest.
func (s *ReadingService) cacheLatest(ctx context.Context, reading models.Reading) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(reading)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, latestCacheKey(reading.AthleteID), payload, s.cfg.Readings.LatestCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Int("athlete_id", reading.AthleteID).Msg("cache latest reading failed")
	}
}

func (s *ReadingService) cachedLatest(ctx context.Context, athleteID int) (models.Reading, bool) {
	if s.cache == nil {
		return models.Reading{}, false
	}
	payload, err := s.cache.Get(ctx, latestCacheKey(athleteID)).Bytes()
	if err != nil {
		return models.Reading{}, false
	}
	var reading models.Reading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return models.Reading{}, false
	}
	return reading, true
}
