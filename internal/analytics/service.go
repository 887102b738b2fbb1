package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"zomaksho/internal/events"
	"zomaksho/internal/storage"

	log "github.com/sirupsen/logrus"
)

const (
	statsWindow  = 500
	reportWindow = 1000
)

var ErrStorageUnavailable = errors.New("report storage is not configured")

// Report describes an exported search report.
type Report struct {
	Key        string      `json:"key"`
	URL        string      `json:"url"`
	EventCount int         `json:"event_count"`
	Stats      SearchStats `json:"stats"`
	CreatedAt  time.Time   `json:"created_at"`
}

type Service struct {
	dashboard *Dashboard
	events    events.Repository
	uploader  storage.Uploader
	now       func() time.Time
}

// NewService accepts a nil uploader; exports then fail with
// ErrStorageUnavailable.
func NewService(dashboard *Dashboard, repo events.Repository, uploader storage.Uploader) *Service {
	return &Service{
		dashboard: dashboard,
		events:    repo,
		uploader:  uploader,
		now:       time.Now,
	}
}

func (s *Service) Dashboard() *Dashboard {
	return s.dashboard
}

func (s *Service) SearchStats(ctx context.Context) (SearchStats, error) {
	evts, err := s.events.ListRecent(ctx, statsWindow)
	if err != nil {
		return SearchStats{}, fmt.Errorf("list search events: %w", err)
	}
	return ComputeSearchStats(evts), nil
}

// ExportSearchReport uploads recent events and their stats as one JSON
// document and returns where it was stored.
func (s *Service) ExportSearchReport(ctx context.Context) (*Report, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}

	evts, err := s.events.ListRecent(ctx, reportWindow)
	if err != nil {
		return nil, fmt.Errorf("list search events: %w", err)
	}

	now := s.now().UTC()
	report := &Report{
		Key:        fmt.Sprintf("reports/searches/%s.json", now.Format("20060102T150405Z")),
		EventCount: len(evts),
		Stats:      ComputeSearchStats(evts),
		CreatedAt:  now,
	}

	body, err := json.Marshal(struct {
		*Report
		Events []events.SearchEvent `json:"events"`
	}{Report: report, Events: evts})
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, report.Key, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}
	report.URL = url

	log.WithFields(log.Fields{
		"key":    report.Key,
		"events": report.EventCount,
	}).Info("search report exported")

	return report, nil
}
