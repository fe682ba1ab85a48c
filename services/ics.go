package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"nova-stays-server/models"

	ical "github.com/arran4/golang-ical"
	"gorm.io/gorm"
)

// CalendarEvent is one blocked range from an external calendar. Both bounds
// are inclusive: unlike guest stays there is no turnover day, the whole
// reported range is unavailable.
type CalendarEvent struct {
	Start   time.Time
	End     time.Time
	Summary string
}

// CalendarImportService mirrors external ICS calendars into per-day
// CalendarBlock rows.
type CalendarImportService struct {
	db     *gorm.DB
	client *http.Client
}

func NewCalendarImportService(db *gorm.DB, fetchTimeout time.Duration) *CalendarImportService {
	return &CalendarImportService{
		db:     db,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// ParseICS extracts blocked ranges from an ICS payload. Events that fail to
// parse are skipped so one bad VEVENT cannot sink the whole calendar.
func ParseICS(body []byte) ([]CalendarEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]CalendarEvent, 0)
	for _, ve := range cal.Events() {
		start, err := ve.GetStartAt()
		if err != nil {
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}

		summary := ""
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			summary = p.Value
		}

		events = append(events, CalendarEvent{
			Start:   DateOnly(start),
			End:     DateOnly(end),
			Summary: summary,
		})
	}
	return events, nil
}

// ImportEvents replaces the property's ics-origin blocks with the given
// events, expanded day by day from start to end INCLUSIVE. Manual blocks are
// untouched. The swap is transactional: a failure leaves the previous import
// in place rather than a half-written range.
func (s *CalendarImportService) ImportEvents(propertyID uint, events []CalendarEvent) (int, error) {
	inserted := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ? AND origin = ?", propertyID, models.BlockOriginICS).
			Unscoped().
			Delete(&models.CalendarBlock{}).Error; err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, event := range events {
			if event.End.Before(event.Start) {
				continue
			}
			for d := event.Start; !d.After(event.End); d = d.AddDate(0, 0, 1) {
				key := DateKey(d)
				if seen[key] {
					continue
				}
				seen[key] = true

				block := models.CalendarBlock{
					PropertyID:  propertyID,
					BlockedDate: d,
					Reason:      event.Summary,
					Origin:      models.BlockOriginICS,
				}
				if err := tx.Create(&block).Error; err != nil {
					return err
				}
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// SyncProperty fetches and imports one property's external calendar.
func (s *CalendarImportService) SyncProperty(ctx context.Context, property *models.Property) error {
	if property.CalendarImportURL == "" {
		return fmt.Errorf("property %d has no calendar import url", property.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, property.CalendarImportURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	events, err := ParseICS(body)
	if err != nil {
		return err
	}

	_, err = s.ImportEvents(property.ID, events)
	return err
}

// SyncAll imports calendars for every property with an import URL, isolating
// per-property failures.
func (s *CalendarImportService) SyncAll(ctx context.Context) (SyncReport, error) {
	var properties []models.Property
	if err := s.db.Where("calendar_import_url <> ''").Find(&properties).Error; err != nil {
		return SyncReport{}, err
	}

	run := models.SyncRun{Kind: models.SyncKindCalendar, StartedAt: time.Now().UTC()}
	report := SyncReport{}

	for i := range properties {
		if err := s.SyncProperty(ctx, &properties[i]); err != nil {
			log.Printf("calendar import failed for property %d: %v", properties[i].ID, err)
			report.Failed++
			continue
		}
		report.Success++
	}

	run.Success = report.Success
	run.Failed = report.Failed
	run.FinishedAt = time.Now().UTC()
	if err := s.db.Create(&run).Error; err != nil {
		log.Printf("could not record sync run: %v", err)
	}

	return report, nil
}
