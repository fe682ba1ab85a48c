package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"nova-stays-server/models"

	"gorm.io/gorm"
)

const (
	feedDateLayout   = "20060102"
	defaultMinNights = 2
)

// RawFeedEntry is one nightly record from the channel manager. Both fields
// arrive as strings and either may be absent: an absent price means "unset"
// (the zero sentinel, not free), an absent minimum defaults to 2.
type RawFeedEntry struct {
	Price     string `json:"p1"`
	MinNights string `json:"m"`
}

// RawFeed maps YYYYMMDD date keys to nightly records. Feeds also embed
// status/error fields beside the date keys; those are tolerated and skipped.
type RawFeed map[string]RawFeedEntry

// SyncReport aggregates a bulk run. Per-property failures are counted, never
// propagated: one broken feed must not abort the other properties' sync.
type SyncReport struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Baseline season anchors: classification by calendar position alone, before
// any price deviation analysis. The market peaks over the southern-hemisphere
// summer, so "peak" wraps the year end.
var (
	peakStart = models.DayMonth{Day: 20, Month: 12}
	peakEnd   = models.DayMonth{Day: 15, Month: 2}

	midSpringStart = models.DayMonth{Day: 16, Month: 2}
	midSpringEnd   = models.DayMonth{Day: 31, Month: 3}
	midAutumnStart = models.DayMonth{Day: 1, Month: 11}
	midAutumnEnd   = models.DayMonth{Day: 19, Month: 12}
)

// BaselineSeason classifies a day-month by calendar position alone.
func BaselineSeason(dm models.DayMonth) string {
	switch {
	case dm.InRange(peakStart, peakEnd):
		return models.SeasonPeak
	case dm.InRange(midSpringStart, midSpringEnd), dm.InRange(midAutumnStart, midAutumnEnd):
		return models.SeasonMid
	default:
		return models.SeasonLow
	}
}

// ChannelSyncService turns the channel manager's raw nightly feed into season
// periods and replaces each property's season table with the result.
type ChannelSyncService struct {
	db      *gorm.DB
	seasons *SeasonService
	client  *http.Client
	markup  float64
}

func NewChannelSyncService(db *gorm.DB, seasons *SeasonService, markup float64, fetchTimeout time.Duration) *ChannelSyncService {
	if markup <= 0 {
		markup = 1.3
	}
	return &ChannelSyncService{
		db:      db,
		seasons: seasons,
		client:  &http.Client{Timeout: fetchTimeout},
		markup:  markup,
	}
}

type feedDay struct {
	date      time.Time
	price     float64
	minNights int
}

type feedPeriod struct {
	start     time.Time
	end       time.Time
	price     float64
	minNights int
	baseline  string
}

// ParseFeed decodes a raw payload. Non-object values (status or error fields
// beside the date keys) and malformed entries are dropped, not fatal.
func ParseFeed(data []byte) (RawFeed, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed feed payload: %w", err)
	}

	feed := make(RawFeed, len(raw))
	for key, value := range raw {
		// Unmarshalling null (or a non-object) into a struct is not an
		// error, so filter on the raw value before decoding.
		value = bytes.TrimSpace(value)
		if len(value) == 0 || value[0] != '{' {
			continue
		}
		var entry RawFeedEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			continue
		}
		feed[key] = entry
	}
	return feed, nil
}

// Normalize run-length-encodes the nightly feed into season periods.
//
// Dates are sorted ascending and grouped while (price, minimumNights) stay
// identical AND the days are calendar-adjacent; a gap breaks the run. Each
// period is classified by its baseline season, then re-classified by price
// deviation from the baseline's average. Output periods keep day-month only
// (the fed year is discarded) and carry the marked-up price, with the raw
// channel price retained in SourcePrice for audit.
func (s *ChannelSyncService) Normalize(feed RawFeed) []models.SeasonPeriod {
	days := make([]feedDay, 0, len(feed))
	for key, entry := range feed {
		date, err := time.Parse(feedDateLayout, key)
		if err != nil {
			continue // status/error key, not a date
		}

		price := 0.0
		if entry.Price != "" {
			if p, err := strconv.ParseFloat(entry.Price, 64); err == nil && p >= 0 {
				price = p
			}
		}
		minNights := defaultMinNights
		if entry.MinNights != "" {
			if m, err := strconv.Atoi(entry.MinNights); err == nil && m >= 1 {
				minNights = m
			}
		}

		days = append(days, feedDay{date: DateOnly(date), price: price, minNights: minNights})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	var periods []feedPeriod
	for _, day := range days {
		if n := len(periods); n > 0 {
			prev := &periods[n-1]
			adjacent := day.date.Equal(prev.end.AddDate(0, 0, 1))
			if adjacent && day.price == prev.price && day.minNights == prev.minNights {
				prev.end = day.date
				continue
			}
		}
		periods = append(periods, feedPeriod{
			start:     day.date,
			end:       day.date,
			price:     day.price,
			minNights: day.minNights,
		})
	}

	for i := range periods {
		start := models.DayMonth{Day: periods[i].start.Day(), Month: int(periods[i].start.Month())}
		periods[i].baseline = BaselineSeason(start)
	}

	averages := baselineAverages(periods)

	out := make([]models.SeasonPeriod, 0, len(periods))
	for _, p := range periods {
		start := models.DayMonth{Day: p.start.Day(), Month: int(p.start.Month())}
		end := models.DayMonth{Day: p.end.Day(), Month: int(p.end.Month())}

		out = append(out, models.SeasonPeriod{
			SeasonType:    classifyPeriod(p, averages),
			StartDayMonth: start.String(),
			EndDayMonth:   end.String(),
			PricePerNight: math.Round(p.price*s.markup*100) / 100,
			MinimumNights: p.minNights,
			SourcePrice:   p.price,
			Origin:        "channel",
		})
	}
	return out
}

// baselineAverages computes the mean nightly price per baseline season over
// the priced periods. Zero-priced periods mean "unset", not "free", and are
// excluded; a baseline with no priced periods at all borrows the overall
// average so deviation analysis still has a reference point.
func baselineAverages(periods []feedPeriod) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	overallSum, overallCount := 0.0, 0

	for _, p := range periods {
		if p.price <= 0 {
			continue
		}
		sums[p.baseline] += p.price
		counts[p.baseline]++
		overallSum += p.price
		overallCount++
	}

	overall := 0.0
	if overallCount > 0 {
		overall = overallSum / float64(overallCount)
	}

	averages := make(map[string]float64, 3)
	for _, season := range []string{models.SeasonLow, models.SeasonMid, models.SeasonPeak} {
		if counts[season] > 0 {
			averages[season] = sums[season] / float64(counts[season])
		} else {
			averages[season] = overall
		}
	}
	return averages
}

// classifyPeriod upgrades or downgrades a period from its baseline according
// to how far its price deviates from the baseline average. Peak periods stay
// peak; zero-priced periods keep their baseline since there is nothing to
// compare.
func classifyPeriod(p feedPeriod, averages map[string]float64) string {
	if p.price <= 0 || p.baseline == models.SeasonPeak {
		return p.baseline
	}

	avg := averages[p.baseline]
	if avg <= 0 {
		return p.baseline
	}

	switch p.baseline {
	case models.SeasonMid:
		if p.price > avg*1.5 {
			return models.SeasonPrime
		}
		if p.price > avg*1.15 || p.price < avg*0.85 {
			return models.SeasonHoliday
		}
		return models.SeasonMid
	case models.SeasonLow:
		if p.price > avg*1.15 {
			return models.SeasonHoliday
		}
		return models.SeasonLow
	default:
		return p.baseline
	}
}

// FetchFeed pulls a property's raw nightly feed under the client timeout.
func (s *ChannelSyncService) FetchFeed(ctx context.Context, url string) (RawFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channel feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseFeed(body)
}

// SyncProperty fetches, normalizes and replaces one property's season table.
func (s *ChannelSyncService) SyncProperty(ctx context.Context, property *models.Property) error {
	if property.ChannelFeedURL == "" {
		return fmt.Errorf("property %d has no channel feed url", property.ID)
	}

	feed, err := s.FetchFeed(ctx, property.ChannelFeedURL)
	if err != nil {
		return err
	}

	periods := s.Normalize(feed)
	_, err = s.seasons.Replace(property.ID, periods)
	return err
}

// SyncAll runs the price sync across every channel-connected property.
// Failures are logged and counted per property; the run itself never fails
// because one feed did.
func (s *ChannelSyncService) SyncAll(ctx context.Context) (SyncReport, error) {
	var properties []models.Property
	if err := s.db.Where("channel_feed_url <> ''").Find(&properties).Error; err != nil {
		return SyncReport{}, err
	}

	run := models.SyncRun{Kind: models.SyncKindChannel, StartedAt: time.Now().UTC()}
	report := SyncReport{}

	for i := range properties {
		if err := s.SyncProperty(ctx, &properties[i]); err != nil {
			log.Printf("channel sync failed for property %d: %v", properties[i].ID, err)
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
