package dates

import (
	cryptorand "crypto/rand"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

// Resolver computes the target settlement/trade date of an assessment.
// The reference year is injected (config) so tests can vary it.
type Resolver struct {
	referenceYear int
}

func NewResolver(referenceYear int) *Resolver {
	return &Resolver{referenceYear: referenceYear}
}

// Resolve returns an explicit settlement_date verbatim with reason
// "provided". Otherwise target_month (1-12) selects a month of the
// reference year and the day is randomly day 15 or the last calendar day,
// reproducible when random_seed is supplied. Format validity of an explicit
// date is the caller's concern, not checked here.
func (r *Resolver) Resolve(req models.AssessmentRequest) (models.TargetDate, error) {
	if settlement := req.ConfigString("settlement_date"); settlement != "" {
		return models.TargetDate{Date: settlement, Reason: "provided"}, nil
	}

	monthValue, ok := req.ConfigValue("target_month", "month")
	if !ok {
		return models.TargetDate{}, fmt.Errorf("target_month is required when settlement_date is omitted")
	}
	month, err := coerceInt(monthValue)
	if err != nil {
		return models.TargetDate{}, fmt.Errorf("target_month must be an integer from 1 to 12")
	}
	if month < 1 || month > 12 {
		return models.TargetDate{}, fmt.Errorf("target_month must be between 1 and 12")
	}

	lastDay := LastDayOfMonth(r.referenceYear, time.Month(month))
	day := lastDay
	if r.pickFirst(req) {
		day = 15
	}
	date := time.Date(r.referenceYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return models.TargetDate{
		Date:   util.FormatISODate(date),
		Reason: fmt.Sprintf("random-day-%d", day),
	}, nil
}

// pickFirst chooses between day 15 (true) and the last day (false).
func (r *Resolver) pickFirst(req models.AssessmentRequest) bool {
	if seedValue, ok := req.ConfigValue("random_seed"); ok {
		if seed, err := coerceInt64(seedValue); err == nil {
			rng := rand.New(rand.NewSource(seed))
			return rng.Intn(2) == 0
		}
	}
	var b [1]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		// crypto source failing is effectively impossible; fall back to time
		return time.Now().UnixNano()%2 == 0
	}
	return b[0]%2 == 0
}

// ValidateMonth checks that a raw config value is a usable month number.
func ValidateMonth(v interface{}) error {
	month, err := coerceInt(v)
	if err != nil {
		return fmt.Errorf("target_month must be an integer from 1 to 12")
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("target_month must be between 1 and 12")
	}
	return nil
}

// LastDayOfMonth returns the number of the last calendar day of a month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayDiff returns the absolute difference between two dates in calendar days.
func DayDiff(a, b time.Time) int {
	diff := int(a.Sub(b).Hours() / 24)
	if diff < 0 {
		return -diff
	}
	return diff
}

// PreviousYear shifts a date one year back. Feb 29 steps back a day before
// the shift so the result stays in February.
func PreviousYear(t time.Time) time.Time {
	if t.Month() == time.February && t.Day() == 29 {
		t = t.AddDate(0, 0, -1)
	}
	return t.AddDate(-1, 0, 0)
}

func coerceInt(v interface{}) (int, error) {
	n, err := coerceInt64(v)
	return int(n), err
}

func coerceInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("not an integer: %v", x)
		}
		return int64(x), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		return 0, fmt.Errorf("not an integer: %T", v)
	}
}
