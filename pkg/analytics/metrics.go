// Package analytics computes usage metrics over conversation rows. It does
// no I/O: callers fetch the rows for a window and pass them in.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agentsynergy/agentsynergy/pkg/db"
)

const (
	// HoursSavedPerConversation is the human time one handled conversation replaces.
	HoursSavedPerConversation = 0.25
	// HourlyRate is the value of one hour of human time, in dollars.
	HourlyRate = 50.0
)

// Trend directions
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SuccessRate is completed/total*100 rounded to two decimals, or 0 when
// there are no conversations.
func SuccessRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(completed) / float64(total) * 100)
}

// TimeSavedHours is the estimated human time saved by n conversations.
func TimeSavedHours(n int) float64 {
	return float64(n) * HoursSavedPerConversation
}

// CostSavings is the dollar value of the time saved by n conversations.
func CostSavings(n int) float64 {
	return TimeSavedHours(n) * HourlyRate
}

// SubscriptionROI compares savings against a flat subscription price.
func SubscriptionROI(costSavings, subscriptionCost float64) float64 {
	if subscriptionCost <= 0 {
		return 0
	}
	return costSavings / subscriptionCost * 100
}

// UsageROI compares savings against the summed per-conversation cost.
func UsageROI(costSavings, totalCost float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	return (costSavings - totalCost) / totalCost * 100
}

// BreakEvenConversations is how many conversations pay for the subscription.
func BreakEvenConversations(subscriptionCost float64) float64 {
	return subscriptionCost / (HoursSavedPerConversation * HourlyRate)
}

// Counts tallies conversations by outcome.
type Counts struct {
	Total     int
	Completed int
	Failed    int
	Active    int
	Pending   int
	TotalCost float64
}

func Count(convs []db.Conversation) Counts {
	var c Counts
	for _, conv := range convs {
		c.Total++
		c.TotalCost += conv.Cost
		switch conv.Status {
		case db.ConversationStatusCompleted:
			c.Completed++
		case db.ConversationStatusFailed:
			c.Failed++
		case db.ConversationStatusActive:
			c.Active++
		case db.ConversationStatusPending:
			c.Pending++
		}
	}
	return c
}

func CountByStatus(convs []db.Conversation) map[string]int {
	out := map[string]int{}
	for _, c := range convs {
		out[c.Status]++
	}
	return out
}

func CountByType(convs []db.Conversation) map[string]int {
	out := map[string]int{}
	for _, c := range convs {
		out[c.ConversationType]++
	}
	return out
}

// DayKey is the UTC calendar date of t, e.g. 2026-03-14.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WeekKey is the ISO year and week of t, e.g. 2026-W07. The year is part of
// the key so the same week number in different years never merges.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func DailyCounts(convs []db.Conversation) map[string]int {
	out := map[string]int{}
	for _, c := range convs {
		out[DayKey(c.CreatedAt)]++
	}
	return out
}

func WeeklyCounts(convs []db.Conversation) map[string]int {
	out := map[string]int{}
	for _, c := range convs {
		out[WeekKey(c.CreatedAt)]++
	}
	return out
}

func DailyCosts(convs []db.Conversation) map[string]float64 {
	out := map[string]float64{}
	for _, c := range convs {
		out[DayKey(c.CreatedAt)] += c.Cost
	}
	for k, v := range out {
		out[k] = Round2(v)
	}
	return out
}

func CostByAgent(convs []db.Conversation) map[string]float64 {
	out := map[string]float64{}
	for _, c := range convs {
		out[c.AgentID] += c.Cost
	}
	for k, v := range out {
		out[k] = Round2(v)
	}
	return out
}

// GrowthRate compares the earliest and latest week buckets, in percent.
// It is 0 with fewer than two buckets or an empty first bucket.
func GrowthRate(weekly map[string]int) float64 {
	if len(weekly) < 2 {
		return 0
	}
	keys := make([]string, 0, len(weekly))
	for k := range weekly {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	first, last := weekly[keys[0]], weekly[keys[len(keys)-1]]
	if first <= 0 {
		return 0
	}
	return float64(last-first) / float64(first) * 100
}

func TrendDirection(growthRate float64) string {
	switch {
	case growthRate > 0:
		return TrendIncreasing
	case growthRate < 0:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
