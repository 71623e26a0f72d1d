package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/revision"
)

// ApplyQueueFilter derives a filtered, chronologically sorted view of a
// pending queue. The source slice is never mutated; the result is a fresh
// slice safe to hand to any view.
func ApplyQueueFilter(items []models.RevisionRequest, filter models.QueueFilter) []models.RevisionRequest {
	result := make([]models.RevisionRequest, 0, len(items))
	for _, item := range items {
		if matchesFilter(&item, filter) {
			result = append(result, item)
		}
	}

	ascending := filter.DateSort == models.DateSortOldest
	// Ties keep their original list order, so the sort must be stable.
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].SortTime(), result[j].SortTime()
		if ascending {
			return a.Before(b)
		}
		return b.Before(a)
	})

	return result
}

func matchesFilter(item *models.RevisionRequest, filter models.QueueFilter) bool {
	if filter.Action != "" && item.Kind != filter.Action {
		return false
	}

	cfg, _ := revision.Config(item.EntityType)

	if filter.SubType != "" {
		if subTypeValue(item, cfg.SubTypeField) != filter.SubType {
			return false
		}
	}

	if filter.Text != "" {
		needle := strings.ToLower(filter.Text)
		if !matchesText(item, cfg.SearchFields, needle) {
			return false
		}
	}

	return true
}

// matchesText OR-combines the searchable fields: any single match passes.
func matchesText(item *models.RevisionRequest, searchFields []string, needle string) bool {
	haystacks := []string{item.ID, item.Submitter.FullName, item.Submitter.Email}
	for _, key := range searchFields {
		if value := recordText(item.Proposed, key); value != "" {
			haystacks = append(haystacks, value)
		}
		if value := recordText(item.Original, key); value != "" {
			haystacks = append(haystacks, value)
		}
	}
	for _, haystack := range haystacks {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

func subTypeValue(item *models.RevisionRequest, field string) string {
	if field == "" {
		return ""
	}
	if value := recordText(item.Proposed, field); value != "" {
		return value
	}
	return recordText(item.Original, field)
}

func recordText(record models.Record, key string) string {
	if record == nil {
		return ""
	}
	switch v := record[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// ParseQueueFilter maps raw query values onto a QueueFilter, tolerating
// missing or unknown values.
func ParseQueueFilter(text, subType, action, dateSort string) models.QueueFilter {
	filter := models.QueueFilter{
		Text:     strings.TrimSpace(text),
		SubType:  strings.TrimSpace(subType),
		DateSort: models.DateSortNewest,
	}
	switch models.RevisionKind(strings.ToUpper(strings.TrimSpace(action))) {
	case models.RevisionKindCreate:
		filter.Action = models.RevisionKindCreate
	case models.RevisionKindUpdate:
		filter.Action = models.RevisionKindUpdate
	}
	if strings.EqualFold(strings.TrimSpace(dateSort), string(models.DateSortOldest)) {
		filter.DateSort = models.DateSortOldest
	}
	return filter
}
