package revision

import (
	"fmt"
	"strconv"

	"github.com/eduhubvn/moderation-api/internal/models"
)

// EmptyPlaceholder is shown for missing or blank field values.
const EmptyPlaceholder = "—"

// DisplayRenderer formats a raw field value for display. Rendering never
// participates in change detection; two different URLs may render to the same
// "View document" label.
type DisplayRenderer func(value interface{}) string

// FieldDescriptor names one comparable field of an entity type.
type FieldDescriptor struct {
	Label  string
	Key    string
	Render DisplayRenderer
}

// DiffRow is one field's side-by-side comparison result.
type DiffRow struct {
	Label    string `json:"label"`
	Original string `json:"original"`
	Proposed string `json:"proposed"`
	Changed  bool   `json:"changed"`
}

// ComputeDiff resolves every descriptor against the original and proposed
// records. It is total and side-effect-free: missing fields never cause an
// error, and rows come back in descriptor order regardless of change status.
func ComputeDiff(original, proposed models.Record, descriptors []FieldDescriptor) []DiffRow {
	rows := make([]DiffRow, 0, len(descriptors))
	for _, desc := range descriptors {
		rawOriginal := fieldValue(original, desc.Key)
		rawProposed := fieldValue(proposed, desc.Key)
		rows = append(rows, DiffRow{
			Label:    desc.Label,
			Original: display(rawOriginal, desc.Render),
			Proposed: display(rawProposed, desc.Render),
			// Comparison always runs on the raw values, never on the
			// rendered labels.
			Changed: canonicalValue(rawOriginal) != canonicalValue(rawProposed),
		})
	}
	return rows
}

func fieldValue(record models.Record, key string) interface{} {
	if record == nil {
		return nil
	}
	return record[key]
}

// canonicalValue folds nil, missing and "" into a single empty token and
// formats scalars so that strict value equality holds across JSON decodings.
func canonicalValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func display(value interface{}, render DisplayRenderer) string {
	if canonicalValue(value) == "" {
		return EmptyPlaceholder
	}
	if render != nil {
		return render(value)
	}
	return canonicalValue(value)
}
