package revision

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eduhubvn/moderation-api/internal/models"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
)

// envelopeKeys are top-level keys that belong to the request envelope, not to
// the entity record itself. Used when a flat create payload doubles as the
// proposed record.
var envelopeKeys = map[string]struct{}{
	"id":        {},
	"status":    {},
	"adminNote": {},
	"createdAt": {},
	"updatedAt": {},
	"submitter": {},
	"content":   {},
}

// Normalize maps any of the upstream payload shapes onto the canonical
// RevisionRequest. Supported shapes:
//
//	{"content": {"original": {...}, "update": {...}}, ...}
//	{"degree": {...}, "updatedDegree": {...}, ...}        (per-entity pair keys)
//	{...}                                                 (flat record, creates only)
//
// Anything else is a NormalizationError: a config defect, not a recoverable
// runtime condition.
func Normalize(entity models.EntityType, kind models.RevisionKind, raw json.RawMessage) (*models.RevisionRequest, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNormalization.Code, appErrors.ErrNormalization.Status,
			fmt.Sprintf("malformed %s payload", entity))
	}

	cfg, ok := Config(entity)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNormalization, fmt.Sprintf("unknown entity type %q", entity))
	}

	original, proposed := locateRecords(cfg, payload)

	switch kind {
	case models.RevisionKindUpdate:
		if original == nil || proposed == nil {
			return nil, appErrors.Clone(appErrors.ErrNormalization,
				fmt.Sprintf("%s update payload is missing its original or proposed record", entity))
		}
	case models.RevisionKindCreate:
		if proposed == nil {
			return nil, appErrors.Clone(appErrors.ErrNormalization,
				fmt.Sprintf("%s create payload has no proposed record", entity))
		}
		// A create has no live counterpart; drop any stray original.
		original = nil
	default:
		return nil, appErrors.Clone(appErrors.ErrNormalization, fmt.Sprintf("unknown revision kind %q", kind))
	}

	id := stringField(payload, "id")
	if id == "" {
		id = stringField(proposed, "id")
	}
	if id == "" && original != nil {
		id = stringField(original, "id")
	}
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrNormalization, fmt.Sprintf("%s payload carries no request id", entity))
	}

	status, err := locateStatus(payload, original, proposed)
	if err != nil {
		return nil, err
	}

	req := &models.RevisionRequest{
		ID:         id,
		EntityType: entity,
		Kind:       kind,
		Original:   original,
		Proposed:   proposed,
		Status:     status,
		Submitter:  locateSubmitter(payload),
		CreatedAt:  timeField(payload, "createdAt"),
		UpdatedAt:  timeField(payload, "updatedAt"),
	}
	if note := stringField(payload, "adminNote"); note != "" {
		req.AdminNote = &note
	} else if note := stringField(proposed, "adminNote"); note != "" {
		req.AdminNote = &note
	}
	return req, nil
}

func locateRecords(cfg EntityConfig, payload map[string]interface{}) (original, proposed models.Record) {
	if content, ok := recordField(payload, "content"); ok {
		original, _ = recordField(content, "original")
		proposed, _ = recordField(content, "update")
		return original, proposed
	}

	if cfg.PairKey != "" {
		if live, ok := recordField(payload, cfg.PairKey); ok {
			original = live
			proposed, _ = recordField(payload, UpdatedPairKey(cfg.PairKey))
			return original, proposed
		}
	}

	// Flat shape: the payload itself is the proposed record.
	flat := make(models.Record, len(payload))
	for key, value := range payload {
		if _, skip := envelopeKeys[key]; skip {
			continue
		}
		flat[key] = value
	}
	if len(flat) == 0 {
		return nil, nil
	}
	return nil, flat
}

// locateStatus reads the request-level status from whichever record carries it
// in the raw payload and normalizes it onto the request.
func locateStatus(payload map[string]interface{}, original, proposed models.Record) (models.RevisionStatus, error) {
	raw := stringField(proposed, "status")
	if raw == "" {
		raw = stringField(payload, "status")
	}
	if raw == "" {
		raw = stringField(original, "status")
	}
	if raw == "" {
		return models.RevisionStatusPending, nil
	}
	switch models.RevisionStatus(strings.ToUpper(raw)) {
	case models.RevisionStatusPending:
		return models.RevisionStatusPending, nil
	case models.RevisionStatusApproved:
		return models.RevisionStatusApproved, nil
	case models.RevisionStatusRejected:
		return models.RevisionStatusRejected, nil
	}
	return "", appErrors.Clone(appErrors.ErrNormalization, fmt.Sprintf("unknown revision status %q", raw))
}

func locateSubmitter(payload map[string]interface{}) models.SubmitterInfo {
	sub, ok := recordField(payload, "submitter")
	if !ok {
		return models.SubmitterInfo{}
	}
	return models.SubmitterInfo{
		ID:       stringField(sub, "id"),
		FullName: stringField(sub, "fullName"),
		Email:    stringField(sub, "email"),
	}
}

func recordField(payload map[string]interface{}, key string) (models.Record, bool) {
	value, ok := payload[key]
	if !ok {
		return nil, false
	}
	typed, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return models.Record(typed), true
}

func stringField(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if value, ok := payload[key].(string); ok {
		return value
	}
	return ""
}

func timeField(payload map[string]interface{}, key string) time.Time {
	raw := stringField(payload, key)
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
