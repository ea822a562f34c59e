package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"notifyhub/models"
)

// Enrich returns a new metadata payload augmented for types that reference
// business data. For matching offers the counterpart's public profile is
// embedded under meta.action.suggested_user; every other type passes
// through untouched. The caller's map is never mutated.
func (s *DefaultNotificationService) Enrich(ctx context.Context, notifType int, meta map[string]any) (map[string]any, error) {
	enriched, err := deepCopyMeta(meta)
	if err != nil {
		return nil, ValidationError{Reason: fmt.Sprintf("metadata is not serializable: %v", err)}
	}

	if notifType != models.TypeCarpoolMatching {
		return enriched, nil
	}
	return s.enrichMatchingOffer(ctx, enriched)
}

func (s *DefaultNotificationService) enrichMatchingOffer(ctx context.Context, meta map[string]any) (map[string]any, error) {
	action, ok := meta["action"].(map[string]any)
	if !ok {
		return nil, ValidationError{Reason: "matching offer metadata has no action object"}
	}

	counterpartID, ok := toInt64(action["suggested_user_id"])
	if !ok {
		return nil, ValidationError{Reason: "matching offer metadata has no action.suggested_user_id"}
	}

	profile, err := s.Profiles.PublicProfile(ctx, counterpartID)
	if err != nil {
		return nil, StorageError{Err: err}
	}
	if profile == nil {
		return nil, ReferenceNotFoundError{UserID: counterpartID}
	}

	embedded, err := deepCopyAny(profile)
	if err != nil {
		return nil, StorageError{Err: err}
	}
	action["suggested_user"] = embedded
	return meta, nil
}

// deepCopyMeta copies a JSON-shaped metadata map via an encode/decode round
// trip so the enricher can never alias the caller's structure.
func deepCopyMeta(meta map[string]any) (map[string]any, error) {
	if meta == nil {
		return map[string]any{}, nil
	}
	copied := make(map[string]any, len(meta))
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &copied); err != nil {
		return nil, err
	}
	return copied, nil
}

func deepCopyAny(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// toInt64 accepts the numeric encodings metadata values arrive in.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
