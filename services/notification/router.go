package notification

import (
	"context"
	"sort"
	"strings"

	"notifyhub/models"
)

// DefaultLang is the fallback language when a recipient has no usable
// device language or no matching translation.
const DefaultLang = "en"

// normalizeLang lower-cases a device language code and converts "-" to "_"
// ("zh-TW" -> "zh_tw").
func normalizeLang(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "-", "_"))
}

// resolveLang picks the content language for one recipient: exact match,
// then the base language ("zh_tw" -> "zh"), then the default.
func resolveLang(contents map[string]LangContent, lang string) string {
	if _, ok := contents[lang]; ok {
		return lang
	}
	if base, _, found := strings.Cut(lang, "_"); found {
		if _, ok := contents[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// BucketRecipients partitions the recipient list into language buckets and
// attaches the resolved device token to each recipient. Silent pushes carry
// no visible content, so every recipient of a silent notification lands in
// the default-language bucket. A duplicate user id keeps its first bucket;
// a recipient with no registered token is kept but flagged non-deliverable.
func (s *DefaultNotificationService) BucketRecipients(
	ctx context.Context,
	contents map[string]LangContent,
	userIDs []int64,
	silent bool,
) ([]models.MessageBucket, error) {
	if _, ok := contents[DefaultLang]; !ok {
		return nil, MissingDefaultLanguageError{}
	}

	devices, err := s.Directory.DeviceInfo(ctx, userIDs)
	if err != nil {
		return nil, StorageError{Err: err}
	}

	grouped := make(map[string][]models.Recipient)
	seen := make(map[int64]bool, len(userIDs))

	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		info := devices[userID]
		lang := DefaultLang
		if !silent && info.DeviceLang != "" {
			lang = resolveLang(contents, normalizeLang(info.DeviceLang))
		}

		r := models.Recipient{UserID: userID}
		switch {
		case info.APNSToken != "":
			// An iOS-style token takes priority over the FCM token.
			r.Token = info.APNSToken
			r.TokenType = "apns"
			r.Deliverable = true
		case info.FCMToken != "":
			r.Token = info.FCMToken
			r.TokenType = "fcm"
			r.Deliverable = true
		}

		grouped[lang] = append(grouped[lang], r)
	}

	langs := make([]string, 0, len(grouped))
	for lang := range grouped {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	buckets := make([]models.MessageBucket, 0, len(langs))
	for _, lang := range langs {
		content := contents[lang]
		buckets = append(buckets, models.MessageBucket{
			Lang:       lang,
			Title:      content.Title,
			Body:       content.Body,
			Recipients: grouped[lang],
		})
	}
	return buckets, nil
}
