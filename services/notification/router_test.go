package notification

import (
	"context"
	"testing"

	"notifyhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentMap(langs ...string) map[string]LangContent {
	m := map[string]LangContent{}
	for _, lang := range langs {
		m[lang] = LangContent{Title: lang + " title", Body: lang + " body"}
	}
	return m
}

func bucketByLang(buckets []models.MessageBucket, lang string) *models.MessageBucket {
	for i := range buckets {
		if buckets[i].Lang == lang {
			return &buckets[i]
		}
	}
	return nil
}

func TestBucketRecipientsFallbackChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		deviceLang string
		contents   map[string]LangContent
		wantLang   string
	}{
		{name: "exact match", deviceLang: "es", contents: contentMap("es", "en"), wantLang: "es"},
		{name: "normalized exact match", deviceLang: "zh-TW", contents: contentMap("zh_tw", "en"), wantLang: "zh_tw"},
		{name: "base language fallback", deviceLang: "zh_TW", contents: contentMap("zh", "en"), wantLang: "zh"},
		{name: "default fallback", deviceLang: "fr", contents: contentMap("es", "en"), wantLang: "en"},
		{name: "empty device language", deviceLang: "", contents: contentMap("es", "en"), wantLang: "en"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := &fakeDirectory{devices: map[int64]models.DeviceInfo{
				7: {UserID: 7, DeviceLang: tc.deviceLang, FCMToken: "tok"},
			}}
			svc := newTestService(nil, dir, nil, nil)

			buckets, err := svc.BucketRecipients(context.Background(), tc.contents, []int64{7}, false)
			require.NoError(t, err)
			require.Len(t, buckets, 1)
			assert.Equal(t, tc.wantLang, buckets[0].Lang)
			assert.Equal(t, tc.contents[tc.wantLang].Title, buckets[0].Title)
		})
	}
}

func TestBucketRecipientsSilentUsesDefaultLanguage(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{devices: map[int64]models.DeviceInfo{
		1: {UserID: 1, DeviceLang: "es", FCMToken: "a"},
		2: {UserID: 2, DeviceLang: "zh_tw", FCMToken: "b"},
	}}
	svc := newTestService(nil, dir, nil, nil)

	buckets, err := svc.BucketRecipients(context.Background(), contentMap("es", "zh_tw", "en"), []int64{1, 2}, true)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "en", buckets[0].Lang)
	assert.Len(t, buckets[0].Recipients, 2)
}

func TestBucketRecipientsMissingDefaultLanguage(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.BucketRecipients(context.Background(), contentMap("es", "fr"), []int64{1}, false)
	require.Error(t, err)
	assert.IsType(t, MissingDefaultLanguageError{}, err)
}

func TestBucketRecipientsTokenPriority(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{devices: map[int64]models.DeviceInfo{
		1: {UserID: 1, APNSToken: "apns-tok", FCMToken: "fcm-tok"},
		2: {UserID: 2, FCMToken: "fcm-tok"},
		3: {UserID: 3},
	}}
	svc := newTestService(nil, dir, nil, nil)

	buckets, err := svc.BucketRecipients(context.Background(), contentMap("en"), []int64{1, 2, 3}, false)
	require.NoError(t, err)

	en := bucketByLang(buckets, "en")
	require.NotNil(t, en)
	require.Len(t, en.Recipients, 3)

	byUser := map[int64]models.Recipient{}
	for _, r := range en.Recipients {
		byUser[r.UserID] = r
	}

	assert.Equal(t, "apns", byUser[1].TokenType)
	assert.Equal(t, "apns-tok", byUser[1].Token)
	assert.True(t, byUser[1].Deliverable)

	assert.Equal(t, "fcm", byUser[2].TokenType)
	assert.True(t, byUser[2].Deliverable)

	// Token-less recipients stay visible in the inbox but cannot be pushed.
	assert.False(t, byUser[3].Deliverable)
	assert.Empty(t, byUser[3].Token)
}

func TestBucketRecipientsDeduplicates(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{devices: map[int64]models.DeviceInfo{
		1: {UserID: 1, DeviceLang: "es", FCMToken: "a"},
	}}
	svc := newTestService(nil, dir, nil, nil)

	buckets, err := svc.BucketRecipients(context.Background(), contentMap("es", "en"), []int64{1, 1, 1}, false)
	require.NoError(t, err)

	total := 0
	for _, b := range buckets {
		total += len(b.Recipients)
	}
	assert.Equal(t, 1, total)
}

func TestBucketRecipientsPartitionsByLanguage(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{devices: map[int64]models.DeviceInfo{
		1: {UserID: 1, DeviceLang: "es", FCMToken: "a"},
		2: {UserID: 2, DeviceLang: "es-MX", FCMToken: "b"},
		3: {UserID: 3, DeviceLang: "fr", FCMToken: "c"},
	}}
	svc := newTestService(nil, dir, nil, nil)

	buckets, err := svc.BucketRecipients(context.Background(), contentMap("es", "en"), []int64{1, 2, 3}, false)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	es := bucketByLang(buckets, "es")
	require.NotNil(t, es)
	assert.Len(t, es.Recipients, 2) // "es" exact + "es_mx" base fallback

	en := bucketByLang(buckets, "en")
	require.NotNil(t, en)
	assert.Len(t, en.Recipients, 1)
}
