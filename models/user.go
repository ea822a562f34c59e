package models

// DeviceInfo is what the user directory exposes per recipient: the device
// language plus the registered push tokens. The APNs token, when present,
// takes priority over the FCM token.
type DeviceInfo struct {
	UserID     int64  `bson:"id" json:"id"`
	DeviceLang string `bson:"deviceLanguage" json:"device_language"`
	FCMToken   string `bson:"fcmToken" json:"fcm_token"`
	APNSToken  string `bson:"apnsToken" json:"apns_token"`
}

// PublicProfile is the subset of a user embedded into matching-offer
// payloads by the content enricher.
type PublicProfile struct {
	UserID    int64   `bson:"id" json:"id"`
	Name      string  `bson:"name" json:"name"`
	Rating    float64 `bson:"rating" json:"rating"`
	AvatarURL string  `bson:"avatar" json:"avatar"`
	Vehicle   Vehicle `bson:"vehicle" json:"vehicle"`
}

// Vehicle is the counterpart's vehicle descriptor shown in carpool offers.
type Vehicle struct {
	Type  string `bson:"type" json:"type"`
	Color string `bson:"color" json:"color"`
	Plate string `bson:"plate" json:"plate"`
}
