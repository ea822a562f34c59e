package cron

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"notifyhub/config"
	notificationRepo "notifyhub/database/repository/notification"
	"notifyhub/models"
	"notifyhub/services/notification"
	"notifyhub/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
)

// InitPushWorker runs the push gateway consumer in the background: it takes
// fan-out tasks off the durable queue, resolves each recipient's language
// bucket content from the store, and sends one FCM message per deliverable
// token. Send status bookkeeping stays with the dispatcher; this worker
// never mutates it.
func InitPushWorker(repo notificationRepo.Repository, directory notification.UserDirectory) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TopicPushFanout, handleFanoutTask(repo, directory))

	go func() {
		log.Println("[PushWorker] starting push gateway worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[PushWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[PushWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleFanoutTask(repo notificationRepo.Repository, directory notification.UserDirectory) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PushFanoutPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PushWorker] invalid payload: %v", err)
			return err
		}

		if expired(p.EndedOn) {
			log.Printf("[PushWorker] notification %d expired before delivery, skipping", p.NotificationID)
			return nil
		}

		devices, err := directory.DeviceInfo(ctx, p.UserList)
		if err != nil {
			log.Printf("[PushWorker] device lookup failed for notification %d: %v", p.NotificationID, err)
			return err
		}

		for _, userID := range p.UserList {
			info, ok := devices[userID]
			if !ok || (info.APNSToken == "" && info.FCMToken == "") {
				continue
			}

			title, body := p.Title, p.Body
			if !p.Silent {
				// Per-recipient content lives in the user's language bucket;
				// the payload pair is only the default-language fallback.
				if msg, err := repo.MessageForUser(ctx, p.NotificationID, userID); err == nil {
					title, body = msg.Title, msg.Body
				}
			}

			if err := sendPush(ctx, info, p, title, body); err != nil {
				log.Printf("[PushWorker] send failed for notification %d user %d: %v", p.NotificationID, userID, err)
			}
		}
		return nil
	}
}

func sendPush(ctx context.Context, info models.DeviceInfo, p models.PushFanoutPayload, title, body string) error {
	token := info.APNSToken
	if token == "" {
		token = info.FCMToken
	}

	data := map[string]string{
		"notification_id":   strconv.FormatInt(p.NotificationID, 10),
		"notification_type": strconv.Itoa(p.NotificationType),
	}
	if meta, err := json.Marshal(p.Meta); err == nil {
		data["meta"] = string(meta)
	}

	msg := &messaging.Message{
		Token: token,
		Data:  data,
	}
	if !p.Silent {
		msg.Notification = &messaging.Notification{
			Title:    title,
			Body:     body,
			ImageURL: p.Image,
		}
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		}
		msg.APNS = &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		}
	} else {
		// Background wake: no visible content on the device.
		msg.APNS = &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "5",
				"apns-push-type": "background",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
				},
			},
		}
	}

	_, err := utils.FCMClient.Send(ctx, msg)
	return err
}

func expired(endedOn string) bool {
	if endedOn == "" {
		return false
	}
	t, err := time.Parse("2006-01-02 15:04:05", endedOn)
	if err != nil {
		return false
	}
	return t.Before(time.Now().UTC())
}
