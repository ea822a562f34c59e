package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"notifyhub/config"
	"notifyhub/database"
	"notifyhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNotificationRepo implements Repository using MongoDB.
type MongoNotificationRepo struct {
	notifColl   *mongo.Collection
	messageColl *mongo.Collection
	userColl    *mongo.Collection
	typeColl    *mongo.Collection
	counterColl *mongo.Collection
}

// NewMongoNotificationRepo creates a new Repository backed by MongoDB.
func NewMongoNotificationRepo() Repository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &MongoNotificationRepo{
		notifColl:   db.Collection("notifications"),
		messageColl: db.Collection("notification_messages"),
		userColl:    db.Collection("notification_users"),
		typeColl:    db.Collection("notification_types"),
		counterColl: db.Collection("counters"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	if err := repo.seedTypes(); err != nil {
		fmt.Printf("failed to seed notification types: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// nextSequence reserves count consecutive ids from the named counter and
// returns the first one. Runs inside the caller's (session) context so the
// reservation commits or aborts with the cascade.
func (repo *MongoNotificationRepo) nextSequence(ctx context.Context, name string, count int64) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := repo.counterColl.FindOneAndUpdate(
		ctx,
		bson.M{"id": name},
		bson.M{"$inc": bson.M{"value": count}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %q: %w", name, err)
	}
	return doc.Value - count + 1, nil
}

// CreateCascade inserts the notification, its language messages and the
// per-recipient rows in one multi-document transaction.
func (repo *MongoNotificationRepo) CreateCascade(
	ctx context.Context,
	n *models.Notification,
	buckets []models.MessageBucket,
) (int64, error) {
	client := repo.notifColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var notificationID int64

	txnFn := func(sc mongo.SessionContext) error {
		id, err := repo.nextSequence(sc, "notification", 1)
		if err != nil {
			return err
		}
		notificationID = id
		n.ID = id

		if _, err := repo.notifColl.InsertOne(sc, n); err != nil {
			return fmt.Errorf("insert notification failed: %w", err)
		}

		for _, bucket := range buckets {
			if len(bucket.Recipients) == 0 {
				continue
			}

			msgID, err := repo.nextSequence(sc, "notification_message", 1)
			if err != nil {
				return err
			}
			msg := models.NotificationMessage{
				ID:             msgID,
				NotificationID: id,
				Lang:           bucket.Lang,
				Title:          bucket.Title,
				Body:           bucket.Body,
			}
			if _, err := repo.messageColl.InsertOne(sc, msg); err != nil {
				return fmt.Errorf("insert notification message (%s) failed: %w", bucket.Lang, err)
			}

			firstRowID, err := repo.nextSequence(sc, "notification_user", int64(len(bucket.Recipients)))
			if err != nil {
				return err
			}
			rows := make([]interface{}, 0, len(bucket.Recipients))
			for i, r := range bucket.Recipients {
				rows = append(rows, models.NotificationUser{
					ID:                    firstRowID + int64(i),
					NotificationID:        id,
					NotificationMessageID: msgID,
					UserID:                r.UserID,
					SendStatus:            models.SendStatusQueued,
				})
			}
			if _, err := repo.userColl.InsertMany(sc, rows); err != nil {
				return fmt.Errorf("insert notification users (%s) failed: %w", bucket.Lang, err)
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return 0, fmt.Errorf("notification cascade failed: %w", err)
	}

	return notificationID, nil
}

func (repo *MongoNotificationRepo) GetNotification(ctx context.Context, id int64) (*models.Notification, error) {
	var n models.Notification
	err := repo.notifColl.FindOne(ctx, bson.M{"id": id}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification %d: %w", id, err)
	}
	return &n, nil
}

func (repo *MongoNotificationRepo) GetMessage(ctx context.Context, id int64) (*models.NotificationMessage, error) {
	var msg models.NotificationMessage
	err := repo.messageColl.FindOne(ctx, bson.M{"id": id}).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification message %d: %w", id, err)
	}
	return &msg, nil
}

func (repo *MongoNotificationRepo) GetUserRow(ctx context.Context, notificationID, userID int64) (*models.NotificationUser, error) {
	var row models.NotificationUser
	err := repo.userColl.FindOne(ctx, bson.M{"notificationId": notificationID, "userId": userID}).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user row for notification %d / user %d: %w", notificationID, userID, err)
	}
	return &row, nil
}

func (repo *MongoNotificationRepo) MessageForUser(ctx context.Context, notificationID, userID int64) (*models.NotificationMessage, error) {
	row, err := repo.GetUserRow(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}
	return repo.GetMessage(ctx, row.NotificationMessageID)
}

func (repo *MongoNotificationRepo) BulkSetSendStatus(ctx context.Context, notificationID int64, userIDs []int64, status int) error {
	if len(userIDs) == 0 {
		return nil
	}
	filter := bson.M{
		"notificationId": notificationID,
		"userId":         bson.M{"$in": userIDs},
	}
	update := bson.M{"$set": bson.M{"sendStatus": status}}
	if _, err := repo.userColl.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("bulk send status update failed for notification %d: %w", notificationID, err)
	}
	return nil
}

func (repo *MongoNotificationRepo) SetSendStatus(ctx context.Context, rowID int64, status int) error {
	res, err := repo.userColl.UpdateOne(ctx, bson.M{"id": rowID}, bson.M{"$set": bson.M{"sendStatus": status}})
	if err != nil {
		return fmt.Errorf("send status update failed for row %d: %w", rowID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}
