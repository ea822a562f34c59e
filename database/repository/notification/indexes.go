package notificationRepo

import (
	"fmt"
	"time"

	"notifyhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for fields frequently used in queries. The
// unique (notificationId, userId) index enforces the one-language-per-
// recipient invariant at the storage layer.
func (repo *MongoNotificationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	notifIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}
	if _, err := repo.notifColl.Indexes().CreateMany(ctx, notifIndexes); err != nil {
		return fmt.Errorf("notifications indexes: %w", err)
	}

	msgIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "notificationId", Value: 1}, {Key: "lang", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.messageColl.Indexes().CreateMany(ctx, msgIndexes); err != nil {
		return fmt.Errorf("notification_messages indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "notificationId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "sendStatus", Value: 1}}},
	}
	if _, err := repo.userColl.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("notification_users indexes: %w", err)
	}

	return nil
}

// seedTypes upserts the static type catalog. Reference data only; the
// pipeline never mutates it.
func (repo *MongoNotificationRepo) seedTypes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	catalog := []models.NotificationType{
		{ID: models.TypeGeneral, Name: "general"},
		{ID: models.TypeCarpoolGroup, Name: "carpool_group"},
		{ID: models.TypeCarpoolMatching, Name: "carpool_matching"},
		{ID: models.TypeCarpoolRideRequest, Name: "carpool_ride_request"},
		{ID: models.TypeMicrosurvey, Name: "microsurvey"},
		{ID: models.TypeIncentive, Name: "incentive"},
		{ID: models.TypeIncentiveBonus, Name: "incentive_bonus"},
	}

	for _, t := range catalog {
		_, err := repo.typeColl.UpdateOne(
			ctx,
			bson.M{"id": t.ID},
			bson.M{"$set": bson.M{"name": t.Name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed type %d: %w", t.ID, err)
		}
	}
	return nil
}
