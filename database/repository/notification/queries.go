package notificationRepo

import (
	"context"
	"fmt"

	"notifyhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// inboxPipeline builds the shared join+filter stages for the inbox read:
// notification_users -> notification_messages -> notifications, scoped to
// one user, with type and expiry predicates applied after the join.
func inboxPipeline(f InboxFilter) mongo.Pipeline {
	rowMatch := bson.M{"userId": f.UserID}
	if f.Status != nil {
		rowMatch["sendStatus"] = *f.Status
	}

	notifMatch := bson.M{
		"$or": bson.A{
			bson.M{"n.endedOn": bson.M{"$exists": false}},
			bson.M{"n.endedOn": nil},
			bson.M{"n.endedOn": bson.M{"$gt": f.Now}},
		},
	}
	typeCond := bson.M{}
	if len(f.Types) > 0 {
		typeCond["$in"] = f.Types
	}
	if len(f.ExcludeTypes) > 0 {
		typeCond["$nin"] = f.ExcludeTypes
	}
	if len(typeCond) > 0 {
		notifMatch["n.type"] = typeCond
	}

	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: rowMatch}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "notification_messages",
			"localField":   "notificationMessageId",
			"foreignField": "id",
			"as":           "msg",
		}}},
		bson.D{{Key: "$unwind", Value: "$msg"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "notifications",
			"localField":   "notificationId",
			"foreignField": "id",
			"as":           "n",
		}}},
		bson.D{{Key: "$unwind", Value: "$n"}},
		bson.D{{Key: "$match", Value: notifMatch}},
	}
}

// CountInbox runs the shared predicate as a count query (two-query
// pagination pattern).
func (repo *MongoNotificationRepo) CountInbox(ctx context.Context, f InboxFilter) (int64, error) {
	pipeline := append(inboxPipeline(f), bson.D{{Key: "$count", Value: "total"}})

	cursor, err := repo.userColl.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("inbox count failed for user %d: %w", f.UserID, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("inbox count decode failed: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// ListInbox returns one page of the joined inbox view, newest first.
func (repo *MongoNotificationRepo) ListInbox(ctx context.Context, f InboxFilter, skip, limit int64) ([]models.InboxItem, error) {
	pipeline := append(inboxPipeline(f),
		bson.D{{Key: "$sort", Value: bson.M{"notificationId": -1}}},
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":        0,
			"id":         "$n.id",
			"type":       "$n.type",
			"title":      "$msg.title",
			"body":       "$msg.body",
			"meta":       "$n.meta",
			"startedOn":  "$n.startedOn",
			"endedOn":    "$n.endedOn",
			"sendStatus": "$sendStatus",
		}}},
	)

	cursor, err := repo.userColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("inbox query failed for user %d: %w", f.UserID, err)
	}
	defer cursor.Close(ctx)

	items := []models.InboxItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("inbox decode failed: %w", err)
	}
	return items, nil
}
