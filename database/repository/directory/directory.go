// Package directoryRepo exposes the user directory the pipeline consumes:
// device language + push tokens for routing, and public profiles for
// payload enrichment. Device info is served through a redis read-through
// cache since every create touches it for the whole recipient list.
package directoryRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"notifyhub/config"
	"notifyhub/database"
	"notifyhub/models"
	"notifyhub/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDirectoryRepo implements the user and profile directory lookups.
type MongoDirectoryRepo struct {
	userColl *mongo.Collection
	cache    *redis.Client
}

// NewMongoDirectoryRepo creates a directory repo over the users collection.
func NewMongoDirectoryRepo() *MongoDirectoryRepo {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoDirectoryRepo{
		userColl: db.Collection("users"),
		cache:    utils.GetDirectoryCacheClient(),
	}
}

// DeviceInfo returns device language and push tokens for the given users.
// Users missing from the directory are simply absent from the result map.
func (repo *MongoDirectoryRepo) DeviceInfo(ctx context.Context, userIDs []int64) (map[int64]models.DeviceInfo, error) {
	result := make(map[int64]models.DeviceInfo, len(userIDs))
	missing := make([]int64, 0, len(userIDs))

	for _, id := range userIDs {
		cached, err := repo.cache.Get(ctx, utils.DeviceCachePrefix+strconv.FormatInt(id, 10)).Result()
		if err == nil {
			var info models.DeviceInfo
			if jsonErr := json.Unmarshal([]byte(cached), &info); jsonErr == nil {
				result[id] = info
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	cursor, err := repo.userColl.Find(ctx, bson.M{"id": bson.M{"$in": missing}})
	if err != nil {
		return nil, fmt.Errorf("device info lookup failed: %w", err)
	}
	defer cursor.Close(ctx)

	var infos []models.DeviceInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("device info decode failed: %w", err)
	}

	for _, info := range infos {
		result[info.UserID] = info
		if b, jsonErr := json.Marshal(info); jsonErr == nil {
			key := utils.DeviceCachePrefix + strconv.FormatInt(info.UserID, 10)
			repo.cache.Set(ctx, key, b, utils.DeviceCacheTTL)
		}
	}
	return result, nil
}

// PublicProfile returns the embeddable public profile for one user, or nil
// if the user does not exist.
func (repo *MongoDirectoryRepo) PublicProfile(ctx context.Context, userID int64) (*models.PublicProfile, error) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.PublicProfile
	err := repo.userColl.FindOne(opCtx, bson.M{"id": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed for user %d: %w", userID, err)
	}
	return &profile, nil
}
