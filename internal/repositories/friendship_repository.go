package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/zynq/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddFriendRequest appends a pending request from `from` to the target's list.
// The duplicate checks and the append are a single conditional update.
func (r *MongoUserRepository) AddFriendRequest(ctx context.Context, to, from primitive.ObjectID) (*models.FriendRequest, error) {
	req := models.FriendRequest{
		ID:        primitive.NewObjectID(),
		From:      from,
		Status:    models.FriendRequestPending,
		CreatedAt: time.Now(),
	}
	filter := bson.M{
		"_id":                 to,
		"friends":             bson.M{"$ne": from},
		"friendRequests.from": bson.M{"$ne": from},
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"friendRequests": req}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount > 0 {
		return &req, nil
	}

	// Nothing matched: find out which precondition failed
	target, err := r.GetUserByID(ctx, to)
	if err != nil {
		return nil, err
	}
	if models.ContainsID(target.Friends, from) {
		return nil, ErrAlreadyFriends
	}
	return nil, ErrRequestExists
}

// AcceptFriendRequest consumes a pending request on userID that was sent by
// fromID and makes the two users friends.
//
// With transactions enabled both documents change atomically. Without them
// the receiver update is the commit point: it removes the request and adds
// the friend in one write, and a failure on the sender side is compensated by
// restoring the receiver document.
func (r *MongoUserRepository) AcceptFriendRequest(ctx context.Context, userID, requestID, fromID primitive.ObjectID) error {
	client := r.collection.Database().Client()
	return runInTransaction(ctx, client, r.transactions, func(ctx context.Context) error {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": fromID}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		filter := bson.M{
			"_id":            userID,
			"friendRequests": bson.M{"$elemMatch": bson.M{"_id": requestID, "from": fromID}},
		}
		update := bson.M{
			"$pull":     bson.M{"friendRequests": bson.M{"_id": requestID}},
			"$addToSet": bson.M{"friends": fromID},
		}
		var before models.User
		err = r.collection.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetProjection(bson.M{"friendRequests": 1, "friends": 1}),
		).Decode(&before)
		if err != nil {
			if mapError(err) != ErrNotFound {
				return err
			}
			if _, err := r.GetUserByID(ctx, userID); err != nil {
				return err
			}
			return ErrRequestNotFound
		}

		_, err = r.collection.UpdateOne(ctx, bson.M{"_id": fromID}, bson.M{"$addToSet": bson.M{"friends": userID}})
		if err != nil && !r.transactions {
			return r.restoreRequest(ctx, &before, userID, requestID, fromID, err)
		}
		return err
	})
}

// restoreRequest undoes the receiver side of an accept after the sender update failed
func (r *MongoUserRepository) restoreRequest(ctx context.Context, before *models.User, userID, requestID, fromID primitive.ObjectID, cause error) error {
	var entry *models.FriendRequest
	for i := range before.FriendRequests {
		if before.FriendRequests[i].ID == requestID {
			entry = &before.FriendRequests[i]
			break
		}
	}
	update := bson.M{}
	if entry != nil {
		update["$push"] = bson.M{"friendRequests": entry}
	}
	if !models.ContainsID(before.Friends, fromID) {
		update["$pull"] = bson.M{"friends": fromID}
	}
	if len(update) > 0 {
		if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
			return fmt.Errorf("accept friend request: %w (compensation failed: %v)", cause, err)
		}
	}
	return fmt.Errorf("accept friend request: %w", cause)
}

// RejectFriendRequest removes a pending request from the user's list
func (r *MongoUserRepository) RejectFriendRequest(ctx context.Context, userID, requestID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "friendRequests._id": requestID},
		bson.M{"$pull": bson.M{"friendRequests": bson.M{"_id": requestID}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return ErrRequestNotFound
}

// RemoveFriend drops the friendship on both sides
func (r *MongoUserRepository) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	client := r.collection.Database().Client()
	return runInTransaction(ctx, client, r.transactions, func(ctx context.Context) error {
		res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"friends": friendID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		_, err = r.collection.UpdateOne(ctx, bson.M{"_id": friendID}, bson.M{"$pull": bson.M{"friends": userID}})
		return err
	})
}
