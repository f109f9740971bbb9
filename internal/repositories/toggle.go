package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// togglePipeline builds an update pipeline that removes member from the array
// field when present and appends it otherwise, in a single document write.
func togglePipeline(field string, member primitive.ObjectID) mongo.Pipeline {
	current := bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{
				"$cond": bson.M{
					"if": bson.M{"$in": bson.A{member, current}},
					"then": bson.M{"$filter": bson.M{
						"input": current,
						"cond":  bson.M{"$ne": bson.A{"$$this", member}},
					}},
					"else": bson.M{"$concatArrays": bson.A{current, bson.A{member}}},
				},
			},
		}}},
	}
}
