package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// runInTransaction runs fn inside a session transaction when enabled, and
// directly otherwise. Transactions need a replica set or sharded cluster.
func runInTransaction(ctx context.Context, client *mongo.Client, enabled bool, fn func(ctx context.Context) error) error {
	if !enabled || client == nil {
		return fn(ctx)
	}

	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
