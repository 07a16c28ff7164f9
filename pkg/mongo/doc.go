// Package mongo connects to MongoDB, the document store that holds user
// records and their payment-provider customer references.
//
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//	db := client.Database(cfg.Database)
//
// Connection settings come from MONGODB_* environment variables (see Config).
package mongo
