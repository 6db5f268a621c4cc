package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo adapts the hosted MongoDB deployment to the Client boundary.
// Watch is built on change streams: every stream event triggers a full
// re-query so consumers always receive complete snapshots.
type Mongo struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongo connects to the deployment and verifies the connection.
func NewMongo(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{db: client.Database(dbName), logger: logger}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.db.Client().Disconnect(ctx)
}

// Database exposes the underlying handle for sibling adapters that share the
// deployment, such as the GridFS attachment store.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// Watch implements Client.
func (m *Mongo) Watch(ctx context.Context, q Query) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	pipeline := mongo.Pipeline{}
	if len(q.Filter) > 0 {
		match := bson.D{}
		for k, v := range q.Filter {
			match = append(match, bson.E{Key: "fullDocument." + k, Value: v})
		}
		// Delete events carry no fullDocument, so they must always pass the
		// match or removals would never trigger a re-query.
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"$or": bson.A{
				bson.M{"operationType": "delete"},
				match,
			},
		}}})
	}

	stream, err := m.db.Collection(q.Collection).Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", q.Collection, err)
	}

	sub := newSubscription(cancel)

	go func() {
		defer func() { _ = stream.Close(context.Background()) }()

		if snap, err := m.materialize(ctx, q); err != nil {
			sub.fail(err)
		} else {
			sub.publish(snap)
		}

		for stream.Next(ctx) {
			snap, err := m.materialize(ctx, q)
			if err != nil {
				sub.fail(err)
				continue
			}
			sub.publish(snap)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			m.logger.Warn("change stream ended", zap.String("collection", q.Collection), zap.Error(err))
			sub.fail(err)
		}
	}()

	return sub, nil
}

// Insert implements Client.
func (m *Mongo) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// Get implements Client.
func (m *Mongo) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decodeRaw(raw), nil
}

// Set implements Client.
func (m *Mongo) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := m.db.Collection(collection).UpdateOne(ctx, idFilter(id),
		bson.M{"$set": bson.M(fields)}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete implements Client.
func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	_, err := m.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// materialize runs the full query and decodes every document.
func (m *Mongo) materialize(ctx context.Context, q Query) (Snapshot, error) {
	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}
	findOpts := options.Find()
	if q.OrderBy != "" {
		// Secondary _id sort keeps ties at equal order-key values stable.
		findOpts.SetSort(bson.D{{Key: q.OrderBy, Value: 1}, {Key: "_id", Value: 1}})
	}

	cur, err := m.db.Collection(q.Collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var snap Snapshot
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			// Best-effort materialization: skip undecodable documents.
			m.logger.Debug("skipping undecodable document", zap.String("collection", q.Collection), zap.Error(err))
			continue
		}
		snap = append(snap, decodeRaw(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}
	return snap, nil
}

// idFilter matches on _id whether the key is a driver-assigned ObjectID hex
// or an application-chosen string (users, invitation codes).
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// decodeRaw converts a driver document into the backend-neutral Document,
// normalizing driver types so callers only see plain Go values.
func decodeRaw(raw bson.M) Document {
	doc := Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			switch id := v.(type) {
			case primitive.ObjectID:
				doc.ID = id.Hex()
			case string:
				doc.ID = id
			default:
				doc.ID = fmt.Sprintf("%v", id)
			}
			continue
		}
		doc.Fields[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time()
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
