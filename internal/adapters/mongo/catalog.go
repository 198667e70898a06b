package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

// CatalogRepository serves arenas from the "arenas" collection. It
// satisfies catalog.Source.
type CatalogRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewCatalogRepository(db *mongo.Database, logger observability.Logger) *CatalogRepository {
	return &CatalogRepository{
		coll:   db.Collection("arenas"),
		logger: logger,
	}
}

type ArenaDoc struct {
	domain.Arena `bson:",inline"`
	Position     int       `bson:"position"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (c *CatalogRepository) List(ctx context.Context) ([]domain.Arena, error) {
	cur, err := c.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		c.logger.WithError(err).Error("failed to list arenas")
		return nil, errors.Wrap(err, "find arenas")
	}
	defer cur.Close(ctx)

	var out []domain.Arena
	for cur.Next(ctx) {
		var doc ArenaDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decode arena")
		}
		out = append(out, doc.Arena)
	}
	return out, errors.Wrap(cur.Err(), "iterate arenas")
}

func (c *CatalogRepository) Get(ctx context.Context, id string) (domain.Arena, error) {
	var doc ArenaDoc
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Arena{}, errors.Wrapf(domain.ErrNotFound, "arena %q", id)
	}
	if err != nil {
		c.logger.WithError(err).WithField("arena_id", id).Error("failed to get arena")
		return domain.Arena{}, errors.Wrapf(err, "find arena %s", id)
	}
	return doc.Arena, nil
}

// Seed upserts arenas keeping their order.
func (c *CatalogRepository) Seed(ctx context.Context, arenas []domain.Arena) error {
	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(arenas))
	for i, a := range arenas {
		doc := ArenaDoc{Arena: a, Position: i, UpdatedAt: now}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": a.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}
	_, err := c.coll.BulkWrite(ctx, models)
	return errors.Wrap(err, "seed arenas")
}
