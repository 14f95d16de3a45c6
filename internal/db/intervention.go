package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-inspection/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoInterventionCollection implements InterventionCollection for MongoDB.
type MongoInterventionCollection struct {
	Collection *mongo.Collection
}

// InsertIntervention inserts an intervention and returns its hex ID.
func (c *MongoInterventionCollection) InsertIntervention(ctx context.Context, intervention models.Intervention) (string, error) {
	if c.Collection == nil {
		return "", errNilCollection
	}
	if intervention.ID.IsZero() {
		intervention.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	intervention.CreatedAt = now
	intervention.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, intervention); err != nil {
		return "", err
	}
	return intervention.ID.Hex(), nil
}

// DeleteIntervention deletes an intervention by its ID.
func (c *MongoInterventionCollection) DeleteIntervention(ctx context.Context, id string) error {
	if c.Collection == nil {
		return errNilCollection
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrInterventionNotFound
	}
	return nil
}
