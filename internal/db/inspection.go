package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/fleet-inspection/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInspectionCollection implements InspectionCollection for MongoDB.
type MongoInspectionCollection struct {
	Collection *mongo.Collection
}

// InsertInspection inserts an inspection and returns its hex ID.
func (c *MongoInspectionCollection) InsertInspection(ctx context.Context, inspection models.Inspection) (string, error) {
	if c.Collection == nil {
		return "", errNilCollection
	}
	if inspection.ID.IsZero() {
		inspection.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if inspection.CreatedAt.IsZero() {
		inspection.CreatedAt = now
	}
	inspection.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, inspection); err != nil {
		return "", err
	}
	return inspection.ID.Hex(), nil
}

// FindInspectionByID finds an inspection by its ID.
func (c *MongoInspectionCollection) FindInspectionByID(ctx context.Context, id string) (*models.Inspection, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var inspection models.Inspection
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&inspection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// FindLatestInspection returns the most recent inspection of a vehicle.
func (c *MongoInspectionCollection) FindLatestInspection(ctx context.Context, vehicleID string) (*models.Inspection, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var inspection models.Inspection
	err := c.Collection.FindOne(ctx, bson.M{"vehicle_id": vehicleID}, opts).Decode(&inspection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	return &inspection, nil
}

// FindInspectionsSince returns the inspections of a vehicle created at or after since, newest first.
func (c *MongoInspectionCollection) FindInspectionsSince(ctx context.Context, vehicleID string, since time.Time) ([]models.Inspection, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	filter := bson.M{
		"vehicle_id": vehicleID,
		"created_at": bson.M{"$gte": since},
	}
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inspections := []models.Inspection{}
	if err := cursor.All(ctx, &inspections); err != nil {
		return nil, err
	}
	return inspections, nil
}

// MarkInspectionValidated writes the review and moves the inspection to
// validated, guarded on the inspection still awaiting validation.
func (c *MongoInspectionCollection) MarkInspectionValidated(ctx context.Context, id string, review models.InspectionReview) error {
	if c.Collection == nil {
		return errNilCollection
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	filter := bson.M{
		"_id": objectID,
		"status": bson.M{"$in": []models.InspectionStatus{
			models.InspectionStatusPendingReview,
			models.InspectionStatusRequiresAction,
		}},
	}
	update := bson.M{"$set": bson.M{
		"status":          models.InspectionStatusValidated,
		"reviewed_by":     review.ReviewedBy,
		"reviewed_at":     review.ReviewedAt,
		"review_notes":    review.ReviewNotes,
		"intervention_id": review.InterventionID,
		"defects":         review.Defects,
		"updated_at":      review.ReviewedAt,
	}}

	result, err := c.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrInspectionNotPending
	}
	return nil
}
