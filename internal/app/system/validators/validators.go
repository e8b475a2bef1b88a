// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/influencehub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("profiles", profilesSchema())
	ensure("billing_details", billingSchema())
	ensure("brands", brandsSchema())

	// Written by the audit logger only; no validator needed.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enumOf[T ~string](vals []T) bson.A {
	out := bson.A{}
	for _, v := range vals {
		out = append(out, string(v))
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "full_name", "role", "is_active", "hashed_password"},
			"properties": bson.M{
				"email":           nonBlank,
				"full_name":       nonBlank,
				"role":            bson.M{"enum": enumOf(models.AllRoles())},
				"is_active":       bson.M{"bsonType": "bool"},
				"hashed_password": nonBlank,
			},
		},
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"platform", "username", "profile_url", "created_by"},
			"properties": bson.M{
				"platform":            bson.M{"enum": enumOf(models.Platforms)},
				"content_orientation": bson.M{"enum": enumOf(models.ContentOrientations)},
				"username":            nonBlank,
				"profile_url":         nonBlank,
				"followers":           bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
				"er_rate":             bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0},
				"male_audience":       bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0, "maximum": 100},
				"contact_details":     bson.M{"bsonType": "array"},
				"costing":             bson.M{"bsonType": "array"},
				"billing_details_id":  bson.M{"bsonType": bson.A{"objectId", "null"}},
				"created_by":          bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func billingSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"party_legal_name", "pan_card", "bank_accounts", "created_by", "version"},
			"properties": bson.M{
				"party_legal_name": nonBlank,
				"pan_card":         bson.M{"bsonType": "string", "minLength": models.PANLength, "maxLength": models.PANLength},
				"gstin":            bson.M{"bsonType": "string", "minLength": models.GSTINLength, "maxLength": models.GSTINLength},
				"is_msme":          bson.M{"bsonType": "bool"},
				"bank_accounts": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"_id", "account_number", "ifsc_code", "is_default"},
						"properties": bson.M{
							"_id":            bson.M{"bsonType": "objectId"},
							"account_number": nonBlank,
							"ifsc_code":      nonBlank,
							"is_default":     bson.M{"bsonType": "bool"},
							"is_verified":    bson.M{"bsonType": "bool"},
						},
					},
				},
				"created_by": bson.M{"bsonType": "objectId"},
				"version":    bson.M{"bsonType": bson.A{"long", "int"}},
			},
		},
	}
}

func brandsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "pocs", "created_by"},
			"properties": bson.M{
				"name":               nonBlank,
				"billing_details_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"pocs": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"_id", "name", "email"},
						"properties": bson.M{
							"_id":   bson.M{"bsonType": "objectId"},
							"name":  nonBlank,
							"email": nonBlank,
						},
					},
				},
				"created_by": bson.M{"bsonType": "objectId"},
			},
		},
	}
}
