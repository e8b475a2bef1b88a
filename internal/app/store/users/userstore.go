package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/influencehub/internal/app/system/normalize"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/app/system/txn"
	"github.com/dalemusser/influencehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when another user already has the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrLastAdmin is returned when a change would leave no active admin.
	ErrLastAdmin = errors.New("cannot remove the last admin")
	// ErrConcurrentUpdate is returned when the user changed between read and write.
	ErrConcurrentUpdate = errors.New("user was modified concurrently; retry")
)

type Store struct {
	c     *mongo.Collection
	guard *mongo.Collection
	log   *zap.Logger
}

// adminGuardID names the document every admin demotion writes.
const adminGuardID = "active_admins"

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("users"),
		guard: db.Collection("admin_guard"),
		log:   zap.L(),
	}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a new user after normalizing email and name. The caller
// supplies the password hash and the active flag.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.FullName = normalize.Name(u.FullName)
	if u.Role == "" {
		u.Role = models.DefaultRole
	}
	if !u.Role.Valid() {
		return models.User{}, models.ErrUnknownRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns one page of users, newest first.
func (s *Store) List(ctx context.Context, w paging.Window) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, w.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.User, 0, w.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActiveAdmins returns how many active users hold the admin role.
func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": models.RoleAdmin, "is_active": true})
}

// Update is a partial user change. Nil fields are left alone.
type Update struct {
	Email          *string
	FullName       *string
	Role           *models.Role
	IsActive       *bool
	HashedPassword *string
}

// Fields lists the names of the set fields, for audit records.
func (u Update) Fields() []string {
	var out []string
	if u.Email != nil {
		out = append(out, "email")
	}
	if u.FullName != nil {
		out = append(out, "full_name")
	}
	if u.Role != nil {
		out = append(out, "role")
	}
	if u.IsActive != nil {
		out = append(out, "is_active")
	}
	if u.HashedPassword != nil {
		out = append(out, "password")
	}
	return out
}

// Update applies upd to the user with id and returns the stored result.
//
// A change that would leave no active admin fails with ErrLastAdmin. Every
// demotion bumps a shared guard document, so two demotions of different
// admins conflict inside transactions and one of them retries against the
// other's result. Without transactions the admins are counted again after the
// write and the change is rolled back if none remain. The write is
// conditioned on the role and active flag that were read; losing that race
// returns ErrConcurrentUpdate. A change that leaves the record as it was
// returns models.ErrNotModified.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.User, error) {
	var out models.User
	err := txn.Run(ctx, s.c.Database().Client(), s.log, func(ctx context.Context) error {
		cur, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}

		next := cur
		set := bson.M{}
		if upd.Email != nil {
			if e := normalize.Email(*upd.Email); e != cur.Email {
				next.Email = e
				set["email"] = e
			}
		}
		if upd.FullName != nil {
			if n := normalize.Name(*upd.FullName); n != cur.FullName {
				next.FullName = n
				set["full_name"] = n
			}
		}
		if upd.Role != nil {
			if !upd.Role.Valid() {
				return models.ErrUnknownRole
			}
			if *upd.Role != cur.Role {
				next.Role = *upd.Role
				set["role"] = *upd.Role
			}
		}
		if upd.IsActive != nil && *upd.IsActive != cur.IsActive {
			next.IsActive = *upd.IsActive
			set["is_active"] = *upd.IsActive
		}
		if upd.HashedPassword != nil {
			next.HashedPassword = *upd.HashedPassword
			set["hashed_password"] = *upd.HashedPassword
		}
		if len(set) == 0 {
			return models.ErrNotModified
		}

		wasAdmin := cur.Role == models.RoleAdmin && cur.IsActive
		stillAdmin := next.Role == models.RoleAdmin && next.IsActive
		demoting := wasAdmin && !stillAdmin
		if demoting {
			if err := s.bumpAdminGuard(ctx); err != nil {
				return fmt.Errorf("admin guard: %w", err)
			}
			n, err := s.CountActiveAdmins(ctx)
			if err != nil {
				return fmt.Errorf("count admins: %w", err)
			}
			if n <= 1 {
				return ErrLastAdmin
			}
		}

		next.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		set["updated_at"] = next.UpdatedAt
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": id, "role": cur.Role, "is_active": cur.IsActive},
			bson.M{"$set": set},
		)
		if err != nil {
			if wafflemongo.IsDup(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		if res.MatchedCount == 0 {
			return ErrConcurrentUpdate
		}

		if demoting {
			n, err := s.CountActiveAdmins(ctx)
			if err != nil {
				return fmt.Errorf("recount admins: %w", err)
			}
			if n == 0 {
				if err := s.revert(ctx, cur, next.UpdatedAt, set); err != nil {
					s.log.Error("last-admin rollback failed",
						zap.String("user_id", id.Hex()), zap.Error(err))
					return fmt.Errorf("rollback demotion: %w", err)
				}
				return ErrLastAdmin
			}
		}
		out = next
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return out, nil
}

// EnsureAdminGuard creates the guard document outside any transaction, since
// older servers cannot create collections inside one.
func (s *Store) EnsureAdminGuard(ctx context.Context) error {
	_, err := s.guard.UpdateOne(ctx,
		bson.M{"_id": adminGuardID},
		bson.M{"$setOnInsert": bson.M{"seq": 0}},
		options.Update().SetUpsert(true),
	)
	return err
}

// bumpAdminGuard writes the shared guard document.
func (s *Store) bumpAdminGuard(ctx context.Context) error {
	_, err := s.guard.UpdateOne(ctx,
		bson.M{"_id": adminGuardID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.Update().SetUpsert(true),
	)
	return err
}

// revert restores the fields named in set to their values in cur, unless the
// user has changed again since stamp.
func (s *Store) revert(ctx context.Context, cur models.User, stamp time.Time, set bson.M) error {
	restore := bson.M{"updated_at": cur.UpdatedAt}
	for field := range set {
		switch field {
		case "email":
			restore[field] = cur.Email
		case "full_name":
			restore[field] = cur.FullName
		case "role":
			restore[field] = cur.Role
		case "is_active":
			restore[field] = cur.IsActive
		case "hashed_password":
			restore[field] = cur.HashedPassword
		}
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": cur.ID, "updated_at": stamp},
		bson.M{"$set": restore},
	)
	return err
}

// SetRole changes a user's role, keeping the last-admin guard.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) (models.User, error) {
	return s.Update(ctx, id, Update{Role: &role})
}

// Deactivate clears the active flag, keeping the last-admin guard.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	inactive := false
	return s.Update(ctx, id, Update{IsActive: &inactive})
}

// EnsureUser creates u unless a user with its email already exists. It
// reports whether a user was created.
func (s *Store) EnsureUser(ctx context.Context, u models.User) (bool, error) {
	_, err := s.GetByEmail(ctx, u.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
