package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/task-api/internal/core/domain"
)

// IdentityRepository implements ports.IdentityStore on MongoDB. Uniqueness of
// email relies on the index created by EnsureIndexes.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(collectionIdentities)}
}

type mongoIdentity struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (m *mongoIdentity) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:             m.ID,
		Email:          m.Email,
		CredentialHash: m.PasswordHash,
		Role:           domain.Role(m.Role),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

// withoutHash keeps the password hash out of the decoded document.
var withoutHash = bson.D{{Key: "password_hash", Value: 0}}

func (r *IdentityRepository) Create(ctx context.Context, email, credentialHash string, role domain.Role) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoIdentity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: credentialHash,
		Role:         string(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	doc.PasswordHash = ""
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string, includeCredential bool) (*domain.Identity, error) {
	opts := options.FindOne()
	if !includeCredential {
		opts.SetProjection(withoutHash)
	}
	return r.findOne(ctx, bson.M{"email": email}, opts)
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutHash))
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoIdentity
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}
