package credstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kartiklala/prodevans-support/pkg/auth"
)

// collectionName holds one document per identity, keyed by email.
const collectionName = "oauth_users"

// Ensure Store implements auth.CredentialStore.
var _ auth.CredentialStore = (*Store)(nil)

// Store persists credentials in MongoDB. The mongo client is injected at
// startup and owns connection pooling, so Store is safe for concurrent use.
type Store struct {
	col *mongo.Collection
}

// New returns a credential store bound to the oauth_users collection of db.
func New(db *mongo.Database) *Store {
	return &Store{col: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique email index backing the one-document-per
// -identity invariant. Call once at service start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(auth.ErrStore, err)
	}
	return nil
}

// Upsert creates or merges the credential document for cred.Email as a
// single update, so a concurrent reader never observes a half-written
// document for the same identity.
func (s *Store) Upsert(ctx context.Context, cred *auth.Credential) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"email": cred.Email},
		bson.M{"$set": upsertFields(cred)},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(auth.ErrStore, err)
	}
	return nil
}

// upsertFields builds the $set document for an upsert. The refresh token is
// only included when present: an exchange response without one must not
// erase a token stored by an earlier consent.
func upsertFields(cred *auth.Credential) bson.M {
	fields := bson.M{
		"email":        cred.Email,
		"access_token": cred.AccessToken,
		"expires_at":   cred.ExpiresAt,
		"api_domain":   cred.APIDomain,
		"user_info":    cred.Profile,
	}
	if cred.RefreshToken != nil {
		fields["refresh_token"] = *cred.RefreshToken
	}
	return fields
}

// Get returns the credential for an email. Absence is reported as
// auth.ErrCredentialNotFound, never as a store failure.
func (s *Store) Get(ctx context.Context, email string) (*auth.Credential, error) {
	var cred auth.Credential
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, errors.Join(auth.ErrStore, err)
	}
	return &cred, nil
}

// UpdateToken is the narrow mutation used by refresh: access token and
// expiry only, nothing else in the document is touched.
func (s *Store) UpdateToken(ctx context.Context, email, accessToken string, expiresAt time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"access_token": accessToken,
			"expires_at":   expiresAt,
		}},
	)
	if err != nil {
		return errors.Join(auth.ErrStore, err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrCredentialNotFound
	}
	return nil
}
