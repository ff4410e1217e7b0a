package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitylab/auth-service/internal/core/domain"
)

const userCollection = "users"

// MongoUserRepository is the credential store. OTP fields are mutated
// exclusively through conditional updates keyed on the previously
// observed code, so concurrent issue/consume cycles for the same user
// cannot lose writes.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Verified     bool               `bson:"is_account_verified"`

	// Empty code = no OTP pending; expiry is unix seconds, 0 when clear.
	VerifyOTP       string `bson:"verify_otp"`
	VerifyOTPExpiry int64  `bson:"verify_otp_expiry"`
	ResetOTP        string `bson:"forgot_password_otp"`
	ResetOTPExpiry  int64  `bson:"forgot_password_otp_expiry"`

	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return toDomain(mu), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return toDomain(mu), nil
}

func (r *MongoUserRepository) SwapVerifyOTP(ctx context.Context, id, observedCode string, next domain.OtpRecord) error {
	return r.conditionalUpdate(ctx, id,
		bson.M{"verify_otp": observedCode},
		bson.M{
			"verify_otp":        next.Code,
			"verify_otp_expiry": unixOrZero(next.ExpiresAt),
		})
}

func (r *MongoUserRepository) MarkVerified(ctx context.Context, id, observedCode string) error {
	return r.conditionalUpdate(ctx, id,
		bson.M{"verify_otp": observedCode},
		bson.M{
			"is_account_verified": true,
			"verify_otp":          "",
			"verify_otp_expiry":   int64(0),
		})
}

func (r *MongoUserRepository) SwapResetOTP(ctx context.Context, id, observedCode string, next domain.OtpRecord) error {
	return r.conditionalUpdate(ctx, id,
		bson.M{"forgot_password_otp": observedCode},
		bson.M{
			"forgot_password_otp":        next.Code,
			"forgot_password_otp_expiry": unixOrZero(next.ExpiresAt),
		})
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, observedCode, passwordHash string) error {
	return r.conditionalUpdate(ctx, id,
		bson.M{"forgot_password_otp": observedCode},
		bson.M{
			"password_hash":              passwordHash,
			"forgot_password_otp":        "",
			"forgot_password_otp_expiry": int64(0),
		})
}

// conditionalUpdate applies a $set only when the document still carries
// the expected guard values. Matching nothing means another request won
// the read-modify-write race.
func (r *MongoUserRepository) conditionalUpdate(ctx context.Context, id string, guard bson.M, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	filter := bson.M{"_id": oid}
	for k, v := range guard {
		filter[k] = v
	}
	set["updated_at"] = time.Now().UTC().Unix()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOTPConflict
	}
	return nil
}

func toDomain(mu mongoUser) *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Name:         mu.Name,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Verified:     mu.Verified,
		VerifyOTP:    toOTPRecord(mu.VerifyOTP, mu.VerifyOTPExpiry),
		ResetOTP:     toOTPRecord(mu.ResetOTP, mu.ResetOTPExpiry),
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func toOTPRecord(code string, expiry int64) domain.OtpRecord {
	if code == "" {
		return domain.OtpRecord{}
	}
	return domain.OtpRecord{Code: code, ExpiresAt: unixToTime(expiry)}
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
