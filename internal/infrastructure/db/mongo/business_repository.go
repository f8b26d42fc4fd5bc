package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

const businessCollection = "businesses"

// MongoBusinessRepository persists tenant records. Businesses are created
// by the signup/checkout flow and only ever updated here through tenant
// settings edits; never deleted.
type MongoBusinessRepository struct {
	coll *mongo.Collection
}

func NewBusinessRepository(db *mongo.Database) *MongoBusinessRepository {
	return &MongoBusinessRepository{coll: db.Collection(businessCollection)}
}

type mongoBusiness struct {
	ID                 string `bson:"_id"`
	Name               string `bson:"name"`
	Email              string `bson:"email,omitempty"`
	Phone              string `bson:"phone,omitempty"`
	SubscriptionTier   string `bson:"subscription_tier"`
	SubscriptionStatus string `bson:"subscription_status"`
	BillingCustomerID  string `bson:"billing_customer_id,omitempty"`
	TrialEndsAt        int64  `bson:"trial_ends_at,omitempty"`
	SubscriptionEndsAt int64  `bson:"subscription_ends_at,omitempty"`
	OnboardingDone     bool   `bson:"onboarding_done"`
	CreatedAt          int64  `bson:"created_at"`
	UpdatedAt          int64  `bson:"updated_at"`
}

func (r *MongoBusinessRepository) Find(ctx context.Context, id string) (*domain.Business, error) {
	var mb mongoBusiness
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("find business: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *MongoBusinessRepository) Update(ctx context.Context, id string, upd ports.BusinessUpdate) (*domain.Business, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.OnboardingDone != nil {
		set["onboarding_done"] = *upd.OnboardingDone
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mb mongoBusiness
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&mb)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("update business: %w", err)
	}
	return mb.toDomain(), nil
}

func (mb *mongoBusiness) toDomain() *domain.Business {
	return &domain.Business{
		ID:                 mb.ID,
		Name:               mb.Name,
		Email:              mb.Email,
		Phone:              mb.Phone,
		SubscriptionTier:   mb.SubscriptionTier,
		SubscriptionStatus: mb.SubscriptionStatus,
		BillingCustomerID:  mb.BillingCustomerID,
		TrialEndsAt:        unixToTime(mb.TrialEndsAt),
		SubscriptionEndsAt: unixToTime(mb.SubscriptionEndsAt),
		OnboardingDone:     mb.OnboardingDone,
		CreatedAt:          unixToTime(mb.CreatedAt),
		UpdatedAt:          unixToTime(mb.UpdatedAt),
	}
}
