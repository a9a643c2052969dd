package project

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("project not found")
	ErrInvalidProject = errors.New("invalid project")
)

// Project is a billable unit of work. HourlyRate is stored as Decimal128 so
// earnings never pass through float arithmetic.
type Project struct {
	MongoID    primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	ID         string               `json:"id" bson:"-"`
	UserID     string               `json:"-" bson:"user_id"`
	Name       string               `json:"name" bson:"name" validate:"required,max=200"`
	HourlyRate decimal.Decimal      `json:"hourlyRate" bson:"-" validate:"gte=0"`
	Rate       primitive.Decimal128 `json:"-" bson:"hourly_rate"`
	Created    time.Time            `json:"created" bson:"created"`
}

type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByUser(ctx context.Context, userID string) ([]*Project, error)
	GetByID(ctx context.Context, userID, id string) (*Project, error)
}

// Earnings prices hours at the project's rate, rounded to cents.
func Earnings(hours decimal.Decimal, p *Project) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return hours.Mul(p.HourlyRate).Round(2)
}
