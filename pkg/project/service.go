package project

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ServiceProject interface {
	Add(ctx context.Context, userID, name string, rate decimal.Decimal) (*Project, error)
	List(ctx context.Context, userID string) ([]*Project, error)
	Get(ctx context.Context, userID, id string) (*Project, error)
}

type Service struct {
	Repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	// decimals validate as their sign
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})

	return &Service{Repo: repo, validate: v}
}

func (s *Service) Add(ctx context.Context, userID, name string, rate decimal.Decimal) (*Project, error) {
	p := &Project{
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		HourlyRate: rate,
		Created:    time.Now().UTC(),
	}

	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProject, describe(err))
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Project, error) {
	return s.Repo.GetByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Project, error) {
	return s.Repo.GetByID(ctx, userID, id)
}

func describe(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Field() {
		case "Name":
			msgs = append(msgs, "name is required and must be at most 200 characters")
		case "HourlyRate":
			msgs = append(msgs, "hourly rate must not be negative")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}
