package databases

// go generate: mockery --name UserDatabase

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/police-fir-api/models"
)

const userName = "users"

// UserDatabase contains the read only methods used against the user accounts
// owned by the identity service
type UserDatabase interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (u *userDatabase) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := u.db.Collection(userName).FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(ErrNotFound, "user")
		}
		return nil, errors.Wrap(err, "failed to find user")
	}
	return user, nil
}

func (u *userDatabase) Count(ctx context.Context) (int64, error) {
	count, err := u.db.Collection(userName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}
	return count, nil
}

func (u *userDatabase) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	count, err := u.db.Collection(userName).CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count %s users", role)
	}
	return count, nil
}
