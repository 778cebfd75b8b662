package service

import (
	"context"
	"strings"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// searchLimit caps the user picker so an empty query cannot dump the table.
const searchLimit = 50

type IUserService interface {
	Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.UserResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// Search lists candidate collaborators: everyone except the caller, optionally
// narrowed by a username or email substring.
func (s *userService) Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.ExcludeID{ID: userId},
		specification.UserSearch{Query: strings.TrimSpace(query)},
		specification.OrderBy{Field: "username"},
		specification.Pagination{Limit: searchLimit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, &dto.UserResponse{Id: u.Id, Username: u.Username, Email: u.Email})
	}
	return res, nil
}
