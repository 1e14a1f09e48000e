package core

import (
	"context"
	"fmt"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.UserService = &userService{}

type userService struct {
	dataProductStorage service.DataProductStorage
}

func (s *userService) GetUserData(ctx context.Context, user *service.User) (*service.UserInfo, error) {
	const op errs.Op = "userService.GetUserData"

	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, fmt.Errorf("no user found in context"))
	}

	info := &service.UserInfo{
		Username:        user.Username,
		Email:           user.Email,
		DomainIDs:       user.DomainIDs,
		LoginExpiration: user.Expiry,
		DataProducts:    []*service.DataProduct{},
	}

	for _, domainID := range user.DomainIDs {
		products, err := s.dataProductStorage.GetDataProductsForDomain(ctx, domainID)
		if err != nil {
			return nil, errs.E(op, errs.UserName(user.Username), err)
		}

		info.DataProducts = append(info.DataProducts, products...)
	}

	return info, nil
}

func NewUserService(dataProductStorage service.DataProductStorage) *userService {
	return &userService{
		dataProductStorage: dataProductStorage,
	}
}
