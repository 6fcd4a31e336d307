package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/auth"
	"github.com/revloop/revloop/internal/companyctx"
	"github.com/revloop/revloop/internal/quota"
	"github.com/revloop/revloop/internal/user/domain"
	"github.com/revloop/revloop/pkg/db"
	"github.com/revloop/revloop/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Guard quota.Guard
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	guard quota.Guard
}

func New(p Params) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
		guard: p.Guard,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if !auth.ValidPassword(req.Password) {
		return nil, domain.ErrInvalidPassword
	}

	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, domain.ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:           s.genID.Generate(),
		CompanyID:    companyID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         role,
	}

	var created *domain.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.guard.EnforceCreate(ctx, tx, companyID, quota.ResourceUsers); err != nil {
			return err
		}
		out, err := s.repo.Insert(ctx, tx, user)
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrEmailTaken
			}
			return err
		}
		created = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *service) List(ctx context.Context, req domain.ListUserRequest) (*domain.ListUserResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	p := req.Pagination.Normalize()
	users, total, err := s.repo.FindAll(ctx, s.db, companyID, p)
	if err != nil {
		return nil, err
	}

	return &domain.ListUserResponse{
		Data:     users,
		PageInfo: pagination.BuildPageInfo(total, p),
	}, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}
	return s.repo.FindByID(ctx, s.db, companyID, id)
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidCompany
	}
	return s.repo.Delete(ctx, s.db, companyID, id)
}
