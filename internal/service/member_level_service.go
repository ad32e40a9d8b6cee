package service

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/tree"
)

// MemberLevelInput 是创建或更新会员等级时的输入。
type MemberLevelInput struct {
	Name        string
	GrowthPoint int
	Discount    int
	IsDefault   bool
	Status      *int8
}

// MemberLevelService 接口定义了会员等级管理相关的业务操作。
type MemberLevelService interface {
	List(ctx context.Context) ([]model.MemberLevel, error)
	Get(ctx context.Context, id uint) (*model.MemberLevel, error)
	Create(ctx context.Context, in MemberLevelInput) (*model.MemberLevel, error)
	Update(ctx context.Context, id uint, in MemberLevelInput) (*model.MemberLevel, error)
	Delete(ctx context.Context, id uint) error
}

type memberLevelService struct {
	db        *gorm.DB
	levelRepo repository.MemberLevelRepository
	userRepo  repository.UserRepository
}

// NewMemberLevelService 创建一个新的 MemberLevelService 实例。
func NewMemberLevelService(db *gorm.DB, levelRepo repository.MemberLevelRepository, userRepo repository.UserRepository) MemberLevelService {
	return &memberLevelService{db: db, levelRepo: levelRepo, userRepo: userRepo}
}

func (s *memberLevelService) List(ctx context.Context) ([]model.MemberLevel, error) {
	return s.levelRepo.FindAll(ctx)
}

func (s *memberLevelService) Get(ctx context.Context, id uint) (*model.MemberLevel, error) {
	level, err := s.levelRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return level, err
}

// Create 新增会员等级。设为默认时，其它等级的默认标记在同一事务内被取消。
func (s *memberLevelService) Create(ctx context.Context, in MemberLevelInput) (*model.MemberLevel, error) {
	level := &model.MemberLevel{}
	if err := applyMemberLevelInput(level, in); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.levelRepo.WithTx(tx)
		if err := repo.Create(ctx, level); err != nil {
			return err
		}
		if level.IsDefault {
			return repo.ClearDefault(ctx, level.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return level, nil
}

func (s *memberLevelService) Update(ctx context.Context, id uint, in MemberLevelInput) (*model.MemberLevel, error) {
	var level *model.MemberLevel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.levelRepo.WithTx(tx)
		var err error
		level, err = repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := applyMemberLevelInput(level, in); err != nil {
			return err
		}
		if err := repo.Update(ctx, level); err != nil {
			return err
		}
		if level.IsDefault {
			return repo.ClearDefault(ctx, level.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return level, nil
}

// Delete 删除会员等级，仍有用户处于该等级时拒绝删除。
func (s *memberLevelService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.levelRepo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		users, err := s.userRepo.WithTx(tx).CountByMemberLevel(ctx, id)
		if err != nil {
			return err
		}
		if err := tree.ValidateDeletable(strconv.FormatUint(uint64(id), 10), 0, users, "users"); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func applyMemberLevelInput(level *model.MemberLevel, in MemberLevelInput) error {
	if in.Discount < 1 || in.Discount > 100 || in.GrowthPoint < 0 {
		return ErrInvalidArgument
	}
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return err
	}
	level.Name = in.Name
	level.GrowthPoint = in.GrowthPoint
	level.Discount = in.Discount
	level.IsDefault = in.IsDefault
	level.Status = status
	return nil
}
