package main

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/log"
)

// ensureSuperAdmin 确保超级角色存在，并把它授予 bootstrap 用户（幂等）。
// bootstrap 用户需先通过注册接口创建，尚未注册时只创建角色。
func ensureSuperAdmin(ctx context.Context, cfg config.AuthzConfig, roleRepo repository.RoleRepository, userRepo repository.UserRepository) error {
	if cfg.SuperRole == "" {
		return nil
	}
	role, err := roleRepo.FindByCode(ctx, cfg.SuperRole)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = &model.Role{Name: "超级管理员", Code: cfg.SuperRole, Status: model.StatusEnabled}
		if err := roleRepo.Create(ctx, role); err != nil {
			return err
		}
		log.Infof("ensureSuperAdmin: 已创建超级角色 '%s'", cfg.SuperRole)
	} else if err != nil {
		return err
	}

	if cfg.BootstrapAdmin == "" {
		return nil
	}
	user, err := userRepo.FindByUsername(ctx, cfg.BootstrapAdmin)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Infof("ensureSuperAdmin: 用户 '%s' 尚未注册，跳过授权", cfg.BootstrapAdmin)
		return nil
	}
	if err != nil {
		return err
	}
	if user.RoleID != nil {
		return nil
	}
	user.RoleID = &role.ID
	user.Role = nil
	if err := userRepo.Update(ctx, user); err != nil {
		return err
	}
	log.Infof("ensureSuperAdmin: 已为用户 '%s' 授予超级角色", cfg.BootstrapAdmin)
	return nil
}
