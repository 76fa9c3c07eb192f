package service

import (
	"github.com/bullet2theh3ad/bdi-business-portal/internal/config"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services 组织域服务集合
type Services struct {
	Auth       *AuthService
	Org        *OrgService
	Invitation *InvitationService
}

// NewServices 创建组织域服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg),
		Org:        NewOrgService(repos.Org, repos.User, logger),
		Invitation: NewInvitationService(repos.Invitation, repos.Org, repos.User, logger),
	}
}
