package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/repository"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/shared/mailer"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 邀请有效期
const invitationTTL = 7 * 24 * time.Hour

// InvitationService 组织邀请服务
type InvitationService struct {
	repo     *repository.InvitationRepository
	orgRepo  *repository.OrgRepository
	userRepo *repository.UserRepository
	mail     *mailer.Client
	logger   *zap.Logger
}

func NewInvitationService(
	repo *repository.InvitationRepository,
	orgRepo *repository.OrgRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *InvitationService {
	return &InvitationService{
		repo:     repo,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// SetMailer 注入邮件客户端（未配置时不发送邀请邮件）
func (s *InvitationService) SetMailer(m *mailer.Client) {
	s.mail = m
}

// generateToken 生成一次性邀请令牌
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成邀请令牌失败: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// List 查询组织的邀请记录
func (s *InvitationService) List(ctx context.Context, orgID string) ([]entity.Invitation, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

// CreateInvitationRequest 创建邀请请求
type CreateInvitationRequest struct {
	OrgID        string `json:"org_id" binding:"required"`
	InvitedEmail string `json:"invited_email" binding:"required,email"`
	InvitedName  string `json:"invited_name"`
	InvitedRole  string `json:"invited_role"`
	PortalURL    string `json:"-"`
}

// Create 创建邀请并发送邮件
func (s *InvitationService) Create(ctx context.Context, createdBy string, req *CreateInvitationRequest) (*entity.Invitation, error) {
	org, err := s.orgRepo.FindByID(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive {
		return nil, fmt.Errorf("组织 %s 已停用，无法邀请成员", org.Name)
	}

	email := strings.ToLower(strings.TrimSpace(req.InvitedEmail))
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil && existing.IsActive {
		return nil, fmt.Errorf("邮箱 %s 已注册", email)
	}

	role := req.InvitedRole
	if role == "" {
		role = entity.RoleMember
	}
	if role != entity.RoleMember && role != entity.RoleAdmin {
		return nil, fmt.Errorf("非法的邀请角色: %s", role)
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	inv := &entity.Invitation{
		ID:           uuid.New().String()[:32],
		OrgID:        org.ID,
		InvitedEmail: email,
		InvitedName:  req.InvitedName,
		InvitedRole:  role,
		Token:        token,
		Status:       entity.InvitationStatusPending,
		ExpiresAt:    time.Now().Add(invitationTTL),
		CreatedBy:    createdBy,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("创建邀请失败: %w", err)
	}

	if s.mail != nil {
		portal := req.PortalURL
		if portal == "" {
			portal = mailer.PortalURL
		}
		name := inv.InvitedName
		if name == "" {
			name = email
		}
		mailErr := s.mail.SendInvitation(ctx, email, mailer.Invitation{
			OrgName:     org.Name,
			InvitedName: name,
			Role:        role,
			AcceptURL:   fmt.Sprintf("%s/invitations/accept?token=%s", portal, token),
			ExpiresAt:   inv.ExpiresAt,
		})
		if mailErr != nil {
			// 邀请已落库，邮件失败不回滚，可重发
			s.logger.Warn("send invitation email failed",
				zap.String("invitation_id", inv.ID),
				zap.Error(mailErr))
		}
	}

	s.logger.Info("invitation created",
		zap.String("invitation_id", inv.ID),
		zap.String("org_id", org.ID),
		zap.String("invited_email", email))

	return inv, nil
}

// AcceptInvitationRequest 接受邀请请求
type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
}

// Accept 接受邀请：校验令牌与有效期，创建用户账号
func (s *InvitationService) Accept(ctx context.Context, req *AcceptInvitationRequest) (*entity.User, error) {
	inv, err := s.repo.FindByToken(ctx, req.Token)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("邀请不存在或已失效")
		}
		return nil, err
	}

	if inv.Status != entity.InvitationStatusPending {
		return nil, fmt.Errorf("邀请状态为 %s，无法接受", inv.Status)
	}
	if time.Now().After(inv.ExpiresAt) {
		inv.Status = entity.InvitationStatusExpired
		if uerr := s.repo.Update(ctx, inv); uerr != nil {
			s.logger.Warn("mark invitation expired failed",
				zap.String("invitation_id", inv.ID), zap.Error(uerr))
		}
		return nil, fmt.Errorf("邀请已过期")
	}

	if existing, err := s.userRepo.FindByEmail(ctx, inv.InvitedEmail); err == nil && existing != nil && existing.IsActive {
		return nil, fmt.Errorf("邮箱 %s 已注册", inv.InvitedEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	name := req.Name
	if name == "" {
		name = inv.InvitedName
	}

	user := &entity.User{
		ID:           uuid.New().String()[:32],
		Name:         name,
		Email:        inv.InvitedEmail,
		PasswordHash: string(hash),
		Role:         inv.InvitedRole,
		OrgID:        inv.OrgID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	now := time.Now()
	inv.Status = entity.InvitationStatusAccepted
	inv.AcceptedAt = &now
	inv.AcceptedBy = &user.ID
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("更新邀请状态失败: %w", err)
	}

	s.logger.Info("invitation accepted",
		zap.String("invitation_id", inv.ID),
		zap.String("user_id", user.ID))

	return user, nil
}

// Revoke 撤销待处理的邀请
func (s *InvitationService) Revoke(ctx context.Context, id string) error {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != entity.InvitationStatusPending {
		return fmt.Errorf("仅待处理的邀请可撤销，当前状态: %s", inv.Status)
	}

	inv.Status = entity.InvitationStatusRevoked
	return s.repo.Update(ctx, inv)
}
