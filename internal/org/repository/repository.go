package repository

import (
	"context"
	"errors"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/entity"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 组织域仓库集合
type Repositories struct {
	Org        *OrgRepository
	User       *UserRepository
	Invitation *InvitationRepository
}

// NewRepositories 创建组织域仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Org:        NewOrgRepository(db),
		User:       NewUserRepository(db),
		Invitation: NewInvitationRepository(db),
	}
}

// OrgRepository 组织仓库
type OrgRepository struct {
	db *gorm.DB
}

func NewOrgRepository(db *gorm.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// FindAll 查询组织列表
func (r *OrgRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.Organization, error) {
	var items []entity.Organization
	query := r.db.WithContext(ctx).Model(&entity.Organization{})

	if orgType := filters["type"]; orgType != "" {
		query = query.Where("type = ?", orgType)
	}
	if active := filters["is_active"]; active != "" {
		query = query.Where("is_active = ?", active == "true")
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

// FindByID 根据ID查找组织
func (r *OrgRepository) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// FindByCode 根据短码查找组织
func (r *OrgRepository) FindByCode(ctx context.Context, code string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// Create 创建组织
func (r *OrgRepository) Create(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// Update 更新组织
func (r *OrgRepository) Update(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// UserRepository 用户仓库
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Org").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Org").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListByOrg 查询组织成员
func (r *UserRepository) ListByOrg(ctx context.Context, orgID string) ([]entity.User, error) {
	var items []entity.User
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND is_active = true", orgID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新用户
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// InvitationRepository 邀请仓库
type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// FindByID 根据ID查找邀请
func (r *InvitationRepository) FindByID(ctx context.Context, id string) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := r.db.WithContext(ctx).Preload("Org").Where("id = ?", id).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByToken 根据令牌查找邀请
func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := r.db.WithContext(ctx).Preload("Org").Where("token = ?", token).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ListByOrg 查询组织的邀请记录
func (r *InvitationRepository) ListByOrg(ctx context.Context, orgID string) ([]entity.Invitation, error) {
	var items []entity.Invitation
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// Create 创建邀请
func (r *InvitationRepository) Create(ctx context.Context, inv *entity.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// Update 更新邀请
func (r *InvitationRepository) Update(ctx context.Context, inv *entity.Invitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}
