package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrgService 组织服务
type OrgService struct {
	repo     *repository.OrgRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewOrgService(repo *repository.OrgRepository, userRepo *repository.UserRepository, logger *zap.Logger) *OrgService {
	return &OrgService{repo: repo, userRepo: userRepo, logger: logger}
}

// List 查询组织列表
func (s *OrgService) List(ctx context.Context, filters map[string]string) ([]entity.Organization, error) {
	return s.repo.FindAll(ctx, filters)
}

// Get 获取组织详情
func (s *OrgService) Get(ctx context.Context, id string) (*entity.Organization, error) {
	return s.repo.FindByID(ctx, id)
}

// Members 获取组织成员列表
func (s *OrgService) Members(ctx context.Context, orgID string) ([]entity.User, error) {
	if _, err := s.repo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.userRepo.ListByOrg(ctx, orgID)
}

var validOrgTypes = map[string]bool{
	entity.OrgTypeInternal:          true,
	entity.OrgTypeContractor:        true,
	entity.OrgTypeShippingLogistics: true,
	entity.OrgTypeOEMPartner:        true,
	entity.OrgTypeDistributor:       true,
}

// CreateOrgRequest 创建组织请求
type CreateOrgRequest struct {
	Name            string `json:"name" binding:"required"`
	LegalName       string `json:"legal_name"`
	Code            string `json:"code" binding:"required"`
	Type            string `json:"type" binding:"required"`
	Description     string `json:"description"`
	POCode2Digit    string `json:"po_code_2_digit"`
	DunsNumber      string `json:"duns_number"`
	TaxID           string `json:"tax_id"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	BusinessAddress string `json:"business_address"`
	BillingAddress  string `json:"billing_address"`
	CPFRContacts    string `json:"cpfr_contacts"`
}

// Create 创建组织
func (s *OrgService) Create(ctx context.Context, req *CreateOrgRequest) (*entity.Organization, error) {
	if !validOrgTypes[req.Type] {
		return nil, fmt.Errorf("非法的组织类型: %s", req.Type)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if existing, err := s.repo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("组织短码 %s 已存在", code)
	}

	org := &entity.Organization{
		ID:              uuid.New().String()[:32],
		Name:            req.Name,
		LegalName:       req.LegalName,
		Code:            code,
		Type:            req.Type,
		Description:     req.Description,
		POCode2Digit:    req.POCode2Digit,
		DunsNumber:      req.DunsNumber,
		TaxID:           req.TaxID,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		BusinessAddress: req.BusinessAddress,
		BillingAddress:  req.BillingAddress,
		CPFRContacts:    req.CPFRContacts,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("创建组织失败: %w", err)
	}

	s.logger.Info("organization created",
		zap.String("org_id", org.ID),
		zap.String("code", org.Code),
		zap.String("type", org.Type))

	return org, nil
}

// UpdateOrgRequest 更新组织请求
type UpdateOrgRequest struct {
	Name            *string `json:"name"`
	LegalName       *string `json:"legal_name"`
	Description     *string `json:"description"`
	POCode2Digit    *string `json:"po_code_2_digit"`
	DunsNumber      *string `json:"duns_number"`
	TaxID           *string `json:"tax_id"`
	ContactEmail    *string `json:"contact_email"`
	ContactPhone    *string `json:"contact_phone"`
	BusinessAddress *string `json:"business_address"`
	BillingAddress  *string `json:"billing_address"`
	CPFRContacts    *string `json:"cpfr_contacts"`
	IsActive        *bool   `json:"is_active"`
}

// Update 更新组织
func (s *OrgService) Update(ctx context.Context, id string, req *UpdateOrgRequest) (*entity.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.LegalName != nil {
		org.LegalName = *req.LegalName
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.POCode2Digit != nil {
		org.POCode2Digit = *req.POCode2Digit
	}
	if req.DunsNumber != nil {
		org.DunsNumber = *req.DunsNumber
	}
	if req.TaxID != nil {
		org.TaxID = *req.TaxID
	}
	if req.ContactEmail != nil {
		org.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		org.ContactPhone = *req.ContactPhone
	}
	if req.BusinessAddress != nil {
		org.BusinessAddress = *req.BusinessAddress
	}
	if req.BillingAddress != nil {
		org.BillingAddress = *req.BillingAddress
	}
	if req.CPFRContacts != nil {
		org.CPFRContacts = *req.CPFRContacts
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("更新组织失败: %w", err)
	}
	return org, nil
}
