package service

import (
	"context"
	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"
	"skillup_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type LearnerService struct {
	Repo *repository.LearnerRepository
}

func NewLearnerService(repo *repository.LearnerRepository) *LearnerService {
	return &LearnerService{Repo: repo}
}

// Resolve 将身份令牌的 subject 映射为学员 ID，首次出现时建档
func (s *LearnerService) Resolve(ctx context.Context, claims *util.IdentityClaims) (*model.Learner, error) {
	username := claims.PreferredUsername
	if username == "" && claims.Email != "" {
		username = strings.SplitN(claims.Email, "@", 2)[0]
	}

	learner, err := s.Repo.FindOrCreateBySubject(ctx, claims.Subject, model.Learner{
		Fullname:     claims.Name,
		Username:     username,
		Email:        claims.Email,
		ProfileImage: claims.Picture,
	})
	if err != nil {
		logger.Log.Error("resolve learner failed", zap.String("subject", claims.Subject), zap.Error(err))
		return nil, err
	}
	return learner, nil
}

func (s *LearnerService) Get(ctx context.Context, learnerID string) (*model.Learner, error) {
	return s.Repo.FindByID(ctx, learnerID)
}

type UpdateProfileRequest struct {
	Fullname     *string `json:"fullname" binding:"omitempty,max=100"`
	Username     *string `json:"username" binding:"omitempty,max=100"`
	Email        *string `json:"email" binding:"omitempty,email"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,max=500"`
}

// UpdateProfile 修改展示字段，已签发证书的快照不受影响
func (s *LearnerService) UpdateProfile(ctx context.Context, learnerID string, req UpdateProfileRequest) (*model.Learner, error) {
	fields := make(map[string]interface{})
	if req.Fullname != nil {
		fields["fullname"] = *req.Fullname
	}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.ProfileImage != nil {
		fields["profile_image"] = *req.ProfileImage
	}

	if err := s.Repo.UpdateProfile(ctx, learnerID, fields); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, learnerID)
}
