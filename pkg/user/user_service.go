package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodshare/domain"
	"foodshare/entities"
	"foodshare/internal/utils"
	"foodshare/internal/utils/mailing"
	"foodshare/internal/utils/storage"
	"foodshare/pkg/jwt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUserByID(ctx context.Context, id, viewerID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error)
		SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error
		UpdateAvatar(ctx context.Context, req domain.UpdateAvatarRequest, userID string) (domain.UpdateAvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
	}
}

// ToUserResponse maps a user entity onto the public profile shape. Shared by
// the subscription and recipe services for nested author cards.
func ToUserResponse(u *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.AvatarURL,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The unique index fired; figure out which field collided.
			taken, lookupErr := s.userRepository.EmailExists(ctx, req.Email)
			if lookupErr == nil && taken {
				return domain.RegisterResponse{}, domain.ErrEmailAlreadyUsed
			}
			return domain.RegisterResponse{}, domain.ErrUsernameAlreadyUsed
		}
		return domain.RegisterResponse{}, err
	}

	go func() {
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account is ready. Start sharing recipes!</p>",
			user.FirstName,
		)
		if err := mailing.SendMail(user.Email, "Welcome to Foodshare", body); err != nil {
			log.Printf("welcome mail to %s failed: %v", user.Email, err)
		}
	}()

	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	return domain.LoginResponse{
		AuthToken: s.jwtService.GenerateToken(user.ID.String()),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, false), nil
}

func (s *userService) GetUserByID(ctx context.Context, id, viewerID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	isSubscribed := false
	if viewerID != "" && viewerID != id {
		isSubscribed, _ = s.userRepository.IsSubscribed(ctx, viewerID, id)
	}

	return ToUserResponse(user, isSubscribed), nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		isSubscribed := false
		if viewerID != "" && viewerID != u.ID.String() {
			isSubscribed, _ = s.userRepository.IsSubscribed(ctx, viewerID, u.ID.String())
		}
		result = append(result, ToUserResponse(u, isSubscribed))
	}

	return result, count, nil
}

func (s *userService) SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) UpdateAvatar(ctx context.Context, req domain.UpdateAvatarRequest, userID string) (domain.UpdateAvatarResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UpdateAvatarResponse{}, domain.ErrUserNotFound
		}
		return domain.UpdateAvatarResponse{}, err
	}

	data, contentType, err := utils.DecodeBase64Image(req.Avatar)
	if err != nil {
		return domain.UpdateAvatarResponse{}, domain.ErrInvalidImageEncoding
	}

	var objectKey string
	if user.AvatarURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(user.AvatarURL)
		objectKey, err = s.s3.UpdateFile(existingKey, data, contentType, storage.AllowImage...)
	} else {
		objectKey, err = s.s3.UploadFile(user.ID.String(), data, contentType, "avatars", storage.AllowImage...)
	}
	if err != nil {
		return domain.UpdateAvatarResponse{}, err
	}

	user.AvatarURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UpdateAvatarResponse{}, err
	}

	return domain.UpdateAvatarResponse{Avatar: user.AvatarURL}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.AvatarURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(user.AvatarURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
		user.AvatarURL = ""
		return s.userRepository.UpdateUser(ctx, user)
	}

	return nil
}
