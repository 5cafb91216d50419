package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/derived"
	"foodgram/pkg/jwt"
	"foodgram/pkg/relation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
		GetUsers(ctx context.Context, viewerID string, page domain.PageRequest) (*domain.UserListResponse, error)
		GetUser(ctx context.Context, viewerID string, id string) (*domain.UserResponse, error)
		Me(ctx context.Context, userID string) (*domain.UserResponse, error)
		SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error
		DeleteUser(ctx context.Context, id string) error
		Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (*domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, authorID string, userID string) error
		GetSubscriptions(ctx context.Context, userID string, page domain.PageRequest, recipesLimit int) (*domain.SubscriptionListResponse, error)
	}

	userService struct {
		userRepository UserRepository
		calculator     derived.Calculator
		mutator        relation.Mutator
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
		appURL         string
	}
)

func NewUserService(
	userRepository UserRepository,
	calculator derived.Calculator,
	mutator relation.Mutator,
	jwtService jwt.JWTService,
	mailer mailing.Mailer,
	appURL string,
) UserService {
	return &userService{
		userRepository: userRepository,
		calculator:     calculator,
		mutator:        mutator,
		jwtService:     jwtService,
		mailer:         mailer,
		appURL:         appURL,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// actorID parses the id of the authenticated user.
func actorID(userID string) (uuid.UUID, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}

func ToUserResponse(u entities.User, state derived.UserState) domain.UserResponse {
	return domain.UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: state.IsSubscribed,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.userRepository.CheckEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailAlreadyUsed
	}
	taken, err = s.userRepository.CheckUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameAlreadyUsed
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.RegisterUser(ctx, &entities.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
		Role:      domain.RoleUser,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent signup
		if taken, _ := s.userRepository.CheckEmail(ctx, email); taken {
			return nil, domain.ErrEmailAlreadyUsed
		}
		return nil, domain.ErrUsernameAlreadyUsed
	}
	if err != nil {
		return nil, err
	}

	return &domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(user.Password, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) annotate(ctx context.Context, viewer uuid.UUID, users []entities.User) ([]domain.UserResponse, map[uuid.UUID]derived.UserState, error) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	states, err := s.calculator.UserStates(ctx, viewer, ids)
	if err != nil {
		return nil, nil, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, ToUserResponse(u, states[u.ID]))
	}
	return res, states, nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID string, page domain.PageRequest) (*domain.UserListResponse, error) {
	page = page.Normalize()
	users, total, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return nil, err
	}

	res, _, err := s.annotate(ctx, derived.Viewer(viewerID), users)
	if err != nil {
		return nil, err
	}
	return &domain.UserListResponse{
		Users:      res,
		Pagination: domain.NewPagination(page, total),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, viewerID string, id string) (*domain.UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, _, err := s.annotate(ctx, derived.Viewer(viewerID), []entities.User{*user})
	if err != nil {
		return nil, err
	}
	return &res[0], nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserResponse, error) {
	return s.GetUser(ctx, userID, userID)
}

func (s *userService) SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error {
	id, err := actorID(userID)
	if err != nil {
		return err
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !checkPassword(user.Password, req.CurrentPassword) {
		return domain.ErrWrongCurrentPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	if err := s.mailer.SendMail(user.Email, "Your password was changed", mailing.PasswordChangedBody(user.Username, s.appURL)); err != nil {
		zap.L().Warn("failed to send password changed mail", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	if _, err := s.userRepository.GetUserByID(ctx, userID); err != nil {
		return err
	}

	count, err := s.userRepository.CountRecipes(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrUserHasRecipes
	}
	return s.userRepository.DeleteUser(ctx, userID)
}

func (s *userService) Subscribe(ctx context.Context, authorID string, userID string, recipesLimit int) (*domain.SubscriptionResponse, error) {
	actor, err := actorID(userID)
	if err != nil {
		return nil, err
	}
	author, err := uuid.Parse(authorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	if err := s.mutator.Activate(ctx, relation.Follow, actor, author); err != nil {
		return nil, err
	}

	user, err := s.userRepository.GetUserByID(ctx, author)
	if err != nil {
		return nil, err
	}
	subs, err := s.subscriptions(ctx, actor, []entities.User{*user}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

func (s *userService) Unsubscribe(ctx context.Context, authorID string, userID string) error {
	actor, err := actorID(userID)
	if err != nil {
		return err
	}
	author, err := uuid.Parse(authorID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	return s.mutator.Deactivate(ctx, relation.Follow, actor, author)
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, page domain.PageRequest, recipesLimit int) (*domain.SubscriptionListResponse, error) {
	actor, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	authors, total, err := s.userRepository.GetSubscriptions(ctx, actor, page)
	if err != nil {
		return nil, err
	}

	subs, err := s.subscriptions(ctx, actor, authors, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &domain.SubscriptionListResponse{
		Subscriptions: subs,
		Pagination:    domain.NewPagination(page, total),
	}, nil
}

func (s *userService) subscriptions(ctx context.Context, viewer uuid.UUID, authors []entities.User, recipesLimit int) ([]domain.SubscriptionResponse, error) {
	users, states, err := s.annotate(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	recipes, err := s.userRepository.GetLatestRecipes(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[uuid.UUID][]domain.RecipeBrief, len(authors))
	for _, r := range recipes {
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], domain.RecipeBrief{
			ID:          r.ID.String(),
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}

	res := make([]domain.SubscriptionResponse, 0, len(authors))
	for i, a := range authors {
		briefs := byAuthor[a.ID]
		if briefs == nil {
			briefs = []domain.RecipeBrief{}
		}
		res = append(res, domain.SubscriptionResponse{
			UserResponse: users[i],
			Recipes:      briefs,
			RecipesCount: states[a.ID].RecipesCount,
		})
	}
	return res, nil
}
