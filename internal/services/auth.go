package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/questlearn-backend/internal/data/aggregates"
	"github.com/yungbote/questlearn-backend/internal/data/repos"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/platform/validate"
)

const (
	msgInvalidCredentials = "invalid email or password"
	msgEmailTaken         = "user with this email already exists"
	msgUsernameTaken      = "user with this username already exists"
	msgUserNotFound       = "user not found"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User        *types.User `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	leaderboard  LeaderboardService
	jwtSecretKey []byte
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	leaderboard LeaderboardService,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		leaderboard:  leaderboard,
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

// Register stores the email exactly as given after trimming; addresses that differ
// only by case are distinct accounts.
func (as *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "Auth.Register"
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(op, in); err != nil {
		return nil, err
	}

	emailTaken, err := as.userRepo.EmailExists(ctx, nil, in.Email)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if emailTaken {
		return nil, domainagg.Conflict(op, msgEmailTaken)
	}
	usernameTaken, err := as.userRepo.UsernameExists(ctx, nil, in.Username)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if usernameTaken {
		return nil, domainagg.Conflict(op, msgUsernameTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	user := &types.User{
		Email:        in.Email,
		Username:     in.Username,
		Password:     string(hash),
		TotalXP:      0,
		CurrentLevel: 1,
	}
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		mapped := dataagg.MapError(op, err)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			// Lost a race with a concurrent registration.
			return nil, domainagg.NewError(domainagg.CodeConflict, op, "user with this email or username already exists", err)
		}
		as.log.Error("create user failed", "error", err)
		return nil, mapped
	}
	as.log.Info("user registered", "user_id", user.ID)

	if as.leaderboard != nil {
		as.leaderboard.Record(ctx, user)
	}
	return as.issue(op, user)
}

func (as *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	const op = "Auth.Login"
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(op, in); err != nil {
		return nil, err
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, in.Email)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if user == nil {
		return nil, domainagg.NewError(domainagg.CodeUnauthenticated, op, msgInvalidCredentials, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, domainagg.NewError(domainagg.CodeUnauthenticated, op, msgInvalidCredentials, nil)
	}
	return as.issue(op, user)
}

func (as *authService) issue(op string, user *types.User) (*AuthResult, error) {
	tok, err := as.generateAccessToken(user)
	if err != nil {
		as.log.Error("sign access token failed", "error", err)
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return &AuthResult{
		User:        user,
		AccessToken: tok,
		ExpiresIn:   int64(as.accessTTL / time.Second),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	if len(as.jwtSecretKey) == 0 {
		return "", errors.New("jwt secret key not configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
}

// SetContextFromToken validates tokenString and attaches the caller to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "Auth.Token"
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, domainagg.NewError(domainagg.CodeUnauthenticated, op, "missing token", nil)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ctx, domainagg.NewError(domainagg.CodeUnauthenticated, op, "invalid or expired token", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, domainagg.NewError(domainagg.CodeUnauthenticated, op, "invalid token subject", err)
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

// requireUserID returns the authenticated caller or an unauthenticated error.
func requireUserID(ctx context.Context, op string) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, domainagg.NewError(domainagg.CodeUnauthenticated, op, "unauthorized", nil)
	}
	return id, nil
}
