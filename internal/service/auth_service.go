package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hotelhub/internal/event"
	"hotelhub/internal/model"
	"hotelhub/internal/repository"
	"hotelhub/internal/token"
	"hotelhub/pkg/apierror"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User, passwordHash string) error
	PasswordHash(ctx context.Context, userID string) (string, error)
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type tokenStore interface {
	Rotate(ctx context.Context, fn func(ctx context.Context, q repository.TokenQueries) error) error
	FindByID(ctx context.Context, tokenID string, userID string) (model.RefreshTokenRecord, error)
	Invalidate(ctx context.Context, tokenID string) error
	InvalidateAllForUser(ctx context.Context, userID string) error
}

type AuthService struct {
	users  userStore
	tokens tokenStore
	issuer *token.Issuer
	bus    event.Bus
}

func NewAuthService(users userStore, tokens tokenStore, issuer *token.Issuer, bus event.Bus) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer, bus: bus}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, ip string) (model.User, model.TokenPair, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if !emailPattern.MatchString(req.Email) {
		return model.User{}, model.TokenPair{}, apierror.BadRequest("invalid email format", "email")
	}
	if len(req.Password) < 8 {
		return model.User{}, model.TokenPair{}, apierror.BadRequest("password must be at least 8 characters", "password")
	}
	if req.FirstName == "" || req.LastName == "" {
		return model.User{}, model.TokenPair{}, apierror.BadRequest("fname and lname are required", "")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}
	if exists {
		return model.User{}, model.TokenPair{}, apierror.BadRequest("email already in use", "email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     []string{"user"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user, string(hash)); err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	pair, err := s.VerifiedTokens(ctx, user)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	s.publish(event.TypeUserRegistered, user, ip, nil, "")
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, ip string) (model.User, model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	hash, err := s.users.PasswordHash(ctx, user.ID)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		s.publish(event.TypeUserLoginFailed, user, ip, nil, "password mismatch")
		return model.User{}, model.TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := s.VerifiedTokens(ctx, user)
	if err != nil {
		return model.User{}, model.TokenPair{}, err
	}

	s.publish(event.TypeUserLogin, user, ip, nil, "")
	return user, pair, nil
}

// VerifiedTokens returns a fresh access token plus a refresh token, reusing
// the stored refresh token when it still verifies and rotating otherwise.
// The whole decision runs under the store's per-user rotation lock, so
// concurrent calls for one user cannot both mint a record.
func (s *AuthService) VerifiedTokens(ctx context.Context, user model.User) (model.TokenPair, error) {
	var refreshToken string

	err := s.tokens.Rotate(ctx, func(ctx context.Context, q repository.TokenQueries) error {
		current, err := q.FindValidForUpdate(ctx, user.ID)
		switch {
		case errors.Is(err, model.ErrTokenNotFound):
			refreshToken, err = s.mintRefresh(ctx, q, user)
			return err
		case err != nil:
			return err
		}

		if _, verifyErr := s.issuer.VerifyRefresh(current.TokenHash); verifyErr == nil {
			refreshToken = current.TokenHash
			return nil
		}

		// Stored token no longer verifies (secret rotation, corruption).
		// Revoke it and mint a replacement.
		if err := q.Invalidate(ctx, current.ID); err != nil {
			return err
		}
		refreshToken, err = s.mintRefresh(ctx, q, user)
		return err
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	accessToken, err := s.issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) mintRefresh(ctx context.Context, q repository.TokenQueries, user model.User) (string, error) {
	tokenID := uuid.NewString()
	signed, err := s.issuer.IssueRefresh(user.ID, user.Email, tokenID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	rec := model.RefreshTokenRecord{
		ID:        tokenID,
		TokenHash: signed,
		UserID:    user.ID,
		Valid:     true,
		ExpiresAt: now.Add(s.issuer.RefreshTTL()),
		CreatedAt: now,
	}
	if err := q.Create(ctx, rec); err != nil {
		return "", err
	}

	s.publish(event.TypeTokenRotated, user, "", map[string]any{"token_id": tokenID}, "")
	return signed, nil
}

// RefreshAccessToken serves GET /api/users/refresh-token: the cookie must
// verify against the refresh secret and its stored record must still be
// authoritative. Only a new access token is minted; the refresh token is
// left untouched.
func (s *AuthService) RefreshAccessToken(ctx context.Context, cookieValue string, ip string) (string, error) {
	claims, err := s.issuer.VerifyRefresh(cookieValue)
	if err != nil {
		return "", model.ErrUnauthorized
	}

	rec, err := s.tokens.FindByID(ctx, claims.TokenID(), claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return "", model.ErrUnauthorized
		}
		return "", err
	}
	if !rec.Valid {
		return "", model.ErrTokenRevoked
	}
	if rec.Expired(time.Now().UTC()) {
		return "", model.ErrTokenExpired
	}

	accessToken, err := s.issuer.IssueAccess(claims.UserID, claims.Email)
	if err != nil {
		return "", err
	}

	s.publish(event.TypeTokenRefreshed, model.User{ID: claims.UserID, Email: claims.Email}, ip, nil, "")
	return accessToken, nil
}

// Logout revokes the cookie's stored record when the cookie can be decoded.
// Best effort: logout succeeds regardless.
func (s *AuthService) Logout(ctx context.Context, cookieValue string, ip string) {
	if strings.TrimSpace(cookieValue) == "" {
		return
	}

	claims, err := s.issuer.DecodeRefreshUnverified(cookieValue)
	if err != nil {
		return
	}

	actor := model.User{ID: claims.UserID, Email: claims.Email}
	if err := s.tokens.Invalidate(ctx, claims.TokenID()); err != nil {
		s.publish(event.TypeTokenRevokeFailed, actor, ip, map[string]any{"token_id": claims.TokenID()}, err.Error())
		return
	}
	s.publish(event.TypeUserLogout, actor, ip, map[string]any{"token_id": claims.TokenID()}, "")
}

// ChangePassword swaps the stored hash after checking the current password
// and revokes every refresh token the user holds, forcing re-login on other
// devices.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest, ip string) error {
	if len(req.NewPassword) < 8 {
		return apierror.BadRequest("password must be at least 8 characters", "new_password")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := s.users.PasswordHash(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return err
	}

	if err := s.tokens.InvalidateAllForUser(ctx, userID); err != nil {
		return err
	}

	s.publish(event.TypeUserPasswordChanged, user, ip, nil, "")
	return nil
}

// DeleteAccount removes the user; owned hotels, reservations, reviews, and
// refresh tokens go with it through the schema's cascades.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string, ip string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.publish(event.TypeUserDeleted, user, ip, nil, "")
	return nil
}

func (s *AuthService) UserName(ctx context.Context, userID string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.FullName(), nil
}

func (s *AuthService) UserByID(ctx context.Context, userID string) (model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) publish(t event.Type, user model.User, ip string, detail map[string]any, errText string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		Type:       t,
		ActorID:    user.ID,
		ActorEmail: user.Email,
		ActorIP:    ip,
		Detail:     detail,
		Error:      errText,
	})
}
