package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/internal/users"
	pkgauth "github.com/mofihq/mofi-backend/pkg/auth"
	"github.com/mofihq/mofi-backend/pkg/config"
	"github.com/mofihq/mofi-backend/pkg/db/models"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/mailer"
	"github.com/mofihq/mofi-backend/pkg/oauth"
	"github.com/mofihq/mofi-backend/pkg/security"
	"github.com/mofihq/mofi-backend/pkg/upload"
)

// UserService covers the crew-account flows: registration with email
// verification, password login, the reset pair and the Google OAuth pair.
type UserService interface {
	Register(ctx context.Context, req UserRegisterRequest, profilePic upload.File) error
	VerifyEmail(ctx context.Context, token string) string
	Login(ctx context.Context, req LoginRequest) (*UserLoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GoogleAuthURL(state string) string
	GoogleCallback(ctx context.Context, code string) (*GoogleCallbackResult, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	MarkEmailVerified(ctx context.Context, email string) error
	UpdatePasswordHash(ctx context.Context, email string, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type identityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Identity, error)
}

type userService struct {
	users       userRepository
	google      identityProvider
	blobs       blobStore
	mail        mailer.Sender
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	publicURL   string
	frontendURL string
	picFolder   string
	maxPicBytes int64
	logg        *logger.Logger
	now         func() time.Time
}

// UserServiceParams bundles the dependencies for NewUserService.
type UserServiceParams struct {
	UserRepo       userRepository
	Google         identityProvider
	Blobs          blobStore
	Mail           mailer.Sender
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	PublicURL      string
	FrontendURL    string
	ProfileFolder  string
	MaxPicBytes    int64
	Logger         *logger.Logger
}

// NewUserService constructs the crew-account auth service.
func NewUserService(params UserServiceParams) (UserService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Google == nil {
		return nil, fmt.Errorf("google provider is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if params.Mail == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	return &userService{
		users:       params.UserRepo,
		google:      params.Google,
		blobs:       params.Blobs,
		mail:        params.Mail,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		publicURL:   strings.TrimRight(params.PublicURL, "/"),
		frontendURL: strings.TrimRight(params.FrontendURL, "/"),
		picFolder:   params.ProfileFolder,
		maxPicBytes: params.MaxPicBytes,
		logg:        params.Logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register onboards a crew account: optional profile picture to the blob
// store, row insert, then the verification email. A failed email send
// compensates by deleting both the row and the blob.
func (s *userService) Register(ctx context.Context, req UserRegisterRequest, profilePic upload.File) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if req.Password != req.ConfirmPassword {
		return pkgerrors.New(pkgerrors.CodeConflict, "passwords do not match")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var picURL, picID *string
	if profilePic != nil {
		if err := upload.ValidateImage(profilePic, s.maxPicBytes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid profile picture")
		}
		data, err := profilePic.ReadAll()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read profile picture")
		}
		result, err := s.blobs.UploadImage(ctx, s.picFolder, data)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "profile picture upload failed")
		}
		picURL, picID = &result.SecureURL, &result.PublicID
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		Name:         req.Name,
		Username:     username,
		Provider:     models.ProviderLocal,
		PasswordHash: &passwordHash,
		ProfilePic:   picURL,
		ProfilePicID: picID,
		DateOfBirth:  req.DateOfBirth,
	})
	if err != nil {
		if picID != nil {
			s.destroyBlob(ctx, *picID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	if err := s.sendVerification(ctx, req.Name, email); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logError(ctx, map[string]any{"user_id": user.ID.String()},
				"failed to roll back user row", delErr)
		}
		if picID != nil {
			s.destroyBlob(ctx, *picID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification email")
	}
	return nil
}

// VerifyEmail consumes an email token and always resolves to a frontend
// redirect, even for invalid or expired tokens.
func (s *userService) VerifyEmail(ctx context.Context, token string) string {
	email, err := pkgauth.ParseEmailToken(s.jwtCfg, token)
	if err != nil {
		return s.frontendURL + "/verify?status=invalid"
	}
	if err := s.users.MarkEmailVerified(ctx, email); err != nil {
		s.logError(ctx, map[string]any{"email": email}, "failed to mark email verified", err)
		return s.frontendURL + "/verify?status=invalid"
	}
	return s.frontendURL + "/login?verified=success"
}

// RequestPasswordReset mails a short-lived reset link. Unknown emails are
// reported, matching the registration flow's account lookup.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	token, err := pkgauth.MintEmailToken(s.jwtCfg, s.now(), email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint reset token")
	}
	name := user.Name
	if name == "" {
		name = "User"
	}
	resetURL := s.frontendURL + "/reset-password?token=" + token
	subject, body := mailer.PasswordResetEmail(name, resetURL)
	if err := s.mail.Send(ctx, email, subject, body); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send reset email")
	}
	return nil
}

// ResetPassword redeems a reset token and stores the new credential.
func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := pkgauth.ParseEmailToken(s.jwtCfg, token)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired token")
	}
	if len(newPassword) < 6 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, email, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

// Login authenticates a locally registered crew account.
func (s *userService) Login(ctx context.Context, req LoginRequest) (*UserLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	// Accounts created through Google carry no local credential.
	if user.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	access, refresh, err := s.mintPair(user.ID.String())
	if err != nil {
		return nil, err
	}
	return &UserLoginResponse{
		Access:       access,
		User:         users.FromModel(user),
		RefreshToken: refresh,
	}, nil
}

// Me returns the safe profile of the authenticated crew account.
func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return users.FromModel(user), nil
}

// GoogleAuthURL returns the consent-screen URL for the frontend to open.
func (s *userService) GoogleAuthURL(state string) string {
	return s.google.AuthURL(state)
}

// GoogleCallback exchanges the authorization code, upserts the account by
// email and hands back the token pair plus the frontend redirect.
func (s *userService) GoogleCallback(ctx context.Context, code string) (*GoogleCallbackResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}

	identity, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "google auth failed")
	}

	email := strings.ToLower(identity.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		user, err = s.createGoogleUser(ctx, email, identity)
		if err != nil {
			return nil, err
		}
	}

	access, refresh, err := s.mintPair(user.ID.String())
	if err != nil {
		return nil, err
	}
	return &GoogleCallbackResult{
		Access:       access,
		RefreshToken: refresh,
		RedirectURL:  s.frontendURL + "/?access=" + access,
	}, nil
}

func (s *userService) createGoogleUser(ctx context.Context, email string, identity *oauth.Identity) (*models.User, error) {
	username, err := s.generateUsername(ctx, identity.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate username")
	}
	var pic *string
	if identity.Picture != "" {
		pic = &identity.Picture
	}
	// Google already vouched for the address, no verification email needed.
	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:         email,
		Name:          identity.Name,
		Username:      username,
		Provider:      models.ProviderGoogle,
		ProfilePic:    pic,
		EmailVerified: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}

// generateUsername builds "johndoe" from "John Doe" and appends a 4-char
// suffix, retrying until the name is free.
func (s *userService) generateUsername(ctx context.Context, name string) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	if base == "" {
		base = "user"
	}
	for {
		suffix, err := randomSuffix(4)
		if err != nil {
			return "", err
		}
		candidate := base + suffix
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func (s *userService) sendVerification(ctx context.Context, name, email string) error {
	token, err := pkgauth.MintEmailToken(s.jwtCfg, s.now(), email)
	if err != nil {
		return err
	}
	if name == "" {
		name = "User"
	}
	verifyURL := s.publicURL + "/api/v1/user/auth/verify-email/" + token
	subject, body := mailer.VerificationEmail(name, verifyURL)
	return s.mail.Send(ctx, email, subject, body)
}

func (s *userService) destroyBlob(ctx context.Context, publicID string) {
	if err := s.blobs.Destroy(ctx, publicID); err != nil {
		s.logError(ctx, map[string]any{"public_id": publicID}, "failed to destroy profile picture blob", err)
	}
}

func (s *userService) logError(ctx context.Context, fields map[string]any, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), msg, err)
}

func (s *userService) mintPair(subject string) (string, string, error) {
	now := s.now()
	access, err := pkgauth.MintAccessToken(s.jwtCfg, now, subject)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := pkgauth.MintRefreshToken(s.jwtCfg, now, subject)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}
	return access, refresh, nil
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomSuffix(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			return "", err
		}
		out[i] = suffixAlphabet[idx.Int64()]
	}
	return string(out), nil
}
