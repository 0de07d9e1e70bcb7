package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/internal/producers"
	pkgauth "github.com/mofihq/mofi-backend/pkg/auth"
	"github.com/mofihq/mofi-backend/pkg/config"
	"github.com/mofihq/mofi-backend/pkg/db/models"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/mailer"
	"github.com/mofihq/mofi-backend/pkg/security"
	"github.com/mofihq/mofi-backend/pkg/storage/cloudinary"
	"github.com/mofihq/mofi-backend/pkg/upload"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the producer-account flows used by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest, profilePic upload.File) error
	ResendVerification(ctx context.Context, email string) (bool, error)
	VerifyEmail(ctx context.Context, token string) string
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, producerID uuid.UUID) (*producers.ProducerDTO, error)
	UpdateProfile(ctx context.Context, producerID uuid.UUID, req UpdateProfileRequest, profilePic upload.File) (*producers.ProducerDTO, error)
	ChangePassword(ctx context.Context, producerID uuid.UUID, req ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, producerID uuid.UUID, req DeleteAccountRequest) error
}

type producerRepository interface {
	Create(ctx context.Context, dto producers.CreateProducerDTO) (*models.Producer, error)
	FindByEmail(ctx context.Context, email string) (*models.Producer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Producer, error)
	MarkEmailVerified(ctx context.Context, email string) error
	UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type blobStore interface {
	UploadImage(ctx context.Context, folder string, data []byte) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

type service struct {
	producers   producerRepository
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

// ServiceParams bundles the dependencies required to build a producer auth
// service.
type ServiceParams struct {
	ProducerRepo   producerRepository
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

// NewService constructs the producer auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.ProducerRepo == nil {
		return nil, fmt.Errorf("producer repository is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if params.Mail == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	return &service{
		producers:   params.ProducerRepo,
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

// Register onboards a producer: optional profile picture to the blob store,
// row insert, then the verification email. The writes are not transactional,
// so a failed email send compensates by deleting both the row and the blob.
func (s *service) Register(ctx context.Context, req RegisterRequest, profilePic upload.File) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Password != req.ConfirmPassword {
		return pkgerrors.New(pkgerrors.CodeConflict, "passwords do not match")
	}

	if _, err := s.producers.FindByEmail(ctx, email); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check producer email")
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

	producer, err := s.producers.Create(ctx, producers.CreateProducerDTO{
		Email:            email,
		PasswordHash:     passwordHash,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		ProfessionalName: req.ProfessionalName,
		Contact:          req.Contact,
		NICNumber:        req.NICNumber,
		Street:           req.Street,
		City:             req.City,
		State:            req.State,
		PostalCode:       req.PostalCode,
		Country:          req.Country,
		DateOfBirth:      req.DateOfBirth,
		ProfilePicURL:    picURL,
		ProfilePicID:     picID,
	})
	if err != nil {
		if picID != nil {
			s.destroyBlob(ctx, *picID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create producer")
	}

	if err := s.sendVerification(ctx, req.FirstName, email); err != nil {
		if delErr := s.producers.Delete(ctx, producer.ID); delErr != nil {
			s.logError(ctx, map[string]any{"producer_id": producer.ID.String()},
				"failed to roll back producer row", delErr)
		}
		if picID != nil {
			s.destroyBlob(ctx, *picID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification email")
	}
	return nil
}

// ResendVerification sends a fresh verification email. It reports false
// without sending when the account is already verified.
func (s *service) ResendVerification(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	producer, err := s.producers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup producer")
	}
	if producer.EmailVerified {
		return false, nil
	}
	if err := s.sendVerification(ctx, producer.FirstName, email); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification email")
	}
	return true, nil
}

// VerifyEmail consumes an email token and always resolves to a frontend
// redirect. An invalid or expired token redirects to the failure page
// rather than surfacing an API error.
func (s *service) VerifyEmail(ctx context.Context, token string) string {
	email, err := pkgauth.ParseEmailToken(s.jwtCfg, token)
	if err != nil {
		return s.frontendURL + "/verify?status=invalid"
	}
	if err := s.producers.MarkEmailVerified(ctx, email); err != nil {
		s.logError(ctx, map[string]any{"email": email}, "failed to mark email verified", err)
		return s.frontendURL + "/verify?status=invalid"
	}
	return s.frontendURL + "/login?verified=success"
}

// Login checks credentials and verification status, then mints the token
// pair. All credential failures share one message.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	producer, err := s.producers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup producer")
	}

	valid, err := security.VerifyPassword(req.Password, producer.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !producer.EmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "email not verified")
	}

	now := s.now()
	subject := producer.ID.String()
	access, err := pkgauth.MintAccessToken(s.jwtCfg, now, subject)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := pkgauth.MintRefreshToken(s.jwtCfg, now, subject)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}

	return &LoginResponse{
		Access:       access,
		User:         producers.FromModel(producer),
		RefreshToken: refresh,
	}, nil
}

// Me returns the safe profile of the authenticated producer.
func (s *service) Me(ctx context.Context, producerID uuid.UUID) (*producers.ProducerDTO, error) {
	producer, err := s.loadProducer(ctx, producerID)
	if err != nil {
		return nil, err
	}
	return producers.FromModel(producer), nil
}

// UpdateProfile applies a partial update to the producer's profile. A
// replacement picture is uploaded first; the old blob is destroyed only
// after the row update lands, and a failed row update destroys the new
// blob instead.
func (s *service) UpdateProfile(ctx context.Context, producerID uuid.UUID, req UpdateProfileRequest, profilePic upload.File) (*producers.ProducerDTO, error) {
	producer, err := s.loadProducer(ctx, producerID)
	if err != nil {
		return nil, err
	}

	columns := map[string]any{}
	setColumn := func(column string, value *string) {
		if value == nil {
			return
		}
		columns[column] = strings.TrimSpace(*value)
	}
	setColumn("first_name", req.FirstName)
	setColumn("last_name", req.LastName)
	setColumn("professional_name", req.ProfessionalName)
	setColumn("contact", req.Contact)
	setColumn("street", req.Street)
	setColumn("city", req.City)
	setColumn("state", req.State)
	setColumn("postal_code", req.PostalCode)
	setColumn("country", req.Country)

	var newPicID string
	if profilePic != nil {
		if err := upload.ValidateImage(profilePic, s.maxPicBytes); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid profile picture")
		}
		data, err := profilePic.ReadAll()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read profile picture")
		}
		result, err := s.blobs.UploadImage(ctx, s.picFolder, data)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "profile picture upload failed")
		}
		newPicID = result.PublicID
		columns["profile_pic_url"] = result.SecureURL
		columns["profile_pic_id"] = result.PublicID
	}

	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.producers.UpdateColumns(ctx, producerID, columns); err != nil {
		if newPicID != "" {
			s.destroyBlob(ctx, newPicID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update producer")
	}
	if newPicID != "" && producer.ProfilePicID != nil && *producer.ProfilePicID != "" {
		s.destroyBlob(ctx, *producer.ProfilePicID)
	}

	return s.Me(ctx, producerID)
}

// ChangePassword rotates the credential after verifying the current one.
func (s *service) ChangePassword(ctx context.Context, producerID uuid.UUID, req ChangePasswordRequest) error {
	producer, err := s.loadProducer(ctx, producerID)
	if err != nil {
		return err
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, producer.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeValidation, "current password is incorrect")
	}
	if req.NewPassword != req.ConfirmPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "new passwords do not match")
	}
	if req.NewPassword == req.CurrentPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be different from current password")
	}
	if len(req.NewPassword) < 6 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.producers.UpdatePasswordHash(ctx, producerID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

// DeleteAccount removes the producer after a professional-name confirmation.
// The profile blob delete is best effort.
func (s *service) DeleteAccount(ctx context.Context, producerID uuid.UUID, req DeleteAccountRequest) error {
	producer, err := s.loadProducer(ctx, producerID)
	if err != nil {
		return err
	}

	storedName := strings.TrimSpace(producer.ProfessionalName)
	if storedName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "professional name not found on account")
	}
	if !strings.EqualFold(storedName, strings.TrimSpace(req.ProfessionalName)) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("professional name does not match, enter exactly: %s", storedName))
	}

	if producer.ProfilePicID != nil && *producer.ProfilePicID != "" {
		s.destroyBlob(ctx, *producer.ProfilePicID)
	}
	if err := s.producers.Delete(ctx, producerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete producer")
	}
	return nil
}

func (s *service) sendVerification(ctx context.Context, name, email string) error {
	token, err := pkgauth.MintEmailToken(s.jwtCfg, s.now(), email)
	if err != nil {
		return err
	}
	if name == "" {
		name = "User"
	}
	verifyURL := s.publicURL + "/api/v1/auth/verify-email/" + token
	subject, body := mailer.VerificationEmail(name, verifyURL)
	return s.mail.Send(ctx, email, subject, body)
}

func (s *service) loadProducer(ctx context.Context, id uuid.UUID) (*models.Producer, error) {
	producer, err := s.producers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup producer")
	}
	return producer, nil
}

func (s *service) destroyBlob(ctx context.Context, publicID string) {
	if err := s.blobs.Destroy(ctx, publicID); err != nil {
		s.logError(ctx, map[string]any{"public_id": publicID}, "failed to destroy profile picture blob", err)
	}
}

func (s *service) logError(ctx context.Context, fields map[string]any, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), msg, err)
}
