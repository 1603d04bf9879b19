package impl

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/observability/metrics"
	"streamhaven/internal/service"
	"streamhaven/internal/store"

	"github.com/google/uuid"
)

type TokenTTLs struct {
	Session  time.Duration // login without remember-me
	Remember time.Duration // login with remember-me
	Verify   time.Duration // issued right after email verification
}

type AuthServiceImpl struct {
	store   dataStore
	tokens  service.TokenService
	mail    service.EmailSender
	avatars service.AvatarStorage
	ttls    TokenTTLs
}

func NewAuthServiceImpl(st *store.Store, tokens service.TokenService, mail service.EmailSender, avatars service.AvatarStorage, ttls TokenTTLs) *AuthServiceImpl {
	return &AuthServiceImpl{
		store:   gormStoreAdapter{store: st},
		tokens:  tokens,
		mail:    mail,
		avatars: avatars,
		ttls:    ttls,
	}
}

// Consumer-side store contracts; the gorm store satisfies them through thin
// adapters so tests can swap in memory fakes.

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	Save(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type otpStore interface {
	Create(ctx context.Context, otp *domain.OTP) error
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.OTP, error)
	GetByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.OTP, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeTx interface {
	Users() userStore
	OTPs() otpStore
}

type dataStore interface {
	storeTx
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) Users() userStore { return g.store.Users() }
func (g gormStoreAdapter) OTPs() otpStore   { return g.store.OTPs() }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormStoreAdapter{store: tx})
	})
}

func newOTPCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "0000"
	}
	return fmt.Sprint(1000 + n.Int64())
}

func defaultFolders() []domain.Folder {
	return []domain.Folder{
		{ID: uuid.New(), Name: "Liked", Saved: []domain.SavedItem{}},
		{ID: uuid.New(), Name: "Watchlater", Saved: []domain.SavedItem{}},
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) error {
	result := "success"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	if r.Username == "" || r.Email == "" || r.Password == "" {
		result = "rejected"
		return ErrMissingFields
	}
	if !validUsername(r.Username) {
		result = "rejected"
		return ErrInvalidUsername
	}
	if !validEmail(r.Email) {
		result = "rejected"
		return ErrInvalidEmail
	}
	if !validPassword(r.Password) {
		result = "rejected"
		return ErrPasswordTooShort
	}

	email := strings.ToLower(r.Email)
	now := time.Now().UTC()

	if existing, err := a.store.Users().GetByEmail(ctx, email); err == nil {
		if existing.IsVerified {
			result = "rejected"
			return domain.ErrEmailTaken
		}
		// Unverified re-register: quietly re-issue the passcode instead of
		// leaking whether the address is registered.
		return a.issueAndMailOTP(ctx, existing, a.mail.SendVerification)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		result = "failure"
		return err
	}

	// The citext unique index would reject the collision anyway; checking
	// here keeps the outcome a named rejection instead of a storage error.
	if _, err := a.store.Users().GetByUsername(ctx, r.Username); err == nil {
		result = "rejected"
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		result = "failure"
		return err
	}

	hash, err := hashPassword(r.Password)
	if err != nil {
		result = "failure"
		return err
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     r.Username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Folders:      []domain.Folder{},
		History:      []domain.HistoryEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	importGuestLists(u, r.SavedMovie, now)
	if len(u.Folders) == 0 {
		u.Folders = defaultFolders()
	}

	code := newOTPCode()
	err = a.store.WithTx(ctx, func(tx storeTx) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return tx.OTPs().Create(ctx, &domain.OTP{
			UserID:    u.ID,
			Code:      code,
			ExpiresAt: now.Add(domain.OTPTTL),
			CreatedAt: now,
		})
	})
	if err != nil {
		result = "failure"
		return err
	}

	a.sendMailAsync(ctx, u.Email, code, a.mail.SendVerification)
	slog.Info("user registered", "user_id", u.ID, "username", u.Username)
	return nil
}

// importGuestLists folds guest-mode folders submitted at registration into
// the new user. Only the two stock folders are accepted; a folder named
// "History" seeds watch history instead. Saved lists are capped on import.
func importGuestLists(u *domain.User, imported []dto.ImportedFolder, now time.Time) {
	for _, folder := range imported {
		saved := folder.Saved
		if len(saved) > domain.MaxImportedSaves {
			saved = saved[:domain.MaxImportedSaves]
		}

		if folder.FolderName == "History" {
			for _, item := range saved {
				watchedAt := now
				if t, err := time.Parse(time.RFC3339, item.WatchedAt); err == nil {
					watchedAt = t
				}
				u.History = append(u.History, domain.HistoryEntry{
					ID:         item.ID,
					Title:      item.Title,
					PosterPath: item.PosterPath,
					MediaType:  item.MediaType,
					WatchedAt:  watchedAt,
				})
			}
			continue
		}

		if folder.FolderName != "Liked" && folder.FolderName != "Watchlater" {
			continue
		}
		items := make([]domain.SavedItem, 0, len(saved))
		for _, item := range saved {
			items = append(items, domain.SavedItem{
				ID:          item.ID,
				Title:       item.Title,
				Overview:    item.Overview,
				PosterPath:  item.PosterPath,
				VoteAverage: item.VoteAverage,
				VoteCount:   item.VoteCount,
				MediaType:   item.MediaType,
			})
		}
		u.Folders = append(u.Folders, domain.Folder{ID: uuid.New(), Name: folder.FolderName, Saved: items})
	}
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (string, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Password == "" {
		result = "rejected"
		return "", ErrMissingFields
	}

	user, err := a.store.Users().GetByEmail(ctx, strings.ToLower(r.Email))
	if err != nil {
		result = "rejected"
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	if !user.IsVerified {
		result = "rejected"
		return "", domain.ErrNotVerified
	}
	if user.IsBlocked {
		result = "rejected"
		return "", domain.ErrUserBlocked
	}
	if user.PasswordHash == domain.FederatedPassword || !checkPassword(r.Password, user.PasswordHash) {
		result = "rejected"
		return "", domain.ErrInvalidCredentials
	}

	ttl := a.ttls.Session
	if r.Remember {
		ttl = a.ttls.Remember
	}
	token, err := a.tokens.Issue(user.ID, ttl)
	if err != nil {
		result = "failure"
		return "", err
	}
	slog.Info("user logged in", "user_id", user.ID, "remember", r.Remember)
	return token, nil
}

func (a *AuthServiceImpl) CheckAuth(ctx context.Context, token string) (*domain.User, error) {
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := a.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

func (a *AuthServiceImpl) SendVerification(ctx context.Context, email string) error {
	user, err := a.store.Users().GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrEmailNotRegistered
		}
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	return a.issueAndMailOTP(ctx, user, a.mail.SendVerification)
}

// issueAndMailOTP reuses an unexpired code when one exists, otherwise mints
// a new one, and mails it without blocking the caller.
func (a *AuthServiceImpl) issueAndMailOTP(ctx context.Context, user *domain.User, send func(context.Context, string, string) error) error {
	now := time.Now().UTC()

	code := ""
	if active, err := a.store.OTPs().GetActiveByUser(ctx, user.ID); err == nil {
		code = active.Code
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	if code == "" {
		code = newOTPCode()
		if err := a.store.OTPs().Create(ctx, &domain.OTP{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: now.Add(domain.OTPTTL),
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}

	a.sendMailAsync(ctx, user.Email, code, send)
	return nil
}

// sendMailAsync fires the notification without tying it to the request;
// delivery failure is logged and never rolls back the state change.
func (a *AuthServiceImpl) sendMailAsync(ctx context.Context, to, code string, send func(context.Context, string, string) error) {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(sendCtx, to, code); err != nil {
			slog.Error("mail send failed", "to", to, "error", err)
		}
	}()
}

func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	user, err := a.store.Users().GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", domain.ErrEmailNotRegistered
		}
		return "", err
	}

	otp, err := a.store.OTPs().GetByUserAndCode(ctx, user.ID, code)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", domain.ErrOTPInvalid
		}
		return "", err
	}

	user.IsVerified = true
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.Users().Save(ctx, user); err != nil {
		return "", err
	}
	if err := a.store.OTPs().Delete(ctx, otp.ID); err != nil {
		slog.Warn("consumed otp not deleted", "otp_id", otp.ID, "error", err)
	}

	slog.Info("account verified", "user_id", user.ID)
	return a.tokens.Issue(user.ID, a.ttls.Verify)
}

func (a *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.store.Users().GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrEmailNotRegistered
		}
		return err
	}
	return a.issueAndMailOTP(ctx, user, a.mail.SendPasswordReset)
}

func (a *AuthServiceImpl) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if !validPassword(newPassword) {
		return ErrPasswordTooShort
	}

	user, err := a.store.Users().GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrEmailNotRegistered
		}
		return err
	}

	otp, err := a.store.OTPs().GetByUserAndCode(ctx, user.ID, code)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrOTPInvalid
		}
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.Users().Save(ctx, user); err != nil {
		return err
	}
	if err := a.store.OTPs().Delete(ctx, otp.ID); err != nil {
		slog.Warn("consumed otp not deleted", "otp_id", otp.ID, "error", err)
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}

func (a *AuthServiceImpl) DeleteAccount(ctx context.Context, user *domain.User) error {
	if user.AvatarKey != "" {
		if err := a.avatars.Delete(ctx, user.AvatarKey); err != nil {
			slog.Warn("avatar object not deleted", "user_id", user.ID, "error", err)
		}
	}
	if err := a.store.Users().Delete(ctx, user.ID); err != nil {
		return err
	}
	slog.Info("account deleted", "user_id", user.ID)
	return nil
}

// uniqueUsername derives a free username from a federated display name.
// Disallowed characters are stripped and a numeric suffix is appended while
// the candidate is taken, so a popular display name never blocks sign-in.
func (a *AuthServiceImpl) uniqueUsername(ctx context.Context, base string) (string, error) {
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			return r
		}
		return -1
	}, base)
	if len(base) > 11 {
		base = base[:11]
	}
	if len(base) < 3 {
		base = "user"
	}

	candidate := base
	for i := 0; i < 5; i++ {
		_, err := a.store.Users().GetByUsername(ctx, candidate)
		if errors.Is(err, store.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + newOTPCode()
	}
	return "", domain.ErrUsernameTaken
}

func (a *AuthServiceImpl) FederatedLogin(ctx context.Context, email, displayName, avatarURL string) (string, error) {
	email = strings.ToLower(email)

	user, err := a.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrRecordNotFound) {
		username, err := a.uniqueUsername(ctx, displayName)
		if err != nil {
			return "", err
		}
		now := time.Now().UTC()
		user = &domain.User{
			ID:           uuid.New(),
			Email:        email,
			Username:     username,
			PasswordHash: domain.FederatedPassword,
			IsVerified:   true,
			Role:         domain.RoleUser,
			AvatarURL:    avatarURL,
			Folders:      defaultFolders(),
			History:      []domain.HistoryEntry{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := a.store.Users().Create(ctx, user); err != nil {
			return "", err
		}
		slog.Info("federated user created", "user_id", user.ID)
	} else if err != nil {
		return "", err
	}

	if user.IsBlocked {
		return "", domain.ErrUserBlocked
	}
	return a.tokens.Issue(user.ID, a.ttls.Verify)
}
