package impl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	otps  map[uuid.UUID]*domain.OTP
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: make(map[uuid.UUID]*domain.User),
		otps:  make(map[uuid.UUID]*domain.OTP),
	}
}

func (m *memoryStore) Users() userStore { return &memoryUserStore{store: m} }
func (m *memoryStore) OTPs() otpStore   { return &memoryOTPStore{store: m} }

func (m *memoryStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	usersBefore := make(map[uuid.UUID]*domain.User, len(m.users))
	for id, u := range m.users {
		cp := *u
		usersBefore[id] = &cp
	}
	otpsBefore := make(map[uuid.UUID]*domain.OTP, len(m.otps))
	for id, o := range m.otps {
		cp := *o
		otpsBefore[id] = &cp
	}
	if err := fn(m); err != nil {
		m.users = usersBefore
		m.otps = otpsBefore
		return err
	}
	return nil
}

type memoryUserStore struct{ store *memoryStore }

func (s *memoryUserStore) Create(ctx context.Context, usr *domain.User) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	cp := *usr
	s.store.users[usr.ID] = &cp
	return nil
}

func (s *memoryUserStore) Save(ctx context.Context, usr *domain.User) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	cp := *usr
	s.store.users[usr.ID] = &cp
	return nil
}

func (s *memoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if u, ok := s.store.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrRecordNotFound
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, u := range s.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (s *memoryUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, u := range s.store.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (s *memoryUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.users, id)
	return nil
}

type memoryOTPStore struct{ store *memoryStore }

func (s *memoryOTPStore) Create(ctx context.Context, otp *domain.OTP) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if otp.ID == uuid.Nil {
		otp.ID = uuid.New()
	}
	cp := *otp
	s.store.otps[otp.ID] = &cp
	return nil
}

func (s *memoryOTPStore) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.OTP, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	var newest *domain.OTP
	now := time.Now().UTC()
	for _, o := range s.store.otps {
		if o.UserID != userID || !o.ExpiresAt.After(now) {
			continue
		}
		if newest == nil || o.CreatedAt.After(newest.CreatedAt) {
			newest = o
		}
	}
	if newest == nil {
		return nil, store.ErrRecordNotFound
	}
	cp := *newest
	return &cp, nil
}

func (s *memoryOTPStore) GetByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.OTP, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	now := time.Now().UTC()
	for _, o := range s.store.otps {
		if o.UserID == userID && o.Code == code && o.ExpiresAt.After(now) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (s *memoryOTPStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.otps, id)
	return nil
}

type stubTokenService struct {
	lastTTL time.Duration
}

func (s *stubTokenService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	s.lastTTL = ttl
	return "token-" + userID.String(), nil
}

func (s *stubTokenService) Verify(token string) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrTokenInvalid
}

type stubMailer struct {
	mu    sync.Mutex
	sent  []string
	codes []string
}

func (s *stubMailer) record(to, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	s.codes = append(s.codes, code)
}

func (s *stubMailer) SendVerification(ctx context.Context, to, code string) error {
	s.record(to, code)
	return nil
}

func (s *stubMailer) SendPasswordReset(ctx context.Context, to, code string) error {
	s.record(to, code)
	return nil
}

type stubAvatarStorage struct {
	deleted []string
}

func (s *stubAvatarStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (s *stubAvatarStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func newTestAuthService(ms *memoryStore) (*AuthServiceImpl, *stubTokenService, *stubMailer, *stubAvatarStorage) {
	tokens := &stubTokenService{}
	mail := &stubMailer{}
	avatars := &stubAvatarStorage{}
	svc := &AuthServiceImpl{
		store:   ms,
		tokens:  tokens,
		mail:    mail,
		avatars: avatars,
		ttls: TokenTTLs{
			Session:  24 * time.Hour,
			Remember: 30 * 24 * time.Hour,
			Verify:   7 * 24 * time.Hour,
		},
	}
	return svc, tokens, mail, avatars
}

func seedVerifiedUser(t *testing.T, ms *memoryStore, email, password string) *domain.User {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     "someone",
		PasswordHash: hash,
		IsVerified:   true,
		Role:         domain.RoleUser,
		Folders:      defaultFolders(),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, ms.Users().Create(context.Background(), u))
	return u
}

func TestRegisterCreatesUserWithDefaultFolders(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)

	err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "newuser",
		Email:    "New@Example.com",
		Password: "longenough",
	})
	require.NoError(t, err)

	user, err := ms.Users().GetByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Equal(t, domain.RoleUser, user.Role)

	names := []string{user.Folders[0].Name, user.Folders[1].Name}
	assert.ElementsMatch(t, []string{"Liked", "Watchlater"}, names)

	otp, err := ms.OTPs().GetActiveByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, otp.Code, 4)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.RegisterRequest
		want error
	}{
		{"missing fields", dto.RegisterRequest{Username: "x"}, ErrMissingFields},
		{"bad username", dto.RegisterRequest{Username: "a b", Email: "a@b.co", Password: "longenough"}, ErrInvalidUsername},
		{"short username", dto.RegisterRequest{Username: "ab", Email: "a@b.co", Password: "longenough"}, ErrInvalidUsername},
		{"bad email", dto.RegisterRequest{Username: "okname", Email: "nope", Password: "longenough"}, ErrInvalidEmail},
		{"short password", dto.RegisterRequest{Username: "okname", Email: "a@b.co", Password: "short"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newMemoryStore()
			svc, _, _, _ := newTestAuthService(ms)
			err := svc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, ms.users)
		})
	}
}

func TestRegisterVerifiedEmailRejected(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)
	seedVerifiedUser(t, ms, "taken@example.com", "longenough")

	err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "another",
		Email:    "taken@example.com",
		Password: "longenough",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterTakenUsernameRejected(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)
	seedVerifiedUser(t, ms, "first@example.com", "longenough")

	// Fresh email, existing username: a named rejection, not a storage
	// error surfacing as a 500.
	err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "someone",
		Email:    "second@example.com",
		Password: "longenough",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Len(t, ms.users, 1)
}

func TestRegisterUnverifiedEmailReissuesCode(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)

	require.NoError(t, svc.Register(context.Background(), dto.RegisterRequest{
		Username: "first", Email: "pending@example.com", Password: "longenough",
	}))
	require.Len(t, ms.users, 1)

	// Same address again before verification: no second account, the
	// pending code is reused.
	require.NoError(t, svc.Register(context.Background(), dto.RegisterRequest{
		Username: "second", Email: "pending@example.com", Password: "different1",
	}))
	assert.Len(t, ms.users, 1)
	assert.Len(t, ms.otps, 1)
}

func TestRegisterImportsGuestFolders(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)

	saved := make([]dto.ImportedItem, 0, domain.MaxImportedSaves+5)
	for i := 0; i < domain.MaxImportedSaves+5; i++ {
		saved = append(saved, dto.ImportedItem{ID: i + 1, Title: fmt.Sprintf("Movie %d", i+1), MediaType: domain.MediaTypeMovie})
	}

	err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "importer",
		Email:    "import@example.com",
		Password: "longenough",
		SavedMovie: []dto.ImportedFolder{
			{FolderName: "Liked", Saved: saved},
			{FolderName: "History", Saved: []dto.ImportedItem{{ID: 99, Title: "Seen", MediaType: domain.MediaTypeSeries}}},
			{FolderName: "Custom", Saved: saved[:1]},
		},
	})
	require.NoError(t, err)

	user, err := ms.Users().GetByEmail(context.Background(), "import@example.com")
	require.NoError(t, err)

	require.Len(t, user.Folders, 1)
	assert.Equal(t, "Liked", user.Folders[0].Name)
	assert.Len(t, user.Folders[0].Saved, domain.MaxImportedSaves)

	require.Len(t, user.History, 1)
	assert.Equal(t, 99, user.History[0].ID)
	assert.False(t, user.History[0].WatchedAt.IsZero())
}

func TestLoginRequiresVerifiedUnblockedAccount(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)
	user := seedVerifiedUser(t, ms, "login@example.com", "longenough")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "missing@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "login@example.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user.IsVerified = false
	require.NoError(t, ms.Users().Save(context.Background(), user))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "login@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrNotVerified)

	user.IsVerified = true
	user.IsBlocked = true
	require.NoError(t, ms.Users().Save(context.Background(), user))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "login@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrUserBlocked)

	user.IsBlocked = false
	require.NoError(t, ms.Users().Save(context.Background(), user))
	token, err := svc.Login(context.Background(), dto.LoginRequest{Email: "login@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginRememberExtendsTTL(t *testing.T) {
	ms := newMemoryStore()
	svc, tokens, _, _ := newTestAuthService(ms)
	seedVerifiedUser(t, ms, "ttl@example.com", "longenough")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ttl@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, svc.ttls.Session, tokens.lastTTL)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ttl@example.com", Password: "longenough", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, svc.ttls.Remember, tokens.lastTTL)
}

func TestVerifyEmailConsumesOTP(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)

	require.NoError(t, svc.Register(context.Background(), dto.RegisterRequest{
		Username: "pending", Email: "verify@example.com", Password: "longenough",
	}))
	user, err := ms.Users().GetByEmail(context.Background(), "verify@example.com")
	require.NoError(t, err)
	otp, err := ms.OTPs().GetActiveByUser(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.VerifyEmail(context.Background(), "verify@example.com", "0000")
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)

	token, err := svc.VerifyEmail(context.Background(), "verify@example.com", otp.Code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err = ms.Users().GetByEmail(context.Background(), "verify@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	// The code only works once.
	_, err = svc.VerifyEmail(context.Background(), "verify@example.com", otp.Code)
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)
}

func TestPasswordResetFlow(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)
	user := seedVerifiedUser(t, ms, "reset@example.com", "oldpassword")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "reset@example.com"))
	otp, err := ms.OTPs().GetActiveByUser(context.Background(), user.ID)
	require.NoError(t, err)

	err = svc.ConfirmPasswordReset(context.Background(), "reset@example.com", otp.Code, "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), "reset@example.com", otp.Code, "newpassword"))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "reset@example.com", Password: "oldpassword"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "reset@example.com", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestFederatedLoginCreatesVerifiedUser(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)

	token, err := svc.FederatedLogin(context.Background(), "G@Example.com", "gname", "https://pic.test/p.png")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := ms.Users().GetByEmail(context.Background(), "g@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Equal(t, domain.FederatedPassword, user.PasswordHash)

	// Password login can never work for a federated account.
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "g@example.com", Password: domain.FederatedPassword})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Second federated login reuses the account.
	_, err = svc.FederatedLogin(context.Background(), "g@example.com", "gname", "")
	require.NoError(t, err)
	assert.Len(t, ms.users, 1)
}

func TestFederatedLoginUniquifiesDisplayName(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)
	taken := seedVerifiedUser(t, ms, "first@example.com", "longenough")
	require.Equal(t, "someone", taken.Username)

	// A second Google account with the same display name still signs in.
	_, err := svc.FederatedLogin(context.Background(), "other@example.com", "someone", "")
	require.NoError(t, err)

	user, err := ms.Users().GetByEmail(context.Background(), "other@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "someone", user.Username)
	assert.True(t, strings.HasPrefix(user.Username, "someone"))
	assert.True(t, validUsername(user.Username))
}

func TestFederatedLoginSanitizesDisplayName(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, _ := newTestAuthService(ms)

	_, err := svc.FederatedLogin(context.Background(), "g@example.com", "Ann-Marie O'Neil", "")
	require.NoError(t, err)

	user, err := ms.Users().GetByEmail(context.Background(), "g@example.com")
	require.NoError(t, err)
	assert.True(t, validUsername(user.Username), user.Username)
}

func TestDeleteAccountRemovesAvatarObject(t *testing.T) {
	ms := newMemoryStore()
	svc, _, _, avatars := newTestAuthService(ms)
	user := seedVerifiedUser(t, ms, "gone@example.com", "longenough")
	user.AvatarKey = "avatars/" + user.ID.String()
	require.NoError(t, ms.Users().Save(context.Background(), user))

	require.NoError(t, svc.DeleteAccount(context.Background(), user))
	assert.Empty(t, ms.users)
	assert.Equal(t, []string{user.AvatarKey}, avatars.deleted)
}
