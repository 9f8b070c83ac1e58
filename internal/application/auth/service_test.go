package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/GuilhermeKalleu19/api-telegram/internal/domain"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.UserSession) error {
	return m.Called(ctx, s).Error(0)
}

type mockAttemptStore struct{ mock.Mock }

func (m *mockAttemptStore) Put(ctx context.Context, a *domain.LoginAttempt) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAttemptStore) Get(ctx context.Context, phone string) (*domain.LoginAttempt, error) {
	args := m.Called(ctx, phone)
	if a, _ := args.Get(0).(*domain.LoginAttempt); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAttemptStore) Delete(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

type mockMessenger struct{ mock.Mock }

func (m *mockMessenger) SendCode(ctx context.Context, phone string) (*telegram.SentCode, error) {
	args := m.Called(ctx, phone)
	if c, _ := args.Get(0).(*telegram.SentCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMessenger) SignIn(ctx context.Context, in telegram.SignInInput) ([]byte, error) {
	args := m.Called(ctx, in)
	if b, _ := args.Get(0).([]byte); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMessenger) Deliver(ctx context.Context, session []byte, msg telegram.AlertMessage) error {
	return m.Called(ctx, session, msg).Error(0)
}
func (m *mockMessenger) CheckSession(ctx context.Context, session []byte) (bool, error) {
	args := m.Called(ctx, session)
	return args.Bool(0), args.Error(1)
}

// --- helpers ---

const testPhone = "+5511999999999"

func newSvc(ss *mockSessionStore, as *mockAttemptStore, tc *mockMessenger) Service {
	return NewService(ServiceDeps{Sessions: ss, Attempts: as, Messenger: tc})
}

func pendingAttempt(snapshot []byte) *domain.LoginAttempt {
	return &domain.LoginAttempt{
		Phone:           testPhone,
		CodeHash:        "hash-abc",
		SessionSnapshot: base64.StdEncoding.EncodeToString(snapshot),
	}
}

// --- StartLogin tests ---

func TestStartLogin_HappyPath(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	tc.On("SendCode", mock.Anything, testPhone).
		Return(&telegram.SentCode{PhoneCodeHash: "hash-abc", SessionSnapshot: []byte("dc2-state")}, nil)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.LoginAttempt")).Return(nil)

	msg, err := newSvc(ss, as, tc).StartLogin(context.Background(), StartLoginRequest{Phone: testPhone})

	require.NoError(t, err)
	assert.Contains(t, msg, testPhone)

	stored := as.Calls[0].Arguments.Get(1).(*domain.LoginAttempt)
	assert.Equal(t, testPhone, stored.Phone)
	assert.Equal(t, "hash-abc", stored.CodeHash)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("dc2-state")), stored.SessionSnapshot)
	assert.Greater(t, stored.ExpiresAt, stored.CreatedAt.Unix())
}

func TestStartLogin_TransportFailure_NoRecordWritten(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	tc.On("SendCode", mock.Anything, testPhone).Return(nil, errors.New("PHONE_NUMBER_INVALID"))

	_, err := newSvc(ss, as, tc).StartLogin(context.Background(), StartLoginRequest{Phone: testPhone})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "PHONE_NUMBER_INVALID")
	as.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestStartLogin_StoreFailure_IsServerError(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	tc.On("SendCode", mock.Anything, testPhone).
		Return(&telegram.SentCode{PhoneCodeHash: "h", SessionSnapshot: []byte("s")}, nil)
	as.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	_, err := newSvc(ss, as, tc).StartLogin(context.Background(), StartLoginRequest{Phone: testPhone})

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrBadRequest))
}

// --- FinishLogin tests ---

func TestFinishLogin_NoPendingAttempt(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	as.On("Get", mock.Anything, testPhone).Return(nil, domain.ErrNotFound)

	_, err := newSvc(ss, as, tc).FinishLogin(context.Background(), FinishLoginRequest{Phone: testPhone, Code: "12345"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "/autenticacao/iniciar")
	tc.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestFinishLogin_HappyPath(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	as.On("Get", mock.Anything, testPhone).Return(pendingAttempt([]byte("dc2-state")), nil)
	tc.On("SignIn", mock.Anything, mock.AnythingOfType("telegram.SignInInput")).Return([]byte("authorized-session"), nil)
	ss.On("Put", mock.Anything, mock.AnythingOfType("*domain.UserSession")).Return(nil)
	as.On("Delete", mock.Anything, testPhone).Return(nil)

	msg, err := newSvc(ss, as, tc).FinishLogin(context.Background(), FinishLoginRequest{Phone: testPhone, Code: "12345"})

	require.NoError(t, err)
	assert.Contains(t, msg, "Login realizado")

	// The redemption must carry the exact stored hash and the exact connection
	// snapshot from step 1.
	in := tc.Calls[0].Arguments.Get(1).(telegram.SignInInput)
	assert.Equal(t, "hash-abc", in.CodeHash)
	assert.Equal(t, []byte("dc2-state"), in.SessionSnapshot)
	assert.Equal(t, "12345", in.Code)

	saved := ss.Calls[0].Arguments.Get(1).(*domain.UserSession)
	assert.Equal(t, testPhone, saved.Phone)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("authorized-session")), saved.SessionString)
	as.AssertCalled(t, "Delete", mock.Anything, testPhone)
}

func TestFinishLogin_PasswordNeeded_NoSessionSaved(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	as.On("Get", mock.Anything, testPhone).Return(pendingAttempt([]byte("s")), nil)
	tc.On("SignIn", mock.Anything, mock.Anything).Return(nil, telegram.ErrPasswordNeeded)

	_, err := newSvc(ss, as, tc).FinishLogin(context.Background(), FinishLoginRequest{Phone: testPhone, Code: "12345"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Contains(t, err.Error(), "password")
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	as.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFinishLogin_WrongPassword(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	as.On("Get", mock.Anything, testPhone).Return(pendingAttempt([]byte("s")), nil)
	tc.On("SignIn", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: PASSWORD_HASH_INVALID", telegram.ErrInvalidPassword))

	_, err := newSvc(ss, as, tc).FinishLogin(context.Background(), FinishLoginRequest{Phone: testPhone, Code: "12345", Password: "nope"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestFinishLogin_WrongCode(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	as.On("Get", mock.Anything, testPhone).Return(pendingAttempt([]byte("s")), nil)
	tc.On("SignIn", mock.Anything, mock.Anything).Return(nil, errors.New("PHONE_CODE_INVALID"))

	_, err := newSvc(ss, as, tc).FinishLogin(context.Background(), FinishLoginRequest{Phone: testPhone, Code: "00000"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "PHONE_CODE_INVALID")
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestFinishLogin_StoreFailure_ReportsLoginSucceeded(t *testing.T) {
	ss, as, tc := &mockSessionStore{}, &mockAttemptStore{}, &mockMessenger{}

	as.On("Get", mock.Anything, testPhone).Return(pendingAttempt([]byte("s")), nil)
	tc.On("SignIn", mock.Anything, mock.Anything).Return([]byte("sess"), nil)
	ss.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	_, err := newSvc(ss, as, tc).FinishLogin(context.Background(), FinishLoginRequest{Phone: testPhone, Code: "12345"})

	require.Error(t, err)
	// Server error, and the message must say the Telegram login went through.
	assert.False(t, errors.Is(err, domain.ErrBadRequest))
	assert.False(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Contains(t, err.Error(), "Telegram concluído")
	as.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
