package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/session"
	"github.com/jon4hz/modhub/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeClient struct {
	users       map[string]*models.User // by token
	loginErr    error
	registerErr error
	logoutErr   error
	verifyErr   error
	logouts     []string
	verifies    int
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*hubapi.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if password != "secret" {
		return nil, &hubapi.ValidationError{StatusCode: 401, Message: "Invalid credentials"}
	}
	user := &models.User{ID: 1, Username: "player", Email: email, Role: models.RoleUser}
	f.users["tok-login"] = user
	return &hubapi.AuthResult{User: user, SessionToken: "tok-login"}, nil
}

func (f *fakeClient) Register(_ context.Context, username, email, _ string) (*hubapi.AuthResult, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	user := &models.User{ID: 2, Username: username, Email: email, Role: models.RoleUser}
	f.users["tok-register"] = user
	return &hubapi.AuthResult{User: user, SessionToken: "tok-register"}, nil
}

func (f *fakeClient) Logout(_ context.Context, token string) error {
	f.logouts = append(f.logouts, token)
	return f.logoutErr
}

func (f *fakeClient) Verify(_ context.Context, token string) (*models.User, error) {
	f.verifies++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	user, ok := f.users[token]
	if !ok {
		return nil, hubapi.ErrSessionInvalid
	}
	return user, nil
}

type SessionTestSuite struct {
	suite.Suite
	ctx    context.Context
	client *fakeClient
	store  *session.Memory
	sess   *Session
}

func (s *SessionTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client = &fakeClient{users: map[string]*models.User{
		"tok-mod": {ID: 9, Username: "moddy", Role: models.RoleModerator},
	}}
	s.store = session.NewMemory("")
	s.sess = NewSession(s.store, s.client)
}

func (s *SessionTestSuite) token() string {
	token, err := s.store.Token(s.ctx)
	s.Require().NoError(err)
	return token
}

func (s *SessionTestSuite) TestLoginSuccess() {
	user, err := s.sess.Login(s.ctx, " user@example.com ", "secret")
	s.Require().NoError(err)
	s.Equal("player", user.Username)
	s.Equal("user@example.com", user.Email)
	s.Equal("tok-login", s.token())
	s.True(s.sess.IsAuthenticated())
	s.False(s.sess.IsModerator())
}

func (s *SessionTestSuite) TestLoginWrongCredentials() {
	user, err := s.sess.Login(s.ctx, "user@example.com", "wrong")
	s.Nil(user)

	var authErr *Error
	s.Require().ErrorAs(err, &authErr)
	s.Equal("Invalid credentials", authErr.Message)
	s.Empty(s.token())
	s.Nil(s.sess.User())
}

func (s *SessionTestSuite) TestLoginFailureKeepsExistingToken() {
	s.Require().NoError(s.store.SetToken(s.ctx, "tok-mod"))
	_, err := s.sess.Login(s.ctx, "user@example.com", "wrong")
	s.Error(err)
	s.Equal("tok-mod", s.token())
}

func (s *SessionTestSuite) TestLoginGenericMessage() {
	s.client.loginErr = fmt.Errorf("%w: connection refused", hubapi.ErrNetwork)
	_, err := s.sess.Login(s.ctx, "user@example.com", "secret")

	var authErr *Error
	s.Require().ErrorAs(err, &authErr)
	s.Equal("Login failed", authErr.Message)
	s.ErrorIs(err, hubapi.ErrNetwork)

	s.client.loginErr = &hubapi.ValidationError{StatusCode: 500}
	_, err = s.sess.Login(s.ctx, "user@example.com", "secret")
	s.EqualError(err, "Login failed")
}

func (s *SessionTestSuite) TestLoginMissingFields() {
	_, err := s.sess.Login(s.ctx, "", "secret")
	s.EqualError(err, "Missing required fields")
}

func (s *SessionTestSuite) TestRegister() {
	user, err := s.sess.Register(s.ctx, "newbie", "n@example.com", "secret1")
	s.Require().NoError(err)
	s.Equal("newbie", user.Username)
	s.Equal("tok-register", s.token())

	s.client.registerErr = &hubapi.ValidationError{StatusCode: 409, Message: "Username or email already exists"}
	_, err = s.sess.Register(s.ctx, "newbie", "n@example.com", "secret1")
	s.EqualError(err, "Username or email already exists")

	s.client.registerErr = errors.New("boom")
	_, err = s.sess.Register(s.ctx, "newbie", "n@example.com", "secret1")
	s.EqualError(err, "Registration failed")
}

func (s *SessionTestSuite) TestRegisterShortPassword() {
	_, err := s.sess.Register(s.ctx, "newbie", "n@example.com", "12345")
	s.EqualError(err, "Password must be at least 6 characters")
	s.Empty(s.token())
}

func (s *SessionTestSuite) TestVerify() {
	s.Require().NoError(s.store.SetToken(s.ctx, "tok-mod"))
	s.sess.Verify(s.ctx)
	s.True(s.sess.IsModerator())
	s.False(s.sess.IsAdmin())
	s.Equal("tok-mod", s.token())
}

func (s *SessionTestSuite) TestVerifyInvalidClearsToken() {
	s.Require().NoError(s.store.SetToken(s.ctx, "stale"))
	s.sess.Verify(s.ctx)
	s.False(s.sess.IsAuthenticated())
	s.Empty(s.token())
}

func (s *SessionTestSuite) TestVerifyNetworkFailureClearsToken() {
	s.Require().NoError(s.store.SetToken(s.ctx, "tok-mod"))
	s.client.verifyErr = hubapi.ErrNetwork
	s.sess.Verify(s.ctx)
	s.False(s.sess.IsAuthenticated())
	s.Empty(s.token())
}

func (s *SessionTestSuite) TestVerifyWithoutToken() {
	s.sess.Verify(s.ctx)
	s.Equal(0, s.client.verifies)
	s.Equal(models.RoleGuest, s.sess.Role())
}

func (s *SessionTestSuite) TestLogout() {
	_, err := s.sess.Login(s.ctx, "user@example.com", "secret")
	s.Require().NoError(err)

	s.NoError(s.sess.Logout(s.ctx))
	s.Equal([]string{"tok-login"}, s.client.logouts)
	s.Empty(s.token())
	s.Nil(s.sess.User())
}

func (s *SessionTestSuite) TestLogoutOffline() {
	_, err := s.sess.Login(s.ctx, "user@example.com", "secret")
	s.Require().NoError(err)
	s.client.logoutErr = hubapi.ErrNetwork

	s.NoError(s.sess.Logout(s.ctx))
	s.Empty(s.token())
	s.False(s.sess.IsAuthenticated())
}

func (s *SessionTestSuite) TestResume() {
	s.Require().NoError(s.store.SetToken(s.ctx, "tok-mod"))
	s.sess.Resume(s.ctx)
	s.Equal(1, s.client.verifies)
	s.True(s.sess.IsModerator())
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

type cachingStore struct {
	*session.Memory
	user *models.User
}

func (c *cachingStore) User() *models.User        { return c.user }
func (c *cachingStore) SetUser(user *models.User) { c.user = user }

func TestResume_UsesCachedUser(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{users: map[string]*models.User{}}
	store := &cachingStore{
		Memory: session.NewMemory("tok"),
		user:   &models.User{ID: 4, Username: "cached", Role: models.RoleAdmin},
	}

	sess := NewSession(store, client)
	sess.Resume(ctx)

	assert.Equal(t, 0, client.verifies)
	require.NotNil(t, sess.User())
	assert.True(t, sess.IsAdmin())

	require.NoError(t, sess.Logout(ctx))
	assert.Nil(t, sess.User())
	token, _ := store.Token(ctx)
	assert.Empty(t, token)
}
