package handlers

import (
	"context"

	"finledger"
	"finledger/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service mocks (used by the handler tests) ----

type mockAuth struct {
	signUpID     int
	signUpErr    error
	signInToken  string
	signInErr    error
	validateID   *service.Identity
	validateErr  error
	signOutErr   error
	signOutCalls int

	lastSignUpUsername string
	lastSignInUsername string
	lastSignInPassword string
	lastValidateToken  string
	lastSignOutToken   string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) SignIn(_ context.Context, username, password string) (string, error) {
	m.lastSignInUsername = username
	m.lastSignInPassword = password
	return m.signInToken, m.signInErr
}

func (m *mockAuth) Validate(_ context.Context, token string) (*service.Identity, error) {
	m.lastValidateToken = token
	return m.validateID, m.validateErr
}

func (m *mockAuth) SignOut(_ context.Context, token string) error {
	m.signOutCalls++
	m.lastSignOutToken = token
	return m.signOutErr
}

type mockLedger struct {
	addID      int64
	addErr     error
	listResp   []finledger.Entry
	listErr    error
	getResp    *finledger.Entry
	getErr     error
	updateOK   bool
	updateErr  error
	deleteOK   bool
	deleteErr  error
	toggleOK   bool
	toggleErr  error
	lastOwner  int
	lastID     int64
	lastInput  service.EntryInput
	addCalls   int
	toggleCall int
}

func (m *mockLedger) Add(_ context.Context, ownerID int, in service.EntryInput) (int64, error) {
	m.addCalls++
	m.lastOwner = ownerID
	m.lastInput = in
	return m.addID, m.addErr
}

func (m *mockLedger) List(_ context.Context, ownerID int, _ service.DateRange) ([]finledger.Entry, error) {
	m.lastOwner = ownerID
	return m.listResp, m.listErr
}

func (m *mockLedger) Get(_ context.Context, id int64, ownerID int) (*finledger.Entry, error) {
	m.lastID = id
	m.lastOwner = ownerID
	return m.getResp, m.getErr
}

func (m *mockLedger) Update(_ context.Context, id int64, ownerID int, in service.EntryInput) (bool, error) {
	m.lastID = id
	m.lastOwner = ownerID
	m.lastInput = in
	return m.updateOK, m.updateErr
}

func (m *mockLedger) Delete(_ context.Context, id int64, ownerID int) (bool, error) {
	m.lastID = id
	m.lastOwner = ownerID
	return m.deleteOK, m.deleteErr
}

func (m *mockLedger) TogglePaid(_ context.Context, id int64, ownerID int) (bool, error) {
	m.toggleCall++
	m.lastID = id
	m.lastOwner = ownerID
	return m.toggleOK, m.toggleErr
}

type mockReporting struct {
	resp      service.Overview
	err       error
	lastOwner int
	lastRange service.DateRange
}

func (m *mockReporting) Overview(_ context.Context, ownerID int, r service.DateRange) (service.Overview, error) {
	m.lastOwner = ownerID
	m.lastRange = r
	return m.resp, m.err
}

// ---- Shared test helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// authedServices returns a service set whose middleware accepts any cookie
// as user 5 / "alice".
func authedServices(ledger *mockLedger, reporting *mockReporting) (*service.Service, *mockAuth) {
	auth := &mockAuth{validateID: &service.Identity{UserID: 5, Username: "alice"}}
	if ledger == nil {
		ledger = &mockLedger{}
	}
	if reporting == nil {
		reporting = &mockReporting{}
	}
	return &service.Service{Authorization: auth, Ledger: ledger, Reporting: reporting}, auth
}
