package account

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"hostelsaathi/internal/apperr"
)

func newTestService() (*AccountService, *fakeAccounts, *TokenService) {
	store := newFakeAccounts()
	tokens := NewTokenService(testTokenConfig(), store)
	tokens.now = tickingClock(time.Now())
	return NewAccountService(store, tokens, zap.NewNop()), store, tokens
}

func registerTestStudent(t *testing.T, svc *AccountService) *Account {
	t.Helper()
	acc, err := svc.RegisterStudent(context.Background(), RegisterStudentRequest{
		FullName:           "A",
		RegistrationNumber: "R1",
		Password:           "p",
		HostelNumber:       3,
		MobileNumber:       "999",
	}, "")
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	return acc
}

func TestRegisterStudentSanitizesResponse(t *testing.T) {
	svc, store, _ := newTestService()
	acc := registerTestStudent(t, svc)

	if acc.PasswordHash != "" || acc.RefreshToken != "" {
		t.Fatal("registered account leaked credentials")
	}
	stored, _ := store.FindByID(context.Background(), acc.ID)
	if stored.PasswordHash == "" || stored.PasswordHash == "p" {
		t.Fatal("stored password must be a bcrypt hash")
	}
	if stored.UserRole != RoleStudent {
		t.Errorf("unexpected role: %s", stored.UserRole)
	}
}

func TestRegisterStudentValidation(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.RegisterStudent(context.Background(), RegisterStudentRequest{
		FullName: "A",
		Password: "p",
	}, "")
	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRegisterStudentDuplicate(t *testing.T) {
	svc, _, _ := newTestService()
	registerTestStudent(t, svc)

	_, err := svc.RegisterStudent(context.Background(), RegisterStudentRequest{
		FullName:           "B",
		RegistrationNumber: "R1",
		Password:           "q",
		HostelNumber:       4,
		MobileNumber:       "888",
	}, "")
	if apperr.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, store, _ := newTestService()
	registerTestStudent(t, svc)

	acc, pair, err := svc.LoginStudent(context.Background(), StudentLoginRequest{
		RegistrationNumber: "R1",
		Password:           "p",
	})
	if err != nil {
		t.Fatalf("LoginStudent: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a non-empty token pair")
	}
	if acc.FullName != "A" {
		t.Errorf("unexpected account: %+v", acc)
	}
	if acc.RefreshToken != "" {
		t.Fatal("login response leaked the refresh token field")
	}
	stored, _ := store.FindByID(context.Background(), acc.ID)
	if stored.RefreshToken != pair.RefreshToken {
		t.Fatal("login did not persist the refresh token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	registerTestStudent(t, svc)

	_, _, err := svc.LoginStudent(context.Background(), StudentLoginRequest{
		RegistrationNumber: "R1",
		Password:           "wrong",
	})
	if apperr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.LoginStudent(context.Background(), StudentLoginRequest{
		RegistrationNumber: "nobody",
		Password:           "p",
	})
	if apperr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestRefreshRotatesAndInvalidatesPriorToken(t *testing.T) {
	svc, _, _ := newTestService()
	registerTestStudent(t, svc)

	_, first, err := svc.LoginStudent(context.Background(), StudentLoginRequest{
		RegistrationNumber: "R1",
		Password:           "p",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh should rotate the refresh token")
	}

	// The superseded token must no longer be accepted.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	if apperr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for replayed token, got %v", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService()

	for _, token := range []string{"", "garbage"} {
		if _, err := svc.Refresh(context.Background(), token); apperr.StatusOf(err) != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %q, got %v", token, err)
		}
	}
}

func TestLogoutClearsStoredRefreshToken(t *testing.T) {
	svc, store, _ := newTestService()
	acc := registerTestStudent(t, svc)

	_, pair, err := svc.LoginStudent(context.Background(), StudentLoginRequest{
		RegistrationNumber: "R1",
		Password:           "p",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), acc.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	stored, _ := store.FindByID(context.Background(), acc.ID)
	if stored.RefreshToken != "" {
		t.Fatal("logout did not clear the stored refresh token")
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); apperr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService()
	acc := registerTestStudent(t, svc)

	err := svc.ChangePassword(context.Background(), acc.ID, ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "next",
	})
	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong old password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), acc.ID, ChangePasswordRequest{
		OldPassword: "p",
		NewPassword: "next",
	}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, _, err := svc.LoginStudent(context.Background(), StudentLoginRequest{
		RegistrationNumber: "R1",
		Password:           "next",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
