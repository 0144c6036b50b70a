package account

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hostelsaathi/internal/apperr"
	"hostelsaathi/internal/config"
)

type fakeAccounts struct {
	accounts map[primitive.ObjectID]*Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: make(map[primitive.ObjectID]*Account)}
}

func (f *fakeAccounts) Create(ctx context.Context, account *Account) error {
	for _, existing := range f.accounts {
		if existing.MobileNumber == account.MobileNumber {
			return apperr.Conflict("User already exists")
		}
		if account.RegistrationNumber != "" && existing.RegistrationNumber == account.RegistrationNumber {
			return apperr.Conflict("User already exists")
		}
		if account.Username != "" && existing.Username == account.Username {
			return apperr.Conflict("User already exists")
		}
	}
	clone := *account
	f.accounts[account.ID] = &clone
	return nil
}

func (f *fakeAccounts) FindByID(ctx context.Context, id primitive.ObjectID) (*Account, error) {
	if account, ok := f.accounts[id]; ok {
		clone := *account
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeAccounts) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*Account, error) {
	for _, account := range f.accounts {
		if account.RegistrationNumber == registrationNumber {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) FindByUsername(ctx context.Context, username string) (*Account, error) {
	for _, account := range f.accounts {
		if account.Username == username {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) UpdateRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	account, ok := f.accounts[id]
	if !ok {
		return apperr.NotFound("User does not exist")
	}
	account.RefreshToken = token
	account.UpdatedAt = time.Now()
	return nil
}

func (f *fakeAccounts) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	account, ok := f.accounts[id]
	if !ok {
		return apperr.NotFound("User does not exist")
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now()
	return nil
}

func (f *fakeAccounts) List(ctx context.Context, role string, page, pageSize int) ([]*Account, int64, error) {
	var matched []*Account
	for _, account := range f.accounts {
		if account.UserRole == role {
			clone := *account
			matched = append(matched, &clone)
		}
	}
	return matched, int64(len(matched)), nil
}

func testTokenConfig() *config.TokenConfig {
	return &config.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

// tickingClock advances one second per call so that consecutively issued
// tokens never share an issued-at second (and therefore never collide).
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
