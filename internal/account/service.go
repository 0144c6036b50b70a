package account

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hostelsaathi/internal/apperr"
)

type AccountService struct {
	accounts Accounts
	tokens   *TokenService
	logger   *zap.Logger
}

func NewAccountService(accounts Accounts, tokens *TokenService, logger *zap.Logger) *AccountService {
	return &AccountService{accounts: accounts, tokens: tokens, logger: logger}
}

func (s *AccountService) RegisterStudent(ctx context.Context, req RegisterStudentRequest, avatarURL string) (*Account, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.BadRequest("Insufficient credentials")
	}

	existing, err := s.accounts.FindByRegistrationNumber(ctx, req.RegistrationNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists")
	}

	return s.register(ctx, &Account{
		FullName:           req.FullName,
		RegistrationNumber: req.RegistrationNumber,
		HostelNumber:       req.HostelNumber,
		MobileNumber:       req.MobileNumber,
		Avatar:             avatarURL,
		UserRole:           RoleStudent,
	}, req.Password)
}

func (s *AccountService) RegisterAdmin(ctx context.Context, req RegisterAdminRequest, avatarURL string) (*Account, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.BadRequest("Insufficient credentials")
	}

	existing, err := s.accounts.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists")
	}

	return s.register(ctx, &Account{
		FullName:     req.FullName,
		Username:     req.Username,
		HostelNumber: req.HostelNumber,
		MobileNumber: req.MobileNumber,
		Avatar:       avatarURL,
		UserRole:     RoleAdmin,
	}, req.Password)
}

func (s *AccountService) register(ctx context.Context, account *Account, password string) (*Account, error) {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account.ID = primitive.NewObjectID()
	account.PasswordHash = passwordHash
	account.CreatedAt = now
	account.UpdatedAt = now

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account registered",
		zap.String("id", account.ID.Hex()),
		zap.String("role", account.UserRole))
	return account.Sanitized(), nil
}

func (s *AccountService) LoginStudent(ctx context.Context, req StudentLoginRequest) (*Account, *TokenPair, error) {
	return s.login(ctx, req.RegistrationNumber, req.Password, s.accounts.FindByRegistrationNumber)
}

func (s *AccountService) LoginAdmin(ctx context.Context, req AdminLoginRequest) (*Account, *TokenPair, error) {
	return s.login(ctx, req.Username, req.Password, s.accounts.FindByUsername)
}

func (s *AccountService) login(
	ctx context.Context,
	identity, password string,
	lookup func(context.Context, string) (*Account, error),
) (*Account, *TokenPair, error) {
	if identity == "" || password == "" {
		return nil, nil, apperr.BadRequest("Insufficient credentials")
	}

	account, err := lookup(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, apperr.NotFound("User does not exist")
	}
	if !CheckPasswordHash(password, account.PasswordHash) {
		return nil, nil, apperr.Unauthorized("Invalid user credentials")
	}

	pair, err := s.tokens.Rotate(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("account logged in", zap.String("id", account.ID.Hex()))
	return account.Sanitized(), pair, nil
}

func (s *AccountService) Logout(ctx context.Context, accountID primitive.ObjectID) error {
	return s.accounts.UpdateRefreshToken(ctx, accountID, "")
}

// Refresh exchanges a presented refresh token for a fresh pair. The
// presented token must verify AND match the token currently stored on
// the account, so a superseded token cannot be replayed. Every failure
// collapses to a generic 401 to resist account enumeration.
func (s *AccountService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, apperr.Unauthorized("Unauthorized request")
	}

	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	id, err := primitive.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	if account.RefreshToken != presented {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	return s.tokens.Rotate(ctx, account.ID)
}

func (s *AccountService) ChangePassword(ctx context.Context, accountID primitive.ObjectID, req ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return apperr.BadRequest("Insufficient credentials")
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return apperr.NotFound("User does not exist")
	}
	if !CheckPasswordHash(req.OldPassword, account.PasswordHash) {
		return apperr.BadRequest("Invalid old password")
	}

	passwordHash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, account.ID, passwordHash)
}

func (s *AccountService) ListAdmins(ctx context.Context, page, pageSize int) ([]*Account, int64, error) {
	accounts, totalItems, err := s.accounts.List(ctx, RoleAdmin, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	sanitized := make([]*Account, len(accounts))
	for i, account := range accounts {
		sanitized[i] = account.Sanitized()
	}
	return sanitized, totalItems, nil
}
