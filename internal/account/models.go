package account

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Account is the unified credential record for students and admins. The
// two kinds share one collection with UserRole as the discriminant;
// students carry a registration number, admins a username.
type Account struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName           string             `bson:"full_name" json:"fullName"`
	RegistrationNumber string             `bson:"registration_number,omitempty" json:"registrationNumber,omitempty"`
	Username           string             `bson:"username,omitempty" json:"username,omitempty"`
	HostelNumber       int                `bson:"hostel_number" json:"hostelNumber"`
	MobileNumber       string             `bson:"mobile_number" json:"mobileNumber"`
	Avatar             string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	PasswordHash       string             `bson:"password_hash" json:"-"`
	UserRole           string             `bson:"user_role" json:"userRole"`
	RefreshToken       string             `bson:"refresh_token,omitempty" json:"-"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Identity returns the login identifier for the account kind.
func (a *Account) Identity() string {
	if a.UserRole == RoleAdmin {
		return a.Username
	}
	return a.RegistrationNumber
}

// Sanitized returns a copy safe to hand to clients or request context.
// PasswordHash and RefreshToken are already excluded from JSON, but the
// copy also clears them so they never travel through handlers.
func (a *Account) Sanitized() *Account {
	clean := *a
	clean.PasswordHash = ""
	clean.RefreshToken = ""
	return &clean
}

type RegisterStudentRequest struct {
	FullName           string `json:"fullName" form:"fullName"`
	RegistrationNumber string `json:"registrationNumber" form:"registrationNumber"`
	Password           string `json:"password" form:"password"`
	HostelNumber       int    `json:"hostelNumber" form:"hostelNumber"`
	MobileNumber       string `json:"mobileNumber" form:"mobileNumber"`
}

func (r RegisterStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required),
		validation.Field(&r.RegistrationNumber, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.HostelNumber, validation.Required),
		validation.Field(&r.MobileNumber, validation.Required),
	)
}

type RegisterAdminRequest struct {
	FullName     string `json:"fullName" form:"fullName"`
	Username     string `json:"username" form:"username"`
	Password     string `json:"password" form:"password"`
	HostelNumber int    `json:"hostelNumber" form:"hostelNumber"`
	MobileNumber string `json:"mobileNumber" form:"mobileNumber"`
}

func (r RegisterAdminRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.HostelNumber, validation.Required),
		validation.Field(&r.MobileNumber, validation.Required),
	)
}

type StudentLoginRequest struct {
	RegistrationNumber string `json:"registrationNumber" form:"registrationNumber"`
	Password           string `json:"password" form:"password"`
}

type AdminLoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
	)
}
