package authapimodels

import (
	"github.com/pkg/errors"

	"case-flow-backend/models"
	dbmodels "case-flow-backend/models/db"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type JWTResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserView struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      models.UserRole `json:"role"`
	RoleName  string          `json:"role_name"`
	Lang      models.LangCode `json:"lang"`
	IsActive  bool            `json:"is_active"`
}

func UserConvert(rec dbmodels.StaffUser) UserView {
	return UserView{
		ID:        rec.ID,
		Email:     rec.Email,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Role:      rec.Role,
		RoleName:  rec.Role.ToHuman(),
		Lang:      rec.Lang,
		IsActive:  rec.IsActive,
	}
}
