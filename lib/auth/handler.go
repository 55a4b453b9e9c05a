package authhandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"case-flow-backend/config"
	"case-flow-backend/db"
	usersstore "case-flow-backend/lib/users/store"
	authutils "case-flow-backend/lib/utils/auth-utils"
	authapimodels "case-flow-backend/models/api/authapi"
)

type Provider interface {
	Login(email, password string) (response authapimodels.JWTResponse, err error)
	Me(ctx *fiber.Ctx) (view authapimodels.UserView, err error)
	Refresh(refreshToken string) (response authapimodels.JWTResponse, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) Login(email, password string) (authapimodels.JWTResponse, error) {
	logger := log.WithField("email", email)
	user, err := i.store.FindByEmail(email)
	if err != nil {
		logger.WithError(err).Error("failed to find user by email")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		logger.Debug("no active user with this email")
		return authapimodels.JWTResponse{}, errors.New("wrong email or password")
	}
	if authutils.GetMD5Hash(password) != user.Password {
		logger.Debug("password check failed")
		return authapimodels.JWTResponse{}, errors.New("wrong email or password")
	}
	token, err := authutils.GetToken(user.ID, user.GetFullName(), user.Role)
	if err != nil {
		logger.WithError(err).Error("failed to generate JWT")
		return authapimodels.JWTResponse{}, err
	}
	refreshToken, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		logger.WithError(err).Error("failed to generate refresh JWT")
		return authapimodels.JWTResponse{}, err
	}
	if err = i.store.Update(user.ID, map[string]interface{}{"last_login": time.Now()}); err != nil {
		logger.WithError(err).Error("failed to update last login")
	}
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

func (i impl) Me(ctx *fiber.Ctx) (authapimodels.UserView, error) {
	claims := authutils.GetClaims(ctx)
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return authapimodels.UserView{}, errors.New("no user in token")
	}
	user, err := i.store.GetByID(userID)
	if err != nil {
		return authapimodels.UserView{}, err
	}
	if user == nil {
		return authapimodels.UserView{}, errors.New("user not found")
	}
	return authapimodels.UserConvert(*user), nil
}

func (i impl) Refresh(refreshToken string) (authapimodels.JWTResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Conf.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return authapimodels.JWTResponse{}, errors.New("invalid refresh token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authapimodels.JWTResponse{}, errors.New("invalid refresh token")
	}
	userID, _ := claims["sub"].(string)
	user, err := i.store.GetByID(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		return authapimodels.JWTResponse{}, errors.New("user not found")
	}
	newToken, err := authutils.GetToken(user.ID, user.GetFullName(), user.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	newRefresh, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token:        newToken,
		RefreshToken: newRefresh,
	}, nil
}
