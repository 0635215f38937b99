package user

import (
	"context"
	"encoding/base64"
	"errors"
	"net/mail"
	"time"

	"github.com/uniwayhq/uniway/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, tenant core.Tenant, username, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, tenant core.Tenant, usr User) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		QueryUsers(ctx context.Context, tenant core.Tenant, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetUser(ctx context.Context, tenant core.Tenant, filter GetFilter) (User, error)
		UpdateUser(ctx context.Context, tenant core.Tenant, usr User, isActive *bool) (User, error)
		DeleteUsersByID(ctx context.Context, tenant core.Tenant, ids ...string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	configureTokenGen(conf)
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *Service) CheckUniqueness(ctx context.Context, tenant core.Tenant, uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(ctx, tenant, uname, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, tenant core.Tenant, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		IsActive:  true,
		Roles:     nu.Roles,
		BranchID:  nu.BranchID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, tenant, usr)
}

func (svc *Service) Query(ctx context.Context, tenant core.Tenant, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, tenant, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, tenant core.Tenant, id string) (User, error) {
	return svc.repo.GetUser(ctx, tenant, GetFilter{ID: id})
}

func (svc *Service) GetByUsername(ctx context.Context, tenant core.Tenant, uname string) (User, error) {
	return svc.repo.GetUser(ctx, tenant, GetFilter{Username: core.CleanString(uname, true /* lower */)})
}

func (svc *Service) GetByEmail(ctx context.Context, tenant core.Tenant, email string) (User, error) {
	return svc.repo.GetUser(ctx, tenant, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, tenant core.Tenant, uname string) (User, error) {
	uname = core.CleanString(uname, true /* lower */)
	return svc.repo.GetUser(ctx, tenant, GetFilter{UsernameOrEmail: []string{uname, uname}})
}

func (svc *Service) Update(ctx context.Context, tenant core.Tenant, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Username:  uu.Username,
		Email:     uu.Email,
		Roles:     uu.Roles,
		BranchID:  uu.BranchID,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(ctx, tenant, usr, uu.IsActive)
}

// SetLastLogin stamps a successful authentication.
func (svc *Service) SetLastLogin(ctx context.Context, tenant core.Tenant, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	usr.UpdatedAt = usr.LastLogin
	return svc.repo.UpdateUser(ctx, tenant, usr, nil)
}

func (svc *Service) Delete(ctx context.Context, tenant core.Tenant, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, tenant, ids...)
}

// RequestPasswordReset emails a reset link to the user with that address.
func (svc *Service) RequestPasswordReset(ctx context.Context, tenant core.Tenant, email string) error {
	usr, err := svc.GetByEmail(ctx, tenant, email)
	if err != nil {
		return err
	}
	svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *Service) sendPasswordResetMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: struct {
			UID   string
			Token string
		}{
			UID:   EncodeUID(usr),
			Token: makeToken(usr),
		},
	})
}

// ResetPassword validates the reset token and sets the new password.
func (svc *Service) ResetPassword(ctx context.Context, tenant core.Tenant, rp ResetUserPassword) (User, error) {
	uid, err := decodeUID(rp.UID)
	if err != nil {
		return User{}, core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUser(ctx, tenant, GetFilter{ID: uid})
	if err != nil {
		if err == ErrNotFound {
			return User{}, core.NewValidationError(errInvalidToken)
		}
		return User{}, err
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return User{}, core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return User{}, err
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, tenant, usr, nil)
}

// EncodeUID base64 encodes given User ID
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

// decodeUID base64 decodes given UID
func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}
