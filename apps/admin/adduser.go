package main

import (
	"context"
	"time"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(agencyID, uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	tenant := core.Tenant{AgencyID: agencyID}
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, tenant, user.GetFilter{UsernameOrEmail: []string{uname, email}})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			Username:  uname,
			Email:     email,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if isAdmin {
			usr.Roles = user.AllRoles
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, tenant, usr)
		return err
	}

	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	isActive := true
	_, err = cli.usrRepo.UpdateUser(ctx, tenant, usr, &isActive)
	return err
}
