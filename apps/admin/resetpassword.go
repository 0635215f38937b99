package main

import (
	"context"
	"time"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/user"
)

func (cli *commandLine) resetPassword(agencyID, uname, pwd string) error {
	ctx := context.Background()
	tenant := core.Tenant{AgencyID: agencyID}
	uname = core.CleanString(uname, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, tenant, user.GetFilter{UsernameOrEmail: []string{uname, uname}})
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateUser(ctx, tenant, usr, nil)
	return err
}
