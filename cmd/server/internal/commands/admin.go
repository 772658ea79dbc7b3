package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/inventory"
)

type CreateAdminCmd struct {
	Username string `help:"username" required:""`
	Email    string `help:"email address used to log in" required:""`
	Password string `help:"password" required:"" env:"NDRWEB_ADMIN_PASSWORD"`
	RealName string `help:"display name" default:""`
}

func (c *CreateAdminCmd) Run(globals *Globals) error {
	ctx := context.Background()

	b, accountSvc, err := adminSession(ctx, globals)
	if err != nil {
		return err
	}
	defer b.Close()

	user, err := accountSvc.CreateSuperuser(ctx, c.Username, c.Email, c.Password, c.RealName)
	if err != nil {
		return err
	}

	fmt.Println(user.UserID)
	return nil
}

type CreateUserCmd struct {
	As       string `help:"email of the superuser performing the change" required:"" env:"NDRWEB_AS"`
	Username string `help:"username" required:""`
	Email    string `help:"email address used to log in" required:""`
	Password string `help:"password" required:"" env:"NDRWEB_USER_PASSWORD"`
	RealName string `help:"display name" default:""`
}

func (c *CreateUserCmd) Run(globals *Globals) error {
	ctx := context.Background()

	b, accountSvc, err := adminSession(ctx, globals)
	if err != nil {
		return err
	}
	defer b.Close()

	actor, err := actingUser(ctx, accountSvc, c.As)
	if err != nil {
		return err
	}

	user, err := accountSvc.Create(ctx, actor, c.Username, c.Email, c.Password, c.RealName)
	if err != nil {
		return err
	}

	fmt.Println(user.UserID)
	return nil
}

type CreateOrgCmd struct {
	As   string `help:"email of the superuser performing the change" required:"" env:"NDRWEB_AS"`
	Name string `arg:"" help:"organization name"`
}

func (c *CreateOrgCmd) Run(globals *Globals) error {
	ctx := context.Background()

	b, accountSvc, err := adminSession(ctx, globals)
	if err != nil {
		return err
	}
	defer b.Close()

	actor, err := actingUser(ctx, accountSvc, c.As)
	if err != nil {
		return err
	}

	org, err := inventory.NewService(b.stores).CreateOrganization(ctx, actor, c.Name)
	if err != nil {
		return err
	}

	fmt.Println(org.OrgID)
	return nil
}

type CreateSiteCmd struct {
	As    string    `help:"email of the superuser performing the change" required:"" env:"NDRWEB_AS"`
	OrgID uuid.UUID `name:"org" help:"organization ID" required:""`
	Name  string    `arg:"" help:"site name"`
}

func (c *CreateSiteCmd) Run(globals *Globals) error {
	ctx := context.Background()

	b, accountSvc, err := adminSession(ctx, globals)
	if err != nil {
		return err
	}
	defer b.Close()

	actor, err := actingUser(ctx, accountSvc, c.As)
	if err != nil {
		return err
	}

	site, err := inventory.NewService(b.stores).CreateSite(ctx, actor, c.OrgID, c.Name)
	if err != nil {
		return err
	}

	fmt.Println(site.SiteID)
	return nil
}

type CreateRecorderCmd struct {
	As     string    `help:"email of the superuser performing the change" required:"" env:"NDRWEB_AS"`
	SiteID uuid.UUID `name:"site" help:"site ID" required:""`
	Type   string    `help:"recorder type" default:"ndr"`
	Name   string    `arg:"" help:"recorder name"`
}

func (c *CreateRecorderCmd) Run(globals *Globals) error {
	ctx := context.Background()

	b, accountSvc, err := adminSession(ctx, globals)
	if err != nil {
		return err
	}
	defer b.Close()

	actor, err := actingUser(ctx, accountSvc, c.As)
	if err != nil {
		return err
	}

	recorder, err := inventory.NewService(b.stores).CreateRecorder(ctx, actor, c.SiteID, c.Name, c.Type)
	if err != nil {
		return err
	}

	fmt.Println(recorder.RecorderID)
	return nil
}

type GrantCmd struct {
	As     string    `help:"email of the superuser performing the change" required:"" env:"NDRWEB_AS"`
	User   string    `help:"email of the user receiving access" required:""`
	OrgID  uuid.UUID `name:"org" help:"organization ID" required:""`
	Revoke bool      `help:"remove the grant instead of adding it"`
}

func (c *GrantCmd) Run(globals *Globals) error {
	ctx := context.Background()

	b, accountSvc, err := adminSession(ctx, globals)
	if err != nil {
		return err
	}
	defer b.Close()

	actor, err := actingUser(ctx, accountSvc, c.As)
	if err != nil {
		return err
	}

	grantee, err := accountSvc.ReadByEmail(ctx, c.User)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", c.User, err)
	}

	inv := inventory.NewService(b.stores)

	if c.Revoke {
		return inv.RevokeOrganization(ctx, actor, grantee.UserID, c.OrgID)
	}

	_, err = inv.GrantOrganization(ctx, actor, grantee.UserID, c.OrgID)
	return err
}
