package commands

import (
	"fmt"

	"paprikaplate/internal/pepperplate"

	"github.com/tcnksm/go-input"
)

// promptCredentials asks for whatever credentials the config left out.
func promptCredentials(ui *input.UI, cfg Config) (pepperplate.Credentials, error) {
	creds := pepperplate.Credentials{
		Email:    cfg.Email,
		Password: cfg.Password,
	}

	var err error
	if creds.Email == "" {
		creds.Email, err = ui.Ask("pepperplate email:", &input.Options{
			Required:  true,
			Loop:      true,
			HideOrder: true,
		})
		if err != nil {
			return creds, fmt.Errorf("email: %w", err)
		}
	}
	if creds.Password == "" {
		creds.Password, err = ui.Ask("pepperplate password:", &input.Options{
			Required:  true,
			Loop:      true,
			Mask:      true,
			HideOrder: true,
		})
		if err != nil {
			return creds, fmt.Errorf("password: %w", err)
		}
	}
	return creds, nil
}
