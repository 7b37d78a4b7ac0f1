package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/client/router"
)

// Profile shows the user's profile and addresses.
func (a *App) Profile(ctx context.Context) error {
	if err := a.show(ctx, router.Profile, a.profile); err != nil {
		return err
	}
	renderProfile(a.out, a.profile.State())
	return nil
}

// EditProfile prompts for the mutable profile fields; an empty answer keeps
// the current value. Email cannot be changed.
func (a *App) EditProfile(ctx context.Context) error {
	if err := a.enter(ctx, router.Profile, a.profile); err != nil {
		return err
	}

	st := a.profile.State()
	if st.User == nil {
		renderMessages(a.out, st.Error, st.Success)
		return nil
	}

	upd := models.ProfileUpdateFrom(*st.User)
	if err := a.readFields(
		textField{"Username", &upd.Username},
		textField{"First name", &upd.FirstName},
		textField{"Last name", &upd.LastName},
		textField{"Phone number", &upd.PhoneNumber},
	); err != nil {
		return err
	}

	err := a.profile.UpdateProfile(ctx, upd)
	renderProfile(a.out, a.profile.State())
	return err
}

// AddAddress prompts for a new address.
func (a *App) AddAddress(ctx context.Context) error {
	if err := a.enter(ctx, router.Profile, a.profile); err != nil {
		return err
	}
	return a.saveAddress(ctx, models.Address{})
}

// EditAddress prompts for changes to the address with the given id.
func (a *App) EditAddress(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if err := a.enter(ctx, router.Profile, a.profile); err != nil {
		return err
	}

	for _, addr := range a.profile.State().Addresses {
		if addr.ID == n {
			return a.saveAddress(ctx, addr)
		}
	}
	err = fmt.Errorf("no address with id %d", n)
	fmt.Fprintln(a.out, err.Error())
	return err
}

func (a *App) saveAddress(ctx context.Context, addr models.Address) error {
	if err := a.readFields(
		textField{"Street", &addr.Street},
		textField{"City", &addr.City},
		textField{"State", &addr.State},
		textField{"Zip code", &addr.Zipcode},
		textField{"Country", &addr.Country},
	); err != nil {
		return err
	}

	def, err := getYesNo(a.reader, "Default address?", addr.IsDefault, a.out)
	if err != nil {
		return err
	}
	addr.IsDefault = def

	err = a.profile.SaveAddress(ctx, addr)
	renderProfile(a.out, a.profile.State())
	return err
}

// DeleteAddress deletes the address with the given id.
func (a *App) DeleteAddress(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if err := a.enter(ctx, router.Profile, a.profile); err != nil {
		return err
	}

	err = a.profile.DeleteAddress(ctx, n)
	renderProfile(a.out, a.profile.State())
	return err
}
