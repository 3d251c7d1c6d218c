package views

import (
	"context"

	"github.com/dmitrijs2005/passionpath/internal/client/models"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
)

// Profile shows the account email and edits the display name.
type Profile struct {
	d           Deps
	Email       string
	DisplayName string
}

func NewProfile(d Deps) *Profile { return &Profile{d: d.withDefaults()} }

func (v *Profile) Mount(ctx context.Context) {
	if id := v.d.Session.Current().Identity; id != nil {
		v.Email = id.Email
	}
	records, err := v.d.Gateway.Query(ctx, rs.Query{
		Collection: rs.Profiles,
		Columns:    models.ProfileColumns,
		Single:     true,
	})
	if err != nil {
		v.d.Logger.Warn(ctx, "load profile", "error", err)
		return
	}
	if len(records) > 0 {
		if p := models.ProfileFromRecord(records[0]); p.DisplayName != "" {
			v.DisplayName = p.DisplayName
		}
	}
}

// Save upserts the caller's profile; saving twice keeps a single row.
func (v *Profile) Save(ctx context.Context) {
	if err := v.d.Gateway.Upsert(ctx, rs.Profiles, rs.Record{"display_name": v.DisplayName}); err != nil {
		v.d.fail("Save failed", err)
		return
	}
	v.d.succeed("Profile saved", "")
}

func (v *Profile) Render() string {
	return card(
		headingStyle.Render("Profile"),
		"Email:        "+v.Email,
		"Display name: "+v.DisplayName,
	)
}
