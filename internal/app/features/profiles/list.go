// internal/app/features/profiles/list.go
package profiles

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/dalemusser/influencehub/internal/app/policy/recordpolicy"
	profilestore "github.com/dalemusser/influencehub/internal/app/store/profiles"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/normalize"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// parseFilter reads the list filters from the query string. Malformed
// values are rejected rather than ignored.
func parseFilter(r *http.Request) (profilestore.Filter, error) {
	f := profilestore.Filter{
		Region:   normalize.Filter(query.Get(r, "region")),
		Language: normalize.Filter(query.Get(r, "language")),
		Search:   normalize.QueryParam(query.Get(r, "search")),
	}

	if v := normalize.Filter(query.Get(r, "platform")); v != "" {
		p := models.Platform(v)
		if !slices.Contains(models.Platforms, p) {
			return f, apperr.Unprocessable("platform is not a supported platform.")
		}
		f.Platform = p
	}
	if v := normalize.Filter(query.Get(r, "content_orientation")); v != "" {
		o := models.ContentOrientation(v)
		if !slices.Contains(models.ContentOrientations, o) {
			return f, apperr.Unprocessable("content_orientation is not a supported orientation.")
		}
		f.ContentOrientation = o
	}

	var err error
	if f.MinFollowers, err = intParam(r, "min_followers"); err != nil {
		return f, err
	}
	if f.MaxFollowers, err = intParam(r, "max_followers"); err != nil {
		return f, err
	}
	if v := query.Get(r, "is_betting_allowed"); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return f, apperr.Unprocessable("is_betting_allowed must be true or false.")
		}
		f.IsBettingAllowed = &b
	}
	return f, nil
}

func intParam(r *http.Request, key string) (*int64, error) {
	v := query.Get(r, key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, apperr.Unprocessable(key + " must be an integer.")
	}
	return &n, nil
}

// ServeList returns one page of profiles, newest first. Data operators see
// only profiles they created; fields are trimmed per caller.
// GET /api/profiles
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	win, err := paging.Parse(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	f.CreatedBy = recordpolicy.ProfileListOwner(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "profiles.list")
	defer cancel()

	list, err := profilestore.New(h.DB).List(ctx, f, win)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	out := make([]any, 0, len(list))
	for _, p := range list {
		out = append(out, recordpolicy.ViewProfile(r, p))
	}
	respond.JSON(w, http.StatusOK, out)
}
