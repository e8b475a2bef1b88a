// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size when the caller gives none.
const DefaultLimit = 10

// MaxLimit caps the page size a caller may ask for.
const MaxLimit = 100

// ErrInvalidWindow is wrapped by every Parse failure.
var ErrInvalidWindow = errors.New("invalid paging parameters")

// Window is an offset page: skip rows, then return at most limit.
type Window struct {
	Skip  int64
	Limit int64
}

// Parse reads "skip" (>= 0, default 0) and "limit" (1..MaxLimit, default
// DefaultLimit) from the query string. Out-of-range or non-numeric values are
// errors, not clamped.
func Parse(r *http.Request) (Window, error) {
	w := Window{Skip: 0, Limit: DefaultLimit}

	if s := query.Get(r, "skip"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return Window{}, fmt.Errorf("%w: skip must be a non-negative integer", ErrInvalidWindow)
		}
		w.Skip = n
	}
	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 1 || n > MaxLimit {
			return Window{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidWindow, MaxLimit)
		}
		w.Limit = n
	}
	return w, nil
}

// FindOptions returns options applying the window, newest records first with
// _id as a stable tiebreak.
func (w Window) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(w.Skip).
		SetLimit(w.Limit)
}
