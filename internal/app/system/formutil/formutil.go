// Package formutil reads JSON request bodies and path ids.
//
// Bodies are decoded leniently (unknown fields are ignored) and then checked
// with the struct-tag rules in inputval. A body that fails either step is a
// 422; a path id that is not an ObjectID is a 404, since no record can have
// it.
//
// Example usage:
//
//	var in models.POCInput
//	if err := formutil.Bind(r, &in); err != nil {
//		h.ErrLog.Write(w, r, err)
//		return
//	}
//	brandID, err := formutil.ObjectID(r, "id", "Brand not found")
package formutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// MsgInvalidJSON is the message for a body that is not a JSON object.
const MsgInvalidJSON = "Request body must be valid JSON."

// Decode reads the JSON body of r into dst. An empty body is an error.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Unprocessable(MsgInvalidJSON)
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Unprocessable("Request body is required.")
		}
		return apperr.Wrap(apperr.KindUnprocessable, MsgInvalidJSON, err)
	}
	return nil
}

// Bind decodes the body into dst and runs its validation tags.
func Bind(r *http.Request, dst any) error {
	if err := Decode(r, dst); err != nil {
		return err
	}
	if res := inputval.Validate(dst); res.HasErrors() {
		return apperr.Unprocessable(res.All())
	}
	return nil
}

// ObjectID parses the chi URL parameter key. A malformed value yields a
// NotFound error carrying notFound.
func ObjectID(r *http.Request, key, notFound string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(notFound)
	}
	return id, nil
}
