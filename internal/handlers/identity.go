package handlers

import (
	"net/http"

	"github.com/anonto42/zynq/backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseID(raw, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, badRequest("Invalid " + field)
	}
	return id, nil
}

// actingUserID resolves the user performing the request. Verified token
// claims win: a client-supplied id that disagrees with them is rejected,
// and a missing one is filled from them. Anonymous requests trust the body.
func actingUserID(c echo.Context, claimed, field string) (primitive.ObjectID, error) {
	id, ok, err := optionalActingUserID(c, claimed, field)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !ok {
		return primitive.NilObjectID, badRequest(field + " is required")
	}
	return id, nil
}

// optionalActingUserID is actingUserID for operations that also accept
// anonymous callers; ok is false when no identity was supplied at all.
func optionalActingUserID(c echo.Context, claimed, field string) (primitive.ObjectID, bool, error) {
	claims := middleware.ClaimsFromContext(c)
	if claimed == "" {
		if claims == nil {
			return primitive.NilObjectID, false, nil
		}
		claimed = claims.UserID
	}
	if claims != nil && claims.UserID != claimed {
		return primitive.NilObjectID, false, echo.NewHTTPError(http.StatusForbidden, "You can only act as yourself")
	}
	id, err := parseID(claimed, field)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return id, true, nil
}
