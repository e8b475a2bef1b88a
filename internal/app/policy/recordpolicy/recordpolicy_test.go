package recordpolicy_test

import (
	"testing"

	"github.com/dalemusser/influencehub/internal/app/policy/recordpolicy"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/influencehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfileListOwner(t *testing.T) {
	op := testutil.DataOperatorUser()
	owner := recordpolicy.ProfileListOwner(testutil.NewAuthenticatedRequest("GET", "/", op))
	require.NotNil(t, owner)
	assert.Equal(t, op.ID, owner.Hex())

	assert.Nil(t, recordpolicy.ProfileListOwner(testutil.NewAuthenticatedRequest("GET", "/", testutil.InternUser())))
}

func TestCanEditProfile(t *testing.T) {
	op := testutil.DataOperatorUser()
	opID, _ := primitive.ObjectIDFromHex(op.ID)
	mine := models.Profile{CreatedBy: opID}
	theirs := models.Profile{CreatedBy: primitive.NewObjectID()}

	req := testutil.NewAuthenticatedRequest("PUT", "/", op)
	assert.True(t, recordpolicy.CanEditProfile(req, mine))
	assert.False(t, recordpolicy.CanEditProfile(req, theirs))
	assert.True(t, recordpolicy.MayEditSomeProfile(req))

	intern := testutil.NewAuthenticatedRequest("PUT", "/", testutil.InternUser())
	assert.False(t, recordpolicy.MayEditSomeProfile(intern))
	assert.True(t, recordpolicy.CanEditProfile(testutil.NewAuthenticatedRequest("PUT", "/", testutil.ManagerUser()), theirs))
}

func TestViewProfile(t *testing.T) {
	p := models.Profile{Username: "x", CreatedBy: primitive.NewObjectID()}

	_, public := recordpolicy.ViewProfile(testutil.NewAuthenticatedRequest("GET", "/", testutil.InternUser()), p).(models.ProfilePublic)
	assert.True(t, public)
	_, full := recordpolicy.ViewProfile(testutil.NewAuthenticatedRequest("GET", "/", testutil.FinanceUser()), p).(models.Profile)
	assert.True(t, full)
}

func TestCanReadBillingLink(t *testing.T) {
	op := testutil.DataOperatorUser()
	opID, _ := primitive.ObjectIDFromHex(op.ID)

	assert.True(t, recordpolicy.CanReadBillingLink(testutil.NewAuthenticatedRequest("GET", "/", op), opID))
	assert.False(t, recordpolicy.CanReadBillingLink(testutil.NewAuthenticatedRequest("GET", "/", op), primitive.NewObjectID()))
	assert.False(t, recordpolicy.CanReadBillingLink(testutil.NewAuthenticatedRequest("GET", "/", testutil.FinanceUser()), opID))
}
