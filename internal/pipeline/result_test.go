package pipeline_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/internal/pipeline"
	"github.com/jeevandaan/website/pkg/session"
)

func TestFlashRoundTrip(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)

	res := pipeline.Result{
		Form: forms.Contact,
		Code: http.StatusBadRequest,
		Outcome: pipeline.Outcome{
			Success: false,
			Message: "Please correct the highlighted field and try again.",
		},
		FieldErrors: map[string]string{"email": "must be a valid email address"},
		Fields:      map[string]string{"name": "Asha Patel", "email": "broken"},
	}
	res.Flash(sess)

	flash, ok := pipeline.PopFlash(sess, forms.Contact)
	require.True(t, ok)
	assert.False(t, flash.Outcome.Success)
	assert.Equal(t, res.Outcome.Message, flash.Outcome.Message)
	assert.Equal(t, "must be a valid email address", flash.FieldErrors["email"])
	assert.Equal(t, "Asha Patel", flash.Fields["name"])

	// read-once: the second pop finds nothing
	_, ok = pipeline.PopFlash(sess, forms.Contact)
	assert.False(t, ok)
}

func TestFlashScopedPerForm(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)

	pipeline.Result{
		Form:    forms.Contact,
		Outcome: pipeline.Outcome{Success: true, Message: "sent"},
	}.Flash(sess)

	_, ok := pipeline.PopFlash(sess, forms.Volunteer)
	assert.False(t, ok, "volunteer form must not see contact outcomes")

	flash, ok := pipeline.PopFlash(sess, forms.Contact)
	require.True(t, ok)
	assert.True(t, flash.Outcome.Success)
}

func TestFlashRejectedStoresNothing(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)

	pipeline.Result{
		Form:     forms.Contact,
		Code:     http.StatusForbidden,
		Rejected: true,
		Outcome:  pipeline.Outcome{Message: "nope"},
	}.Flash(sess)

	_, ok := pipeline.PopFlash(sess, forms.Contact)
	assert.False(t, ok)
}

func TestFlashSuccessClearsFields(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)

	pipeline.Result{
		Form:    forms.Contact,
		Code:    http.StatusOK,
		Outcome: pipeline.Outcome{Success: true, Message: "sent"},
	}.Flash(sess)

	flash, ok := pipeline.PopFlash(sess, forms.Contact)
	require.True(t, ok)
	assert.True(t, flash.Outcome.Success)
	assert.Empty(t, flash.Fields)
	assert.Empty(t, flash.FieldErrors)
}
