package csrf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevandaan/website/pkg/csrf"
	"github.com/jeevandaan/website/pkg/session"
)

func TestTokenIssueAndReuse(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)

	first, err := csrf.Token(sess)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	// same session, same token until rotated
	second, err := csrf.Token(sess)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestVerify(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)
	token, err := csrf.Token(sess)
	require.NoError(t, err)

	assert.NoError(t, csrf.Verify(sess, token))
}

func TestVerifyMismatchInvalidatesToken(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)
	token, err := csrf.Token(sess)
	require.NoError(t, err)

	assert.ErrorIs(t, csrf.Verify(sess, "wrong"), csrf.ErrTokenMismatch)

	// the old token must no longer verify either
	assert.ErrorIs(t, csrf.Verify(sess, token), csrf.ErrTokenMismatch)
}

func TestVerifyAbsentToken(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)

	assert.ErrorIs(t, csrf.Verify(sess, "anything"), csrf.ErrTokenMismatch)

	_, err := csrf.Token(sess)
	require.NoError(t, err)
	assert.ErrorIs(t, csrf.Verify(sess, ""), csrf.ErrTokenMismatch)
}

func TestRotate(t *testing.T) {
	sess := session.NewSession("tok", time.Hour)

	first, err := csrf.Token(sess)
	require.NoError(t, err)

	rotated, err := csrf.Rotate(sess)
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated)

	// the spent token no longer verifies, the fresh one does
	assert.Error(t, csrf.Verify(sess, first))
	// mismatch above invalidated the token entirely; issue a new one
	next, err := csrf.Token(sess)
	require.NoError(t, err)
	assert.NoError(t, csrf.Verify(sess, next))
}
