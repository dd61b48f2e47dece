package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated: http.StatusUnauthorized,
		Forbidden:       http.StatusForbidden,
		NotFound:        http.StatusNotFound,
		Conflict:        http.StatusConflict,
		InvalidInput:    http.StatusUnprocessableEntity,
		Internal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, Status(New(kind, "x")))
	}

	// Unknown errors are treated as internal.
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestMessageHidesInternalDetail(t *testing.T) {
	err := Wrap(Internal, "fallo al escribir en disco", errors.New("permission denied"))
	assert.NotContains(t, Message(err), "disco")
	assert.NotContains(t, Message(err), "permission")

	visible := New(Conflict, "El folio ya existe")
	assert.Equal(t, "El folio ya existe", Message(visible))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("conexión rechazada")
	err := Wrap(Internal, "error al consultar", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Internal, KindOf(err))
}
