package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesFileAndReturnsURL(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	url, err := fs.Save("ordenes", "foto.jpg", strings.NewReader("contenido"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ordenes/foto.jpg", url)

	data, err := os.ReadFile(filepath.Join(fs.Dir(), "ordenes", "foto.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))
}

func TestSaveBytes(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	url, err := fs.SaveBytes("vacaciones", "solicitud.pdf", []byte{0x25, 0x50, 0x44, 0x46})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/vacaciones/solicitud.pdf", url)
}

func TestUploadName(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	nombre := UploadName("OT-2026-0001", "entrada", "Foto Frente.JPG", now)
	assert.True(t, strings.HasPrefix(nombre, "OT-2026-0001_entrada_"))
	assert.True(t, strings.HasSuffix(nombre, ".jpg"))

	// Missing extension falls back to .jpg.
	nombre = UploadName("OT-2026-0001", "salida", "captura", now)
	assert.True(t, strings.HasSuffix(nombre, ".jpg"))

	nombre = UploadName("OT-2026-0001", "entrada", "evidencia.png", now)
	assert.True(t, strings.HasSuffix(nombre, ".png"))
}
