package scene

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDescription_YAMLAndTOMLAgree(t *testing.T) {
	fromYAML, err := LoadDescription(filepath.Join("testdata", "room.yaml"))
	require.NoError(t, err)
	fromTOML, err := LoadDescription(filepath.Join("testdata", "room.toml"))
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML)
	assert.Equal(t, "room", fromYAML.Name)
	assert.Equal(t, 2, fromYAML.Build.MaxLeafSize)
	assert.Equal(t, "testdata", fromYAML.BaseDir)
	require.Len(t, fromYAML.Objects, 3)
	require.Len(t, fromYAML.Lamps, 3)

	bunny := fromYAML.Objects[1]
	assert.Equal(t, "tetra.ply", bunny.Mesh)
	require.NotNil(t, bunny.UseMIS)
	assert.False(t, *bunny.UseMIS)
	assert.Nil(t, bunny.CastShadow)

	point := fromYAML.Lamps[0]
	require.NotNil(t, point.MaxBounces)
	assert.Equal(t, 3, *point.MaxBounces)
	assert.Equal(t, [3]float32{2, 0, 3}, point.Position)
	assert.Equal(t, []string{"camera"}, fromYAML.Lamps[2].Invisible)
}

func TestParseDescription_Errors(t *testing.T) {
	_, err := ParseDescription([]byte("name: x"), "json")
	assert.True(t, errors.Is(err, ErrUnknownFormat), "got %v", err)

	_, err = ParseDescription([]byte("objects: [unclosed"), "yaml")
	assert.Error(t, err)

	_, err = ParseDescription([]byte("name = "), "toml")
	assert.Error(t, err)

	_, err = LoadDescription(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}
