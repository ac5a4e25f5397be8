package extract

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/neocad/errors"
)

func TestLoadNEOs(t *testing.T) {
	neos, err := LoadNEOs(filepath.Join("testdata", "neos.csv"))
	require.NoError(t, err)
	require.Len(t, neos, 4)

	eros := neos[0]
	assert.Equal(t, "433", eros.Designation)
	assert.Equal(t, "Eros", eros.Name)
	assert.Equal(t, 16.84, eros.Diameter)
	assert.False(t, eros.Hazardous)

	assert.True(t, neos[1].Hazardous)

	anon := neos[2]
	assert.Equal(t, "2020 AB", anon.Designation)
	assert.False(t, anon.HasName())
	assert.True(t, math.IsNaN(anon.Diameter))
}

func TestLoadNEOs_MissingFile(t *testing.T) {
	_, err := LoadNEOs(filepath.Join("testdata", "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestReadNEOs_Edges(t *testing.T) {
	neos, err := ReadNEOs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, neos)

	neos, err = ReadNEOs(strings.NewReader("pdes,name,pha\n2001 XY\n"))
	require.NoError(t, err)
	require.Len(t, neos, 1)
	assert.Equal(t, "2001 XY", neos[0].Designation)
	assert.False(t, neos[0].HasName())

	_, err = ReadNEOs(strings.NewReader("pdes,name\n\"unterminated,x\n"))
	assert.Error(t, err)
}

func TestLoadApproaches(t *testing.T) {
	approaches, err := LoadApproaches(filepath.Join("testdata", "cad.json"))
	require.NoError(t, err)
	require.Len(t, approaches, 5)

	first := approaches[0]
	assert.Equal(t, "433", first.JoinKey())
	assert.Equal(t, "1900-12-27 01:30", first.TimeString())
	require.NotNil(t, first.Distance)
	assert.Equal(t, 0.31, *first.Distance)
	require.NotNil(t, first.Velocity)
	assert.Equal(t, 5.58, *first.Velocity)

	// Raw zero distance and velocity load as absent
	zero := approaches[3]
	assert.Equal(t, "1036", zero.JoinKey())
	assert.Nil(t, zero.Distance)
	assert.Nil(t, zero.Velocity)

	for _, approach := range approaches {
		assert.Nil(t, approach.NEO())
	}
}

func TestReadApproaches_Errors(t *testing.T) {
	_, err := ReadApproaches(strings.NewReader(`{"data": [["433", "659"]]}`))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = ReadApproaches(strings.NewReader(`{"data": `))
	assert.Error(t, err)
}

func TestReadApproaches_Nulls(t *testing.T) {
	doc := `{"data": [["433", null, null, null, "0.2", null, null, "3.3"]]}`
	approaches, err := ReadApproaches(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, approaches, 1)
	assert.Nil(t, approaches[0].Time)
	assert.Equal(t, 0.2, *approaches[0].Distance)
}
