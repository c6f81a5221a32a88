package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fempost/transport"
)

func TestLoadRegistry_RejectsDuplicateOperators(t *testing.T) {
	src := []byte(`
operator "U" {
  output "fields_container" {
    pin   = 0
    types = ["fields_container"]
  }
}

operator "U" {
  output "fields_container" {
    pin   = 0
    types = ["fields_container"]
  }
}
`)
	_, err := loadRegistry(src, "dup.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"U" declared twice`)
}

func TestLoadRegistry_RejectsDuplicatePinIndices(t *testing.T) {
	src := []byte(`
operator "broken" {
  input "a" {
    pin   = 4
    types = ["data_sources"]
  }
  input "b" {
    pin   = 4
    types = ["streams_container"]
  }
}
`)
	_, err := loadRegistry(src, "dup_pin.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pin index 4 declared twice")
}

func TestLoadRegistry_RejectsMalformedManifest(t *testing.T) {
	_, err := loadRegistry([]byte(`operator "x" {`), "broken.hcl")
	require.Error(t, err)
}

func TestResultProviderSpec_WithoutTemplate(t *testing.T) {
	src := []byte(`
operator "U" {
  output "fields_container" {
    pin   = 0
    types = ["fields_container"]
  }
}
`)
	reg, err := loadRegistry(src, "no_template.hcl")
	require.NoError(t, err)

	_, err = reg.ResultProviderSpec("ENG_SE")
	require.ErrorIs(t, err, transport.ErrUnknownOperator)
}
