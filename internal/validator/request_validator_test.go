package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeReq struct {
	Name string `json:"name" validate:"required" label:"Name"`
}

type colorReq struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required,hexcolor" label:"Value"`
}

func TestRequestValidator_Required(t *testing.T) {
	v := New()

	err := v.Validate(&storeReq{})
	require.Error(t, err)
	assert.Equal(t, "Name is required", Message(err))

	assert.NoError(t, v.Validate(&storeReq{Name: "shop"}))
}

func TestRequestValidator_InvalidTag(t *testing.T) {
	v := New()

	err := v.Validate(&colorReq{Name: "red", Value: "red"})
	require.Error(t, err)
	assert.Equal(t, "Value is invalid", Message(err))

	assert.NoError(t, v.Validate(&colorReq{Name: "red", Value: "#ff0000"}))
}

func TestMessage_NotValidationError(t *testing.T) {
	assert.Equal(t, "invalid body", Message(errors.New("boom")))
}

func TestVar_HexColor(t *testing.T) {
	for _, v := range []string{"#fff", "#00FF7a"} {
		assert.NoError(t, Var(v, "required,hexcolor"), v)
	}
	for _, v := range []string{"", "fff", "#fffff", "#gggggg"} {
		assert.Error(t, Var(v, "required,hexcolor"), v)
	}
}
