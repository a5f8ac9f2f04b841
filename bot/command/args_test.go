package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestBindArgs_MissingRequiredOption(t *testing.T) {
	params := []Param{
		{Name: "payee", Type: ParamUser, Required: true},
		{Name: "amount", Type: ParamNumber, Required: true},
	}
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "payee", Type: discordgo.ApplicationCommandOptionUser, Value: "123456"},
	}

	args, err := bindArgs(params, options)

	assert.Nil(t, args)
	assert.ErrorIs(t, err, ErrMalformedArguments)
}

func TestBindArgs_OptionalOptionMayBeAbsent(t *testing.T) {
	params := []Param{
		{Name: "amount", Type: ParamNumber, Required: true},
		{Name: "note", Type: ParamText, Required: false},
	}
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "amount", Type: discordgo.ApplicationCommandOptionNumber, Value: 5.0},
	}

	args, err := bindArgs(params, options)

	assert.NoError(t, err)
	assert.True(t, args.Has("amount"))
	assert.False(t, args.Has("note"))
}

func TestArgs_TypedExtraction(t *testing.T) {
	params := []Param{
		{Name: "payee", Type: ParamUser, Required: true},
		{Name: "amount", Type: ParamNumber, Required: true},
		{Name: "note", Type: ParamText, Required: true},
	}
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "payee", Type: discordgo.ApplicationCommandOptionUser, Value: "123456"},
		{Name: "amount", Type: discordgo.ApplicationCommandOptionNumber, Value: 25.0},
		{Name: "note", Type: discordgo.ApplicationCommandOptionString, Value: "for services"},
	}

	args, err := bindArgs(params, options)
	assert.NoError(t, err)

	payee, err := args.UserID("payee")
	assert.NoError(t, err)
	assert.Equal(t, "123456", payee)

	amount, err := args.Number("amount")
	assert.NoError(t, err)
	assert.Equal(t, 25.0, amount)

	note, err := args.Text("note")
	assert.NoError(t, err)
	assert.Equal(t, "for services", note)
}

func TestArgs_TypeMismatch(t *testing.T) {
	args := Args{
		"amount": {Name: "amount", Value: "not a number"},
	}

	_, err := args.Number("amount")
	assert.ErrorIs(t, err, ErrMalformedArguments)

	_, err = args.UserID("missing")
	assert.ErrorIs(t, err, ErrMalformedArguments)
}
