package command

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ErrMalformedArguments indicates the inbound event's option values do not
// match the registered parameter schema
var ErrMalformedArguments = errors.New("malformed command arguments")

// Args holds the option values of one invocation, keyed by parameter name
type Args map[string]*discordgo.ApplicationCommandInteractionDataOption

// bindArgs materializes arguments from the event's option values in declared
// parameter order, failing if a required parameter is absent
func bindArgs(params []Param, options []*discordgo.ApplicationCommandInteractionDataOption) (Args, error) {
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		byName[opt.Name] = opt
	}

	args := make(Args, len(params))
	for _, p := range params {
		opt, ok := byName[p.Name]
		if !ok {
			if p.Required {
				return nil, fmt.Errorf("%w: missing required option %q", ErrMalformedArguments, p.Name)
			}
			continue
		}
		args[p.Name] = opt
	}

	return args, nil
}

// UserID extracts a user-reference argument as the referenced user's id
func (a Args) UserID(name string) (string, error) {
	opt, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: option %q not supplied", ErrMalformedArguments, name)
	}
	id, ok := opt.Value.(string)
	if !ok {
		return "", fmt.Errorf("%w: option %q is not a user reference", ErrMalformedArguments, name)
	}
	return id, nil
}

// Number extracts a numeric argument
func (a Args) Number(name string) (float64, error) {
	opt, ok := a[name]
	if !ok {
		return 0, fmt.Errorf("%w: option %q not supplied", ErrMalformedArguments, name)
	}
	v, ok := opt.Value.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: option %q is not a number", ErrMalformedArguments, name)
	}
	return v, nil
}

// Text extracts a free-text argument
func (a Args) Text(name string) (string, error) {
	opt, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: option %q not supplied", ErrMalformedArguments, name)
	}
	v, ok := opt.Value.(string)
	if !ok {
		return "", fmt.Errorf("%w: option %q is not text", ErrMalformedArguments, name)
	}
	return v, nil
}

// Has reports whether an optional argument was supplied
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}
