package lottery

import (
	"github.com/ben-j-c/bros-server-bot/bot/command"
	"github.com/ben-j-c/bros-server-bot/service"
)

// Feature bundles the flip, lotto, lottopool and lottowhen commands
type Feature struct {
	lotto service.LottoService
}

func New(lotto service.LottoService) *Feature {
	return &Feature{
		lotto: lotto,
	}
}

// Register adds the lottery command descriptors to the registry
func (f *Feature) Register(r *command.Registry) error {
	if err := r.Register(command.Descriptor{
		Name:        "flip",
		Description: "Wager some money for a 50/50 chance to double it",
		Params: []command.Param{
			{Name: "amount", Description: "How much to bet.", Type: command.ParamNumber, Required: true},
		},
		Handler: f.handleFlip,
	}); err != nil {
		return err
	}

	if err := r.Register(command.Descriptor{
		Name:        "lotto",
		Description: "Buy tickets for the daily lotto at $1 per ticket",
		Params: []command.Param{
			{Name: "count", Description: "How many tickets", Type: command.ParamNumber, Required: true},
		},
		Handler: f.handleBuyTickets,
	}); err != nil {
		return err
	}

	if err := r.Register(command.Descriptor{
		Name:        "lottopool",
		Description: "Check the prize pool for the daily lotto",
		Handler:     f.handlePool,
	}); err != nil {
		return err
	}

	return r.Register(command.Descriptor{
		Name:        "lottowhen",
		Description: "Check when the lotto draw will happen",
		Handler:     f.handleWhen,
	})
}
