package economy

import (
	"github.com/ben-j-c/bros-server-bot/bot/command"
	"github.com/ben-j-c/bros-server-bot/service"
)

// Feature bundles the wageslave, balance and pay commands
type Feature struct {
	ledger service.LedgerService
}

func New(ledger service.LedgerService) *Feature {
	return &Feature{
		ledger: ledger,
	}
}

// Register adds the economy command descriptors to the registry
func (f *Feature) Register(r *command.Registry) error {
	if err := r.Register(command.Descriptor{
		Name:        "wageslave",
		Description: "Your base sustenance.",
		Handler:     f.handleWageslave,
	}); err != nil {
		return err
	}

	if err := r.Register(command.Descriptor{
		Name:        "balance",
		Description: "How much $$$ you got?",
		Handler:     f.handleBalance,
	}); err != nil {
		return err
	}

	return r.Register(command.Descriptor{
		Name:        "pay",
		Description: "Payment for services.",
		Params: []command.Param{
			{Name: "payee", Description: "Who receives this.", Type: command.ParamUser, Required: true},
			{Name: "amount", Description: "How much to transfer.", Type: command.ParamNumber, Required: true},
		},
		Handler: f.handlePay,
	})
}
