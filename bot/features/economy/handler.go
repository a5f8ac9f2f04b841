package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/ben-j-c/bros-server-bot/bot/command"
	"github.com/ben-j-c/bros-server-bot/bot/common"
	"github.com/ben-j-c/bros-server-bot/service"
)

func (f *Feature) handleWageslave(s *discordgo.Session, i *discordgo.InteractionCreate, args command.Args) {
	ctx := context.Background()
	userID := i.Member.User.ID

	result, err := f.ledger.GrantDaily(ctx, userID)
	var cooldown *service.CooldownActiveError
	if errors.As(err, &cooldown) {
		hours := int(cooldown.Remaining.Hours())
		minutes := int(cooldown.Remaining.Minutes()) % 60
		common.RespondWithMessage(s, i, fmt.Sprintf("Wait for %d hours and %d minutes.", hours, minutes))
		return
	}
	if err != nil {
		log.Errorf("Error granting daily to user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("$%s deposited for compensation", common.FormatMoney(result.Amount)))
}

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate, args command.Args) {
	ctx := context.Background()
	userID := i.Member.User.ID

	balance, err := f.ledger.GetBalance(ctx, userID)
	if err != nil {
		log.Errorf("Error getting balance for user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("Balance: $%s", common.FormatMoney(balance)))
}

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate, args command.Args) {
	ctx := context.Background()
	userID := i.Member.User.ID

	payeeID, err := args.UserID("payee")
	if err != nil {
		log.Errorf("Error extracting payee: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	dollars, err := args.Number("amount")
	if err != nil {
		log.Errorf("Error extracting amount: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := common.ToCents(dollars)
	if amount <= 0 {
		common.RespondWithMessage(s, i, "Quit being a joker")
		return
	}

	result, err := f.ledger.Transfer(ctx, userID, payeeID, amount)
	if errors.Is(err, service.ErrInsufficientFunds) {
		common.RespondWithMessage(s, i, "Insufficient funds")
		return
	}
	if errors.Is(err, service.ErrInvalidAmount) {
		common.RespondWithMessage(s, i, "Quit being a joker")
		return
	}
	if err != nil {
		log.Errorf("Error transferring %d from %s to %s: %v", amount, userID, payeeID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("Transferred $%s to <@%s>", common.FormatMoney(result.Amount), payeeID))
}
