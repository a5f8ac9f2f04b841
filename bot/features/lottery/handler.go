package lottery

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

func (f *Feature) handleFlip(s *discordgo.Session, i *discordgo.InteractionCreate, args command.Args) {
	ctx := context.Background()
	userID := i.Member.User.ID

	dollars, err := args.Number("amount")
	if err != nil {
		log.Errorf("Error extracting bet amount: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	bet := common.ToCents(dollars)
	if bet <= 0 {
		common.RespondWithMessage(s, i, "Try a positive number :)")
		return
	}

	result, err := f.lotto.CoinFlip(ctx, userID, bet)
	if errors.Is(err, service.ErrInsufficientFunds) {
		common.RespondWithMessage(s, i, "You don't have that kind of money.")
		return
	}
	if err != nil {
		log.Errorf("Error flipping coin for user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if result.Won {
		common.RespondWithMessage(s, i, fmt.Sprintf("You won $%s", common.FormatMoney(result.Payout)))
	} else {
		common.RespondWithMessage(s, i, "You lost!")
	}
}

func (f *Feature) handleBuyTickets(s *discordgo.Session, i *discordgo.InteractionCreate, args command.Args) {
	ctx := context.Background()
	userID := i.Member.User.ID

	countArg, err := args.Number("count")
	if err != nil {
		log.Errorf("Error extracting ticket count: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	count := int64(countArg)
	if count <= 0 {
		common.RespondWithMessage(s, i, "Try a positive number :)")
		return
	}

	result, err := f.lotto.BuyTickets(ctx, userID, count)
	if errors.Is(err, service.ErrInsufficientFunds) {
		common.RespondWithMessage(s, i, "You don't have that kind of money.")
		return
	}
	if err != nil {
		log.Errorf("Error buying tickets for user %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("Successfully bought %d tickets", result.Count))
}

func (f *Feature) handlePool(s *discordgo.Session, i *discordgo.InteractionCreate, args command.Args) {
	ctx := context.Background()

	value, err := f.lotto.PoolValue(ctx)
	if err != nil {
		log.Errorf("Error getting pool value: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("The total value of the prize pool is $%s", common.FormatMoney(value)))
}

func (f *Feature) handleWhen(s *discordgo.Session, i *discordgo.InteractionCreate, args command.Args) {
	ctx := context.Background()

	next, err := f.lotto.NextDrawTime(ctx)
	if err != nil {
		log.Errorf("Error getting next draw time: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if next == nil {
		common.RespondWithMessage(s, i, "There is no lotto scheduled, sorry bud")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("Next lottery draw: %s", common.FormatDiscordTimestamp(*next, "F")))
}
