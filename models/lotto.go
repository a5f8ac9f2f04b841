package models

import "time"

// LottoRound represents one lottery round. Winner and WinningTicket are nil
// for rounds that paid out nothing (empty pool).
type LottoRound struct {
	ID            int64
	CreationDate  time.Time
	Completed     bool
	Pot           int64
	Winner        *string
	WinningTicket *int64
}

// PoolEntry is one user's accumulated ticket count in the current pool
type PoolEntry struct {
	UserID string
	Count  int64
}

// TicketPurchase is the outcome of a successful ticket purchase
type TicketPurchase struct {
	Count      int64
	Cost       int64
	NewBalance int64
}

// FlipResult is the outcome of a coin flip
type FlipResult struct {
	Won        bool
	Bet        int64
	Payout     int64
	NewBalance int64
}

// DrawResult is the outcome of a completed lottery draw
type DrawResult struct {
	Round         *LottoRound
	Winner        string
	Pot           int64
	WinningTicket int64
	TotalTickets  int64
}
