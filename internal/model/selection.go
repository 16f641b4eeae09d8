package model

import "fmt"

// Coin identifies a tracked cryptocurrency by its backend id.
type Coin string

// Period identifies the analysis window.
type Period string

const (
	CoinBitcoin     Coin = "bitcoin"
	CoinEthereum    Coin = "ethereum"
	CoinBinanceCoin Coin = "binancecoin"
	CoinRipple      Coin = "ripple"
	CoinCardano     Coin = "cardano"

	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
)

// Option is a selectable value with its display name.
type Option[T ~string] struct {
	ID   T
	Name string
}

// Coins lists the selectable coins in display order.
var Coins = []Option[Coin]{
	{CoinBitcoin, "Bitcoin (BTC)"},
	{CoinEthereum, "Ethereum (ETH)"},
	{CoinBinanceCoin, "Binance Coin (BNB)"},
	{CoinRipple, "XRP"},
	{CoinCardano, "Cardano (ADA)"},
}

// Periods lists the selectable periods in display order.
var Periods = []Option[Period]{
	{Period24h, "24 Hours"},
	{Period7d, "7 Days"},
	{Period30d, "30 Days"},
	{Period90d, "90 Days"},
}

// Selection is the user-chosen (coin, period) pair driving what to fetch.
type Selection struct {
	Coin   Coin
	Period Period
}

// DefaultSelection is used when nothing else is configured.
var DefaultSelection = Selection{Coin: CoinBitcoin, Period: Period24h}

func (s Selection) String() string {
	return fmt.Sprintf("%s/%s", s.Coin, s.Period)
}

// ParseCoin validates a coin id.
func ParseCoin(id string) (Coin, bool) {
	for _, c := range Coins {
		if string(c.ID) == id {
			return c.ID, true
		}
	}
	return "", false
}

// ParsePeriod validates a period id.
func ParsePeriod(id string) (Period, bool) {
	for _, p := range Periods {
		if string(p.ID) == id {
			return p.ID, true
		}
	}
	return "", false
}
