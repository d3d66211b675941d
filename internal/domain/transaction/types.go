package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type defines the direction of a transaction
type Type string

const (
	TypeDebit  Type = "DEBIT"
	TypeCredit Type = "CREDIT"
)

// Currency defines supported transaction currencies
type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

// Channel defines the origination channel of a transaction
type Channel string

const (
	ChannelTransfer       Channel = "TRANSFER"
	ChannelPOS            Channel = "POS"
	ChannelBillPayment    Channel = "BILL_PAYMENT"
	ChannelVirtualAccount Channel = "VIRTUAL_ACCOUNT"
	ChannelWeb            Channel = "WEB"
	ChannelATM            Channel = "ATM"
)

// Status defines transaction processing states. A transaction is created
// PENDING and moves to exactly one of SUCCESS or FAILED.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

var (
	typeValues     = []Type{TypeDebit, TypeCredit}
	currencyValues = []Currency{CurrencyNGN, CurrencyUSD, CurrencyGBP, CurrencyEUR}
	channelValues  = []Channel{ChannelTransfer, ChannelPOS, ChannelBillPayment, ChannelVirtualAccount, ChannelWeb, ChannelATM}
	statusValues   = []Status{StatusPending, StatusSuccess, StatusFailed}
)

// Wire aliases accepted on decode in addition to the symbolic names.
// Upstream producers historically emit hyphenated channel names.
var channelAliases = map[string]Channel{
	"bill-payment":    ChannelBillPayment,
	"billpayment":     ChannelBillPayment,
	"virtual-account": ChannelVirtualAccount,
	"virtualaccount":  ChannelVirtualAccount,
}

// decodeEnum matches a JSON string against the symbolic enum names
// (case-insensitive) and then against the declared wire aliases.
func decodeEnum[T ~string](data []byte, kind string, values []T, aliases map[string]T) (T, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("%s must be a JSON string: %w", kind, err)
	}
	for _, v := range values {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	if aliases != nil {
		if v, ok := aliases[strings.ToLower(s)]; ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown %s value %q", kind, s)
}

func (t Type) IsValid() bool {
	return t == TypeDebit || t == TypeCredit
}

func (t *Type) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "transaction type", typeValues, nil)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (c Currency) IsValid() bool {
	for _, v := range currencyValues {
		if c == v {
			return true
		}
	}
	return false
}

func (c *Currency) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "currency", currencyValues, nil)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Channel) IsValid() bool {
	for _, v := range channelValues {
		if c == v {
			return true
		}
	}
	return false
}

func (c *Channel) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "channel", channelValues, channelAliases)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

func (s *Status) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, "status", statusValues, nil)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
