package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
)

func TestCompareCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		wantRes int
	}{
		"a greater than b": {
			a:       NewCoin(20, 1234, "ETH"),
			b:       NewCoin(19, 999999999, "ETH"),
			wantRes: 1,
		},
		"a smaller than b": {
			a:       NewCoin(0, -2, "ETH"),
			b:       NewCoin(0, 1, "ETH"),
			wantRes: -1,
		},
		"a greater than b and both negative": {
			a:       NewCoin(-4, -2456, "ETH"),
			b:       NewCoin(-4, -4567, "ETH"),
			wantRes: 1,
		},
		"zero value coins": {
			a:       Coin{},
			b:       Coin{},
			wantRes: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantRes, tc.a.Compare(tc.b))
		})
	}
}

func TestCoinArithmetic(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		wantSum Coin
		wantErr *errors.Error
	}{
		"fractional overflow carries into whole": {
			a:       NewCoin(1, 600000000, "ETH"),
			b:       NewCoin(0, 500000000, "ETH"),
			wantSum: NewCoin(2, 100000000, "ETH"),
		},
		"subtraction through negative": {
			a:       NewCoin(1, 0, "ETH"),
			b:       NewCoin(-1, -500000000, "ETH"),
			wantSum: NewCoin(0, -500000000, "ETH"),
		},
		"zero value without ticker is neutral": {
			a:       Coin{},
			b:       NewCoin(3, 0, "ETH"),
			wantSum: NewCoin(3, 0, "ETH"),
		},
		"different currencies": {
			a:       NewCoin(1, 0, "ETH"),
			b:       NewCoin(1, 0, "MATIC"),
			wantErr: errors.ErrCurrency,
		},
		"whole overflow": {
			a:       NewCoin(MaxInt, 0, "ETH"),
			b:       NewCoin(1, 0, "ETH"),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantSum, got)
			}
		})
	}
}

func TestCoinSubtractToZero(t *testing.T) {
	a := NewCoin(7, 25000000, "ETH")
	res, err := a.Subtract(a)
	assert.Nil(t, err)
	if !res.IsZero() {
		t.Fatalf("want zero, got %v", res)
	}
	if nn := a.Negative().Negative(); !a.Equals(nn) {
		t.Fatal("double negation malformed the coin")
	}
}

func TestCoinPredicates(t *testing.T) {
	cases := map[string]struct {
		c            Coin
		wantZero     bool
		wantPositive bool
		wantNonNeg   bool
	}{
		"zero": {
			c:          NewCoin(0, 0, "ETH"),
			wantZero:   true,
			wantNonNeg: true,
		},
		"fractional positive": {
			c:            NewCoin(0, 1, "ETH"),
			wantPositive: true,
			wantNonNeg:   true,
		},
		"negative": {
			c: NewCoin(0, -1, "ETH"),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantZero, tc.c.IsZero())
			assert.Equal(t, tc.wantPositive, tc.c.IsPositive())
			assert.Equal(t, tc.wantNonNeg, tc.c.IsNonNegative())
		})
	}
}

func TestValidateCoin(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid": {
			coin: NewCoin(1, 25000000, "ETH"),
		},
		"long ticker": {
			coin: NewCoin(1, 0, "MATIC"),
		},
		"missing ticker": {
			coin:    NewCoin(1, 0, ""),
			wantErr: errors.ErrCurrency,
		},
		"lower case ticker": {
			coin:    NewCoin(1, 0, "eth"),
			wantErr: errors.ErrCurrency,
		},
		"whole too big": {
			coin:    NewCoin(MaxInt+1, 0, "ETH"),
			wantErr: errors.ErrOverflow,
		},
		"fractional too big": {
			coin:    NewCoin(0, FracUnit, "ETH"),
			wantErr: errors.ErrOverflow,
		},
		"mismatched sign": {
			coin:    NewCoin(1, -1, "ETH"),
			wantErr: errors.ErrState,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coin.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantCoin Coin
		wantErr  *errors.Error
	}{
		"whole only": {
			raw:      "100 ETH",
			wantCoin: NewCoin(100, 0, "ETH"),
		},
		"listing fee": {
			raw:      "0.025 ETH",
			wantCoin: NewCoin(0, 25000000, "ETH"),
		},
		"nine decimal places": {
			raw:      "1.000000001 MATIC",
			wantCoin: NewCoin(1, 1, "MATIC"),
		},
		"negative": {
			raw:      "-2.5 ETH",
			wantCoin: NewCoin(-2, -500000000, "ETH"),
		},
		"no space": {
			raw:      "3ETH",
			wantCoin: NewCoin(3, 0, "ETH"),
		},
		"too many decimal places": {
			raw:     "1.0000000001 ETH",
			wantErr: errors.ErrInput,
		},
		"missing ticker": {
			raw:     "1.5",
			wantErr: errors.ErrInput,
		},
		"garbage": {
			raw:     "one ETH",
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantCoin, got)
			}
		})
	}
}

func TestCoinString(t *testing.T) {
	cases := map[string]struct {
		coin Coin
		want string
	}{
		"whole":      {coin: NewCoin(100, 0, "ETH"), want: "100 ETH"},
		"fractional": {coin: NewCoin(0, 25000000, "ETH"), want: "0.025 ETH"},
		"negative":   {coin: NewCoin(0, -5, "ETH"), want: "-0.000000005 ETH"},
		"no ticker":  {coin: NewCoin(1, 0, ""), want: "1"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.coin.String())

			if tc.coin.Ticker != "" {
				back, err := ParseHumanFormat(tc.want)
				assert.Nil(t, err)
				assert.Equal(t, tc.coin, back)
			}
		})
	}
}

func TestCoinUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantCoin Coin
		wantErr  bool
	}{
		"human readable": {
			raw:      `"0.025 ETH"`,
			wantCoin: NewCoin(0, 25000000, "ETH"),
		},
		"object": {
			raw:      `{"whole": 3, "fractional": 5, "ticker": "ETH"}`,
			wantCoin: NewCoin(3, 5, "ETH"),
		},
		"invalid human readable": {
			raw:     `"three ETH"`,
			wantErr: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var c Coin
			err := json.Unmarshal([]byte(tc.raw), &c)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.wantCoin, c)
		})
	}
}
