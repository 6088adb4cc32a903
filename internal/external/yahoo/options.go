package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// OptionsActivity aggregates the nearest-expiry option chain for one
// symbol.
type OptionsActivity struct {
	Ticker        string    `json:"ticker"`
	Expiry        time.Time `json:"expiry"`
	CallVolume    float64   `json:"call_volume"`
	PutVolume     float64   `json:"put_volume"`
	CallOI        float64   `json:"call_oi"`
	PutOI         float64   `json:"put_oi"`
	VolumeOIRatio float64   `json:"volume_oi_ratio"`
	PutCallRatio  float64   `json:"put_call_ratio"`
}

// TotalVolume is call plus put volume across the chain.
func (o OptionsActivity) TotalVolume() float64 {
	return o.CallVolume + o.PutVolume
}

type optionContract struct {
	Volume       float64 `json:"volume"`
	OpenInterest float64 `json:"openInterest"`
}

// optionChainResponse is the option chain API envelope.
type optionChainResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				ExpirationDate int64            `json:"expirationDate"`
				Calls          []optionContract `json:"calls"`
				Puts           []optionContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"optionChain"`
}

// FetchOptionsActivity aggregates volume and open interest for the
// nearest expiry. Returns an error when the symbol has no listed
// options or the chain carries zero open interest.
func (c *Client) FetchOptionsActivity(ctx context.Context, symbol string) (*OptionsActivity, error) {
	u := fmt.Sprintf("%s/v7/finance/options/%s",
		c.baseURL, url.PathEscape(yahooSymbol(symbol)))

	var chain optionChainResponse
	if err := c.httpClient.GetJSON(ctx, u, &chain); err != nil {
		return nil, fmt.Errorf("yahoo options %s: %w", symbol, err)
	}
	if chain.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo options %s: api error: %s",
			symbol, chain.OptionChain.Error.Description)
	}
	if len(chain.OptionChain.Result) == 0 || len(chain.OptionChain.Result[0].Options) == 0 {
		return nil, fmt.Errorf("yahoo options %s: no listed options", symbol)
	}

	// First entry is the nearest expiry.
	nearest := chain.OptionChain.Result[0].Options[0]

	activity := &OptionsActivity{
		Ticker: symbol,
		Expiry: time.Unix(nearest.ExpirationDate, 0).UTC(),
	}
	for _, call := range nearest.Calls {
		activity.CallVolume += call.Volume
		activity.CallOI += call.OpenInterest
	}
	for _, put := range nearest.Puts {
		activity.PutVolume += put.Volume
		activity.PutOI += put.OpenInterest
	}

	totalOI := activity.CallOI + activity.PutOI
	if totalOI == 0 {
		return nil, fmt.Errorf("yahoo options %s: zero open interest", symbol)
	}
	activity.VolumeOIRatio = activity.TotalVolume() / totalOI
	if activity.CallVolume > 0 {
		activity.PutCallRatio = activity.PutVolume / activity.CallVolume
	} else {
		activity.PutCallRatio = 1.0
	}

	return activity, nil
}
