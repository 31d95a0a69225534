package coingeckoprices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"
)

var (
	_ prices.SpotSource = (*SpotFetcher)(nil)
)

// coinIDs maps supported asset codes to CoinGecko coin ids.
var coinIDs = map[string]string{
	prices.AssetBitcoin:  "bitcoin",
	prices.AssetEthereum: "ethereum",
	prices.AssetUsdt:     "tether",
	prices.AssetUsdc:     "usd-coin",
}

// SpotFetcher queries the CoinGecko simple-price endpoint for all supported
// assets in a single request.
type SpotFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewSpotFetcher() *SpotFetcher {
	return &SpotFetcher{
		BaseURL: "https://api.coingecko.com/api/v3",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *SpotFetcher) FetchSpot(ctx context.Context) (map[string]float64, error) {
	ids := make([]string, 0, len(coinIDs))
	for _, id := range coinIDs {
		ids = append(ids, id)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.BaseURL,
		strings.Join(ids, ","),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	quotes := make(map[string]float64, len(coinIDs))
	for asset, id := range coinIDs {
		value, ok := result[id]["usd"]
		if !ok {
			return nil, fmt.Errorf("price not found for asset %s", asset)
		}
		quotes[asset] = value
	}

	return quotes, nil
}
