package prices

import "context"

// Supported custody assets plus the synthetic USD unit used for
// main-balance bookkeeping.
const (
	AssetBitcoin  = "BITCOIN"
	AssetEthereum = "ETHEREUM"
	AssetUsdt     = "USDT"
	AssetUsdc     = "USDC"
	AssetUsd      = "USD"
)

// Supported returns the asset codes that carry their own balance field.
func Supported() []string {
	return []string{AssetBitcoin, AssetEthereum, AssetUsdt, AssetUsdc}
}

func IsSupported(asset string) bool {
	for _, a := range Supported() {
		if a == asset {
			return true
		}
	}
	return false
}

// SpotSource fetches current USD quotes for every supported asset in a
// single call.
type SpotSource interface {
	FetchSpot(ctx context.Context) (map[string]float64, error)
}
