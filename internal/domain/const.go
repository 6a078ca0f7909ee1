package domain

const (
	// ZeroAddress is the Ethereum zero address, reported by the marketplace
	// contract for mints, burn-style sinks, and the buggy acceptBid buyer field
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// DefaultMarketplaceAddress is the CryptoPunks marketplace contract on mainnet
	DefaultMarketplaceAddress = "0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB"

	// DefaultWrapperAddress is the Wrapped Punks (W-PUNKS) contract on mainnet.
	// Transfers to and from this account are classified as wrap/unwrap, not trades.
	DefaultWrapperAddress = "0xb7F7F6C52F2e2fdb1963Eab30438024864c313F6"
)
