package domain

// WalletAccount is a connected wallet account with its ether balance
// rendered as a decimal string.
type WalletAccount struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}
