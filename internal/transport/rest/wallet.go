package rest

import (
	"net/http"

	"github.com/heartmarshall/mintmind/internal/adapter/wallet"
	"github.com/heartmarshall/mintmind/internal/service/appstate"
)

// WalletResponse describes the wallet as the header widget shows it.
type WalletResponse struct {
	Available        bool   `json:"available"`
	Provider         string `json:"provider"`
	Connected        bool   `json:"connected"`
	Connecting       bool   `json:"connecting"`
	Address          string `json:"address,omitempty"`
	FormattedAddress string `json:"formattedAddress,omitempty"`
	Balance          string `json:"balance,omitempty"`
}

func (h *Handler) walletResponse(st appstate.State) WalletResponse {
	return WalletResponse{
		Available:        h.wallet.IsAvailable(),
		Provider:         h.wallet.ProviderName(),
		Connected:        st.WalletAddress != "",
		Connecting:       st.IsConnectingWallet,
		Address:          st.WalletAddress,
		FormattedAddress: wallet.FormatAddress(st.WalletAddress),
		Balance:          st.WalletBalance,
	}
}

// GetWallet reports wallet availability and the connected account.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.walletResponse(h.state.Snapshot()))
}

// ConnectWallet requests account access from the wallet.
func (h *Handler) ConnectWallet(w http.ResponseWriter, r *http.Request) {
	if h.state.Snapshot().IsConnectingWallet {
		writeError(w, http.StatusConflict, "a wallet connection is already in progress", nil)
		return
	}

	if _, err := h.state.ConnectWallet(r.Context()); err != nil {
		handleError(w, r, h.log, err, appstate.WalletMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, h.walletResponse(h.state.Snapshot()))
}

// DisconnectWallet forgets the connected account.
func (h *Handler) DisconnectWallet(w http.ResponseWriter, r *http.Request) {
	h.state.DisconnectWallet(r.Context())
	writeJSON(w, http.StatusOK, h.walletResponse(h.state.Snapshot()))
}
