package dto

type CartItem struct {
	ProductID uint    `json:"id"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type CheckoutRequest struct {
	Items    []CartItem   `json:"items"`
	Customer CustomerInfo `json:"customer"`
}

type CheckoutResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"url"`
	BuyOrder    string `json:"buyOrder"`
	Amount      int64  `json:"amount"`
}

type CommitResponse struct {
	Authorized        bool   `json:"authorized"`
	Status            string `json:"status"`
	BuyOrder          string `json:"buyOrder,omitempty"`
	Amount            int64  `json:"amount,omitempty"`
	AuthorizationCode string `json:"authorizationCode,omitempty"`
	ResponseCode      int    `json:"responseCode"`
	CardDetail        string `json:"cardDetail,omitempty"`
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}
