package transport

// QuantityRequest is the optional body of add/remove. The pointer keeps an
// absent field (defaults to 1) apart from an explicit zero (rejected).
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (r QuantityRequest) Resolve() (uint, bool) {
	if r.Quantity == nil {
		return 1, true
	}
	if *r.Quantity <= 0 {
		return 0, false
	}
	return uint(*r.Quantity), true
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RemoveResponse struct {
	Message  string `json:"message"`
	Deleted  bool   `json:"deleted"`
	Quantity uint   `json:"quantity"`
}
